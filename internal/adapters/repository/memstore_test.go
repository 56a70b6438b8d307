package repository_test

import (
	"context"
	"testing"

	repository "github.com/natigahub/natiga/internal/adapters/repository"
	"github.com/natigahub/natiga/internal/domain/model"
	"github.com/natigahub/natiga/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func memFixtures() []model.ResultRecord {
	return []model.ResultRecord{
		{Name: "Ahmed Mohamed Ali", SeatNo: 1001, Category: model.Int64Ptr(5), Grade: model.Float64Ptr(95)},
		{Name: "Sara Ahmed Hassan", SeatNo: 1002, Category: model.Int64Ptr(5), Grade: model.Float64Ptr(90)},
		{Name: "Omar Khaled", SeatNo: 1003, Category: model.Int64Ptr(5), Grade: model.Float64Ptr(80)},
		{Name: "Mona Adel", SeatNo: 1004, Category: model.Int64Ptr(3), Grade: model.Float64Ptr(70)},
		{Name: "Youssef Tarek", SeatNo: 1005, Category: model.Int64Ptr(5)}, // no grade
		{Name: "Nour Samir", SeatNo: 1006, Grade: model.Float64Ptr(60)},    // no category
	}
}

func TestMemoryStore_FindByNamePattern(t *testing.T) {
	Convey("Given a populated memory store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore(repository.WithRecords(memFixtures()))

		Convey("When matching a full substring", func() {
			rows, err := store.FindByNamePattern(ctx, "%ahmed mohamed ali%", 1)

			Convey("Then the matching row is returned case-insensitively", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 1)
				So(rows[0].SeatNo, ShouldEqual, 1001)
			})
		})

		Convey("When matching a wildcard-joined pattern", func() {
			rows, err := store.FindByNamePattern(ctx, "%Ahmed%Ali%", 1)

			Convey("Then separator variance is tolerated", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 1)
				So(rows[0].Name, ShouldEqual, "Ahmed Mohamed Ali")
			})
		})

		Convey("When several rows match", func() {
			rows, err := store.FindByNamePattern(ctx, "%Ahmed%", 10)

			Convey("Then rows come back in insertion order", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 2)
				So(rows[0].SeatNo, ShouldEqual, 1001)
				So(rows[1].SeatNo, ShouldEqual, 1002)
			})

			Convey("And a limit of one truncates to the first match", func() {
				limited, err := store.FindByNamePattern(ctx, "%Ahmed%", 1)
				So(err, ShouldBeNil)
				So(limited, ShouldHaveLength, 1)
				So(limited[0].SeatNo, ShouldEqual, 1001)
			})
		})

		Convey("When nothing matches", func() {
			rows, err := store.FindByNamePattern(ctx, "%Nobody Here%", 1)

			Convey("Then an empty result is not an error", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldBeEmpty)
			})
		})

		Convey("When the limit is invalid", func() {
			_, err := store.FindByNamePattern(ctx, "%x%", 0)

			Convey("Then ErrInvalidLimit is returned", func() {
				So(err, ShouldEqual, repository.ErrInvalidLimit)
			})
		})
	})
}

func TestMemoryStore_ListGradedByCategory(t *testing.T) {
	Convey("Given a populated memory store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore(repository.WithRecords(memFixtures()))

		Convey("When listing category 5", func() {
			rows, err := store.ListGradedByCategory(ctx, 5)

			Convey("Then only graded rows appear, grade descending", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 3)
				So(rows[0].SeatNo, ShouldEqual, 1001)
				So(rows[1].SeatNo, ShouldEqual, 1002)
				So(rows[2].SeatNo, ShouldEqual, 1003)
			})

			Convey("And the ungraded row is excluded", func() {
				for _, r := range rows {
					So(r.Grade, ShouldNotBeNil)
				}
			})
		})

		Convey("When grades tie", func() {
			tied := repository.NewMemoryStore(repository.WithRecords([]model.ResultRecord{
				{Name: "First Tie", SeatNo: 1, Category: model.Int64Ptr(1), Grade: model.Float64Ptr(90)},
				{Name: "Second Tie", SeatNo: 2, Category: model.Int64Ptr(1), Grade: model.Float64Ptr(90)},
			}))
			rows, err := tied.ListGradedByCategory(ctx, 1)

			Convey("Then insertion order decides among equals", func() {
				So(err, ShouldBeNil)
				So(rows[0].Name, ShouldEqual, "First Tie")
				So(rows[1].Name, ShouldEqual, "Second Tie")
			})
		})

		Convey("When the category is unknown", func() {
			rows, err := store.ListGradedByCategory(ctx, 99)

			Convey("Then the listing is empty", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldBeEmpty)
			})
		})
	})
}

func TestMemoryStore_Insert(t *testing.T) {
	Convey("Given an empty memory store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()

		Convey("When inserting rows", func() {
			So(store.Insert(ctx, memFixtures()[0]), ShouldBeNil)
			So(store.Insert(ctx, memFixtures()[1]), ShouldBeNil)

			Convey("Then Count reflects them", func() {
				So(store.Count(ctx), ShouldEqual, 2)
			})
		})
	})
}
