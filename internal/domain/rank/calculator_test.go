package rank_test

import (
	"context"
	"fmt"
	"testing"

	repository "github.com/natigahub/natiga/internal/adapters/repository"
	"github.com/natigahub/natiga/internal/domain/model"
	"github.com/natigahub/natiga/internal/domain/rank"
	"github.com/natigahub/natiga/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

// gradedStore serves a fixed grade-descending listing per category.
type gradedStore struct {
	listings map[int64][]model.ResultRecord
	calls    int
	failWith error
}

func (s *gradedStore) FindByNamePattern(context.Context, string, int) ([]model.ResultRecord, error) {
	return nil, nil
}

func (s *gradedStore) ListGradedByCategory(_ context.Context, category int64) ([]model.ResultRecord, error) {
	s.calls++
	if s.failWith != nil {
		return nil, s.failWith
	}
	return s.listings[category], nil
}

func (s *gradedStore) Count(context.Context) int { return 0 }

func graded(name string, grade float64) model.ResultRecord {
	return model.ResultRecord{Name: name, Category: model.Int64Ptr(5), Grade: model.Float64Ptr(grade)}
}

func TestCalculator_Compute(t *testing.T) {
	Convey("Given a calculator over a graded category listing", t, func() {
		ctx := context.Background()
		// Distinct grades pin the expected positions exactly.
		store := &gradedStore{listings: map[int64][]model.ResultRecord{
			5: {
				graded("Top Student", 95),
				graded("Middle Student", 90),
				graded("Lower Student", 80),
			},
		}}
		calc := rank.New(store)

		Convey("When the record sits in the middle of its category", func() {
			got := calc.Compute(ctx, graded("Middle Student", 90))

			Convey("Then its 1-based position is returned", func() {
				So(got, ShouldNotBeNil)
				So(*got, ShouldEqual, 2)
			})
		})

		Convey("When the record tops its category", func() {
			got := calc.Compute(ctx, graded("Top Student", 95))
			So(got, ShouldNotBeNil)
			So(*got, ShouldEqual, 1)
		})

		Convey("When computing twice with unchanged store contents", func() {
			first := calc.Compute(ctx, graded("Lower Student", 80))
			second := calc.Compute(ctx, graded("Lower Student", 80))

			Convey("Then the rank is idempotent", func() {
				So(*first, ShouldEqual, 3)
				So(*second, ShouldEqual, 3)
			})
		})

		Convey("When duplicate names appear in the listing", func() {
			store.listings[5] = []model.ResultRecord{
				graded("Twin Name", 95),
				graded("Twin Name", 90),
			}

			got := calc.Compute(ctx, graded("Twin Name", 90))

			Convey("Then the first equal name wins regardless of grade", func() {
				So(got, ShouldNotBeNil)
				So(*got, ShouldEqual, 1)
			})
		})

		Convey("When the record has no category", func() {
			rec := model.ResultRecord{Name: "Uncategorized", Grade: model.Float64Ptr(70)}
			got := calc.Compute(ctx, rec)

			Convey("Then rank is absent without touching the store", func() {
				So(got, ShouldBeNil)
				So(store.calls, ShouldEqual, 0)
			})
		})

		Convey("When the record has no grade", func() {
			rec := model.ResultRecord{Name: "Ungraded", Category: model.Int64Ptr(5)}
			got := calc.Compute(ctx, rec)

			So(got, ShouldBeNil)
			So(store.calls, ShouldEqual, 0)
		})

		Convey("When the name is missing from the listing", func() {
			got := calc.Compute(ctx, graded("Vanished Student", 85))

			Convey("Then rank is absent, not an error", func() {
				So(got, ShouldBeNil)
			})
		})

		Convey("When the store faults", func() {
			store.failWith = fmt.Errorf("%w: timeout", repository.ErrStore)
			got := calc.Compute(ctx, graded("Middle Student", 90))

			Convey("Then the fault is absorbed and rank degrades to absent", func() {
				So(got, ShouldBeNil)
			})
		})
	})
}
