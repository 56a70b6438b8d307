package config_test

import (
	"testing"

	"github.com/natigahub/natiga/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Store, convey.ShouldEqual, config.StoreMemory)
			convey.So(cfg.PostgrestTable, convey.ShouldEqual, "results")
			convey.So(cfg.StoreRPS, convey.ShouldEqual, 20)
			convey.So(cfg.SearchTimeoutMS, convey.ShouldEqual, 5_000)
			convey.So(cfg.SeedCount, convey.ShouldEqual, 10_000)
		})
	})
}
