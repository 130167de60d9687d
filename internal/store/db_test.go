package store_test

import (
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"farmledger.dev/farmledger/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

var _ = Describe("NewDB", func() {
	It("should return error for nil config", func() {
		_, err := store.NewDB(nil)
		Expect(err).To(HaveOccurred())
	})

	It("should return error for nil logger", func() {
		_, err := store.NewDB(&store.DBConfig{Driver: store.DriverSQLite, Path: ":memory:"})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("logger"))
	})

	It("should return error for unsupported driver", func() {
		_, err := store.NewDB(&store.DBConfig{Logger: testLogger(), Driver: "mysql"})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("unsupported database driver"))
	})

	It("should return error for empty sqlite path", func() {
		_, err := store.NewDB(&store.DBConfig{Logger: testLogger(), Driver: store.DriverSQLite})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("path"))
	})

	It("should open an in-memory sqlite store and run migrations", func() {
		db, err := store.NewDB(&store.DBConfig{
			Logger: testLogger(),
			Driver: store.DriverSQLite,
			Path:   ":memory:",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db).NotTo(BeNil())

		// Migrations ran: every table is queryable.
		for _, model := range []interface{}{
			&store.User{}, &store.Farmer{}, &store.Farm{}, &store.Crop{},
			&store.CropCycle{}, &store.CropGrowthRecord{}, &store.Inventory{},
			&store.Supplier{}, &store.Equipment{}, &store.MarketPrice{},
			&store.WeatherRecord{}, &store.SoilAnalysis{}, &store.TaskSchedule{},
		} {
			var n int64
			Expect(db.Model(model).Count(&n).Error).To(Succeed())
			Expect(n).To(BeZero())
		}

		Expect(store.CloseDB(db, testLogger())).To(Succeed())
	})
})

var _ = Describe("CloseDB", func() {
	It("should tolerate a nil database", func() {
		Expect(store.CloseDB(nil, testLogger())).To(Succeed())
	})
})
