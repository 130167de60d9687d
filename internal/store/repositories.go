package store

import (
	"log/slog"

	"gorm.io/gorm"

	"farmledger.dev/farmledger/pkg/metrics"
)

// Repositories bundles one repository per entity kind. A single
// bundle is built at startup and shared by the server, the seeder,
// and the ingest pipeline.
type Repositories struct {
	Farmers       *Repository[Farmer, *Farmer]
	Farms         *Repository[Farm, *Farm]
	Crops         *Repository[Crop, *Crop]
	CropCycles    *Repository[CropCycle, *CropCycle]
	GrowthRecords *Repository[CropGrowthRecord, *CropGrowthRecord]
	Inventory     *Repository[Inventory, *Inventory]
	Suppliers     *Repository[Supplier, *Supplier]
	Equipment     *Repository[Equipment, *Equipment]
	MarketPrices  *Repository[MarketPrice, *MarketPrice]
	Weather       *Repository[WeatherRecord, *WeatherRecord]
	SoilAnalyses  *Repository[SoilAnalysis, *SoilAnalysis]
	Tasks         *Repository[TaskSchedule, *TaskSchedule]
}

// NewRepositories builds the repository bundle over one database.
func NewRepositories(db *gorm.DB, logger *slog.Logger) *Repositories {
	return &Repositories{
		Farmers:       NewRepository[Farmer, *Farmer](db, logger),
		Farms:         NewRepository[Farm, *Farm](db, logger),
		Crops:         NewRepository[Crop, *Crop](db, logger),
		CropCycles:    NewRepository[CropCycle, *CropCycle](db, logger),
		GrowthRecords: NewRepository[CropGrowthRecord, *CropGrowthRecord](db, logger),
		Inventory:     NewRepository[Inventory, *Inventory](db, logger),
		Suppliers:     NewRepository[Supplier, *Supplier](db, logger),
		Equipment:     NewRepository[Equipment, *Equipment](db, logger),
		MarketPrices:  NewRepository[MarketPrice, *MarketPrice](db, logger),
		Weather:       NewRepository[WeatherRecord, *WeatherRecord](db, logger),
		SoilAnalyses:  NewRepository[SoilAnalysis, *SoilAnalysis](db, logger),
		Tasks:         NewRepository[TaskSchedule, *TaskSchedule](db, logger),
	}
}

// SetMetrics sets the metrics collector on every repository.
func (r *Repositories) SetMetrics(m *metrics.StoreMetrics) {
	r.Farmers.SetMetrics(m)
	r.Farms.SetMetrics(m)
	r.Crops.SetMetrics(m)
	r.CropCycles.SetMetrics(m)
	r.GrowthRecords.SetMetrics(m)
	r.Inventory.SetMetrics(m)
	r.Suppliers.SetMetrics(m)
	r.Equipment.SetMetrics(m)
	r.MarketPrices.SetMetrics(m)
	r.Weather.SetMetrics(m)
	r.SoilAnalyses.SetMetrics(m)
	r.Tasks.SetMetrics(m)
}
