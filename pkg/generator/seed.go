package generator

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"farmledger.dev/farmledger/internal/store"
)

var (
	cropNames = [][2]string{
		{"Wheat", "Hard Red Winter"},
		{"Corn", "Dent"},
		{"Rice", "Basmati"},
		{"Soybean", "Round-Up Ready"},
		{"Tomato", "Roma"},
		{"Potato", "Russet"},
		{"Barley", "Two-Row"},
		{"Cotton", "Upland"},
	}

	soilTypes   = []string{"loamy", "clay", "sandy", "silty", "peaty"}
	sizeUnits   = []string{"acres", "hectares"}
	growthStage = []string{"germination", "seedling", "vegetative", "flowering", "ripening"}

	equipmentTypes = []string{"tractor", "harvester", "seeder", "sprayer", "plow", "irrigation pump"}

	taskNames = map[store.TaskType][]string{
		store.TaskPlanting:      {"Sow north field", "Transplant seedlings"},
		store.TaskIrrigation:    {"Run drip lines", "Flood-irrigate paddies"},
		store.TaskFertilization: {"Apply nitrogen", "Spread compost"},
		store.TaskPestControl:   {"Spray aphid treatment", "Set rodent traps"},
		store.TaskHarvest:       {"Harvest east block", "Combine wheat"},
		store.TaskMaintenance:   {"Service tractor", "Patch fence line"},
	}
)

// Seeder populates the store with realistic demo data.
type Seeder struct {
	repos  *store.Repositories
	logger *slog.Logger
}

// NewSeeder creates a seeder over the repository bundle.
func NewSeeder(repos *store.Repositories, logger *slog.Logger) *Seeder {
	return &Seeder{repos: repos, logger: logger}
}

// Seed creates demo records for every entity kind. Counts are small
// but proportioned so every referencing entity has a valid target.
func (s *Seeder) Seed(ctx context.Context) error {
	farmers, err := s.seedFarmers(ctx, 4)
	if err != nil {
		return fmt.Errorf("seeding farmers: %w", err)
	}
	farms, err := s.seedFarms(ctx, farmers)
	if err != nil {
		return fmt.Errorf("seeding farms: %w", err)
	}
	crops, err := s.seedCrops(ctx)
	if err != nil {
		return fmt.Errorf("seeding crops: %w", err)
	}
	cycles, err := s.seedCropCycles(ctx, farms, crops)
	if err != nil {
		return fmt.Errorf("seeding crop cycles: %w", err)
	}
	if err := s.seedGrowthRecords(ctx, cycles); err != nil {
		return fmt.Errorf("seeding growth records: %w", err)
	}
	if err := s.seedInventory(ctx, 10); err != nil {
		return fmt.Errorf("seeding inventory: %w", err)
	}
	if err := s.seedSuppliers(ctx, 5); err != nil {
		return fmt.Errorf("seeding suppliers: %w", err)
	}
	if err := s.seedEquipment(ctx, 6); err != nil {
		return fmt.Errorf("seeding equipment: %w", err)
	}
	if err := s.seedMarketPrices(ctx, crops); err != nil {
		return fmt.Errorf("seeding market prices: %w", err)
	}
	if err := s.seedWeather(ctx, farms); err != nil {
		return fmt.Errorf("seeding weather records: %w", err)
	}
	if err := s.seedSoilAnalyses(ctx, farms); err != nil {
		return fmt.Errorf("seeding soil analyses: %w", err)
	}
	if err := s.seedTasks(ctx, farms, cycles); err != nil {
		return fmt.Errorf("seeding tasks: %w", err)
	}

	s.logger.Info("demo data seeded",
		"farmers", len(farmers),
		"farms", len(farms),
		"crops", len(crops),
		"crop_cycles", len(cycles))
	return nil
}

func (s *Seeder) seedFarmers(ctx context.Context, n int) ([]*store.Farmer, error) {
	farmers := make([]*store.Farmer, 0, n)
	for i := 0; i < n; i++ {
		farmer := &store.Farmer{
			FirstName: gofakeit.FirstName(),
			LastName:  gofakeit.LastName(),
			Email:     gofakeit.Email(),
			Phone:     gofakeit.Phone(),
			Address:   gofakeit.Street() + ", " + gofakeit.City(),
		}
		if err := s.repos.Farmers.Create(ctx, farmer); err != nil {
			return nil, err
		}
		farmers = append(farmers, farmer)
	}
	return farmers, nil
}

func (s *Seeder) seedFarms(ctx context.Context, farmers []*store.Farmer) ([]*store.Farm, error) {
	farms := make([]*store.Farm, 0, len(farmers)+1)
	for i := 0; i < len(farmers)+1; i++ {
		owner := farmers[i%len(farmers)]
		farm := &store.Farm{
			Name:     gofakeit.LastName() + " " + gofakeit.RandomString([]string{"Farm", "Fields", "Acres", "Ranch"}),
			Location: gofakeit.City() + ", " + gofakeit.StateAbr(),
			Size:     math.Round(10+rand.Float64()*490),
			SizeUnit: gofakeit.RandomString(sizeUnits),
			FarmerID: owner.ID,
			SoilType: gofakeit.RandomString(soilTypes),
		}
		if err := s.repos.Farms.Create(ctx, farm); err != nil {
			return nil, err
		}
		farms = append(farms, farm)
	}
	return farms, nil
}

func (s *Seeder) seedCrops(ctx context.Context) ([]*store.Crop, error) {
	crops := make([]*store.Crop, 0, len(cropNames))
	for _, nv := range cropNames {
		crop := &store.Crop{
			Name:                nv[0],
			Variety:             nv[1],
			GrowthDuration:      60 + rand.Intn(120),
			IdealSoilType:       gofakeit.RandomString(soilTypes),
			IdealTemperatureMin: 8 + rand.Float64()*8,
			IdealTemperatureMax: 22 + rand.Float64()*12,
			IdealRainfallMin:    200 + rand.Float64()*200,
			IdealRainfallMax:    600 + rand.Float64()*400,
		}
		if err := s.repos.Crops.Create(ctx, crop); err != nil {
			return nil, err
		}
		crops = append(crops, crop)
	}
	return crops, nil
}

func (s *Seeder) seedCropCycles(ctx context.Context, farms []*store.Farm, crops []*store.Crop) ([]*store.CropCycle, error) {
	statuses := []store.CycleStatus{
		store.CyclePlanned, store.CycleSowing, store.CycleGrowing,
		store.CycleHarvesting, store.CycleCompleted,
	}
	cycles := make([]*store.CropCycle, 0, len(farms)*2)
	for _, farm := range farms {
		for j := 0; j < 2; j++ {
			crop := crops[rand.Intn(len(crops))]
			sowing := gofakeit.DateRange(time.Now().AddDate(0, -6, 0), time.Now())
			cycle := &store.CropCycle{
				FarmID:              farm.ID,
				CropID:              crop.ID,
				FieldArea:           fmt.Sprintf("%s block %d", gofakeit.RandomString([]string{"North", "South", "East", "West"}), j+1),
				SowingDate:          sowing,
				ExpectedHarvestDate: sowing.AddDate(0, 0, crop.GrowthDuration),
				Status:              statuses[rand.Intn(len(statuses))],
			}
			if cycle.Status == store.CycleCompleted {
				harvest := cycle.ExpectedHarvestDate
				amount := math.Round(rand.Float64() * 5000)
				cycle.ActualHarvestDate = &harvest
				cycle.YieldAmount = &amount
				cycle.YieldUnit = "kg"
			}
			if err := s.repos.CropCycles.Create(ctx, cycle); err != nil {
				return nil, err
			}
			cycles = append(cycles, cycle)
		}
	}
	return cycles, nil
}

func (s *Seeder) seedGrowthRecords(ctx context.Context, cycles []*store.CropCycle) error {
	healths := []store.HealthStatus{
		store.HealthExcellent, store.HealthGood, store.HealthFair, store.HealthPoor,
	}
	for _, cycle := range cycles {
		if cycle.Status == store.CyclePlanned {
			continue
		}
		for j := 0; j < 2; j++ {
			height := math.Round(rand.Float64()*120*100) / 100
			record := &store.CropGrowthRecord{
				CropCycleID:  cycle.ID,
				RecordDate:   cycle.SowingDate.AddDate(0, 0, 14*(j+1)),
				GrowthStage:  growthStage[rand.Intn(len(growthStage))],
				Height:       &height,
				HealthStatus: healths[rand.Intn(len(healths))],
			}
			if rand.Float64() < 0.2 {
				record.PestIssues = "aphids spotted on lower leaves"
			}
			if err := s.repos.GrowthRecords.Create(ctx, record); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) seedInventory(ctx context.Context, n int) error {
	items := map[store.ItemCategory][]string{
		store.CategorySeed:       {"Wheat seed bag", "Corn seed bag", "Tomato seed packet"},
		store.CategoryFertilizer: {"Urea 46-0-0", "NPK 10-10-10", "Compost"},
		store.CategoryPesticide:  {"Neem oil", "Copper fungicide"},
		store.CategoryEquipment:  {"Drip line roll", "Spare tines"},
	}
	categories := []store.ItemCategory{
		store.CategorySeed, store.CategoryFertilizer,
		store.CategoryPesticide, store.CategoryEquipment,
	}
	for i := 0; i < n; i++ {
		category := categories[i%len(categories)]
		names := items[category]
		purchase := gofakeit.DateRange(time.Now().AddDate(-1, 0, 0), time.Now())
		item := &store.Inventory{
			Category:     category,
			Name:         names[rand.Intn(len(names))],
			Brand:        gofakeit.Company(),
			Quantity:     math.Round(rand.Float64() * 200),
			Unit:         gofakeit.RandomString([]string{"kg", "bags", "liters", "units"}),
			UnitPrice:    math.Round(rand.Float64()*8000) / 100,
			PurchaseDate: &purchase,
		}
		if err := s.repos.Inventory.Create(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedSuppliers(ctx context.Context, n int) error {
	categories := []store.ItemCategory{
		store.CategorySeed, store.CategoryFertilizer, store.CategoryPesticide,
		store.CategoryEquipment, store.CategoryMultiple,
	}
	for i := 0; i < n; i++ {
		supplier := &store.Supplier{
			Name:          gofakeit.Company(),
			ContactPerson: gofakeit.Name(),
			Email:         gofakeit.Email(),
			Phone:         gofakeit.Phone(),
			Address:       gofakeit.Street() + ", " + gofakeit.City(),
			Category:      categories[i%len(categories)],
		}
		if err := s.repos.Suppliers.Create(ctx, supplier); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedEquipment(ctx context.Context, n int) error {
	conditions := []store.EquipmentCondition{
		store.ConditionNew, store.ConditionExcellent, store.ConditionGood,
		store.ConditionFair, store.ConditionMaintenance,
	}
	for i := 0; i < n; i++ {
		purchase := gofakeit.DateRange(time.Now().AddDate(-8, 0, 0), time.Now())
		price := math.Round(rand.Float64()*90000) + 1500
		equipment := &store.Equipment{
			Name:          gofakeit.Company() + " " + equipmentTypes[i%len(equipmentTypes)],
			Type:          equipmentTypes[i%len(equipmentTypes)],
			Model:         fmt.Sprintf("%s-%d", gofakeit.LetterN(2), 100+rand.Intn(900)),
			PurchaseDate:  &purchase,
			PurchasePrice: &price,
			Condition:     conditions[rand.Intn(len(conditions))],
		}
		if err := s.repos.Equipment.Create(ctx, equipment); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedMarketPrices(ctx context.Context, crops []*store.Crop) error {
	for _, crop := range crops {
		for j := 0; j < 2; j++ {
			price := &store.MarketPrice{
				CropID:         crop.ID,
				MarketLocation: gofakeit.City() + " wholesale market",
				PriceDate:      time.Now().AddDate(0, 0, -7*j),
				PriceValue:     math.Round(rand.Float64()*40000)/100 + 1,
				PriceUnit:      "USD/ton",
			}
			if err := s.repos.MarketPrices.Create(ctx, price); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) seedWeather(ctx context.Context, farms []*store.Farm) error {
	for _, farm := range farms {
		gen := NewWeatherGenerator(NewStation(farm.ID))
		for j := 0; j < 7; j++ {
			t := time.Now().AddDate(0, 0, -j)
			reading := gen.Reading(t)
			wind := reading.WindSpeed
			record := &store.WeatherRecord{
				FarmID:      farm.ID,
				RecordDate:  t,
				Temperature: reading.Temperature,
				Humidity:    reading.Humidity,
				Rainfall:    reading.Rainfall,
				WindSpeed:   &wind,
			}
			if err := s.repos.Weather.Create(ctx, record); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) seedSoilAnalyses(ctx context.Context, farms []*store.Farm) error {
	for _, farm := range farms {
		nitrogen := math.Round(rand.Float64()*8000) / 100
		phosphorus := math.Round(rand.Float64()*5000) / 100
		potassium := math.Round(rand.Float64()*30000) / 100
		organic := math.Round(rand.Float64()*800) / 100
		analysis := &store.SoilAnalysis{
			FarmID:          farm.ID,
			FieldArea:       gofakeit.RandomString([]string{"North block", "South block", "East block", "West block"}),
			TestDate:        gofakeit.DateRange(time.Now().AddDate(0, -3, 0), time.Now()),
			PH:              math.Round((5.5+rand.Float64()*2.5)*10) / 10,
			NitrogenLevel:   &nitrogen,
			PhosphorusLevel: &phosphorus,
			PotassiumLevel:  &potassium,
			OrganicMatter:   &organic,
			Recommendations: "apply lime if pH drops below 6.0",
		}
		if err := s.repos.SoilAnalyses.Create(ctx, analysis); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedTasks(ctx context.Context, farms []*store.Farm, cycles []*store.CropCycle) error {
	types := []store.TaskType{
		store.TaskPlanting, store.TaskIrrigation, store.TaskFertilization,
		store.TaskPestControl, store.TaskHarvest, store.TaskMaintenance,
	}
	statuses := []store.TaskStatus{
		store.TaskPending, store.TaskInProgress, store.TaskCompleted,
	}
	for i, farm := range farms {
		for j := 0; j < 3; j++ {
			taskType := types[(i+j)%len(types)]
			names := taskNames[taskType]
			task := &store.TaskSchedule{
				FarmID:        farm.ID,
				TaskName:      names[rand.Intn(len(names))],
				TaskType:      taskType,
				ScheduledDate: time.Now().AddDate(0, 0, rand.Intn(14)-3),
				Status:        statuses[rand.Intn(len(statuses))],
				Assignee:      gofakeit.Name(),
			}
			if len(cycles) > 0 && rand.Float64() < 0.5 {
				task.CropCycleID = cycles[rand.Intn(len(cycles))].ID
			}
			if task.Status == store.TaskCompleted {
				done := task.ScheduledDate
				task.CompletionDate = &done
			}
			if err := s.repos.Tasks.Create(ctx, task); err != nil {
				return err
			}
		}
	}
	return nil
}
