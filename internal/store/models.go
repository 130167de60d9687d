// Package store provides the persistence layer: GORM models for every
// record kind, a database constructor, and a generic repository that
// implements the shared list/create/update/delete contract.
package store

import (
	"time"
)

// Meta is the common envelope embedded in every record: a UUID primary
// key assigned at create, and the two timestamps maintained by GORM.
// The id is immutable after creation; updated_at is refreshed on every
// mutation.
type Meta struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// GetID returns the record identifier.
func (m *Meta) GetID() string { return m.ID }

// SetID sets the record identifier.
func (m *Meta) SetID(id string) { m.ID = id }

// RecordMeta returns the common envelope of the record.
func (m *Meta) RecordMeta() *Meta { return m }

// User is a registered account of the application. It backs the
// authentication provider; it is not a list-view entity.
type User struct {
	Meta
	Email        string `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	PasswordHash string `gorm:"not null" json:"-"`
}

// TableName specifies the table name for the User model.
func (User) TableName() string { return "users" }

// Farmer is a registered farmer and their contact details.
type Farmer struct {
	Meta
	FirstName string `gorm:"not null" json:"first_name" validate:"required"`
	LastName  string `gorm:"not null" json:"last_name" validate:"required"`
	Email     string `gorm:"not null" json:"email" validate:"required,email"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}

func (Farmer) TableName() string  { return "farmers" }
func (Farmer) EntityKind() string { return "farmers" }

// SearchText returns the values the free-text filter matches against.
func (f *Farmer) SearchText() []string {
	return []string{f.FirstName + " " + f.LastName, f.Email}
}

// Farm is a plot of land worked by a farmer.
type Farm struct {
	Meta
	Name     string  `gorm:"not null" json:"name" validate:"required"`
	Location string  `gorm:"not null" json:"location" validate:"required"`
	Size     float64 `gorm:"not null" json:"size" validate:"required,gt=0"`
	SizeUnit string  `gorm:"not null" json:"size_unit" validate:"required"`
	FarmerID string  `gorm:"index;not null" json:"farmer_id" validate:"required"`
	SoilType string  `json:"soil_type,omitempty"`
}

func (Farm) TableName() string  { return "farms" }
func (Farm) EntityKind() string { return "farms" }

func (f *Farm) SearchText() []string {
	return []string{f.Name, f.Location}
}

// Crop is a cultivable crop and its ideal growing conditions.
type Crop struct {
	Meta
	Name                string  `gorm:"not null" json:"name" validate:"required"`
	Variety             string  `gorm:"not null" json:"variety" validate:"required"`
	GrowthDuration      int     `gorm:"not null" json:"growth_duration" validate:"required,gt=0"`
	IdealSoilType       string  `json:"ideal_soil_type,omitempty"`
	IdealTemperatureMin float64 `json:"ideal_temperature_min"`
	IdealTemperatureMax float64 `json:"ideal_temperature_max"`
	IdealRainfallMin    float64 `json:"ideal_rainfall_min"`
	IdealRainfallMax    float64 `json:"ideal_rainfall_max"`
}

func (Crop) TableName() string  { return "crops" }
func (Crop) EntityKind() string { return "crops" }

func (c *Crop) SearchText() []string {
	return []string{c.Name, c.Variety}
}

// CropCycle is one sowing-to-harvest run of a crop on a farm.
type CropCycle struct {
	Meta
	FarmID              string      `gorm:"index;not null" json:"farm_id" validate:"required"`
	CropID              string      `gorm:"index;not null" json:"crop_id" validate:"required"`
	FieldArea           string      `gorm:"not null" json:"field_area" validate:"required"`
	SowingDate          time.Time   `gorm:"not null" json:"sowing_date" validate:"required"`
	ExpectedHarvestDate time.Time   `gorm:"not null" json:"expected_harvest_date" validate:"required"`
	ActualHarvestDate   *time.Time  `json:"actual_harvest_date,omitempty"`
	YieldAmount         *float64    `json:"yield_amount,omitempty"`
	YieldUnit           string      `json:"yield_unit,omitempty"`
	Status              CycleStatus `gorm:"not null" json:"status" validate:"required,oneof=planned sowing growing harvesting completed failed"`
	Notes               string      `json:"notes,omitempty"`
}

func (CropCycle) TableName() string  { return "crop_cycles" }
func (CropCycle) EntityKind() string { return "crop-cycles" }

func (c *CropCycle) SearchText() []string {
	return []string{c.FieldArea, string(c.Status)}
}

// CropGrowthRecord is a dated observation of a crop cycle's progress.
type CropGrowthRecord struct {
	Meta
	CropCycleID   string       `gorm:"index;not null" json:"crop_cycle_id" validate:"required"`
	RecordDate    time.Time    `gorm:"not null" json:"record_date" validate:"required"`
	GrowthStage   string       `gorm:"not null" json:"growth_stage" validate:"required"`
	Height        *float64     `json:"height,omitempty"`
	HealthStatus  HealthStatus `gorm:"not null" json:"health_status" validate:"required,oneof=excellent good fair poor critical"`
	PestIssues    string       `json:"pest_issues,omitempty"`
	DiseaseIssues string       `json:"disease_issues,omitempty"`
	Notes         string       `json:"notes,omitempty"`
}

func (CropGrowthRecord) TableName() string  { return "crop_growth_records" }
func (CropGrowthRecord) EntityKind() string { return "growth-records" }

func (r *CropGrowthRecord) SearchText() []string {
	return []string{r.GrowthStage, string(r.HealthStatus)}
}

// Inventory is a stocked supply item.
type Inventory struct {
	Meta
	Category     ItemCategory `gorm:"not null" json:"category" validate:"required,oneof=seed fertilizer pesticide equipment other"`
	Name         string       `gorm:"not null" json:"name" validate:"required"`
	Brand        string       `json:"brand,omitempty"`
	Quantity     float64      `gorm:"not null" json:"quantity" validate:"gte=0"`
	Unit         string       `gorm:"not null" json:"unit" validate:"required"`
	UnitPrice    float64      `json:"unit_price" validate:"gte=0"`
	PurchaseDate *time.Time   `json:"purchase_date,omitempty"`
	ExpiryDate   *time.Time   `json:"expiry_date,omitempty"`
	Notes        string       `json:"notes,omitempty"`
}

func (Inventory) TableName() string  { return "inventory_items" }
func (Inventory) EntityKind() string { return "inventory" }

func (i *Inventory) SearchText() []string {
	return []string{i.Name, i.Brand, string(i.Category)}
}

// Supplier is a vendor of seeds, fertilizer, or equipment.
type Supplier struct {
	Meta
	Name          string       `gorm:"not null" json:"name" validate:"required"`
	ContactPerson string       `json:"contact_person,omitempty"`
	Email         string       `json:"email,omitempty" validate:"omitempty,email"`
	Phone         string       `json:"phone,omitempty"`
	Address       string       `json:"address,omitempty"`
	Category      ItemCategory `gorm:"not null" json:"category" validate:"required,oneof=seed fertilizer pesticide equipment other multiple"`
	Notes         string       `json:"notes,omitempty"`
}

func (Supplier) TableName() string  { return "suppliers" }
func (Supplier) EntityKind() string { return "suppliers" }

func (s *Supplier) SearchText() []string {
	return []string{s.Name, s.ContactPerson}
}

// Equipment is a machine or tool owned by the operation.
type Equipment struct {
	Meta
	Name          string             `gorm:"not null" json:"name" validate:"required"`
	Type          string             `gorm:"not null" json:"type" validate:"required"`
	Model         string             `json:"model,omitempty"`
	PurchaseDate  *time.Time         `json:"purchase_date,omitempty"`
	PurchasePrice *float64           `json:"purchase_price,omitempty"`
	Condition     EquipmentCondition `gorm:"not null" json:"condition" validate:"required,oneof=new excellent good fair poor maintenance retired"`
	Notes         string             `json:"notes,omitempty"`
}

func (Equipment) TableName() string  { return "equipment" }
func (Equipment) EntityKind() string { return "equipment" }

func (e *Equipment) SearchText() []string {
	return []string{e.Name, e.Type}
}

// MarketPrice is an observed price for a crop at a market on a date.
type MarketPrice struct {
	Meta
	CropID         string    `gorm:"index;not null" json:"crop_id" validate:"required"`
	MarketLocation string    `gorm:"not null" json:"market_location" validate:"required"`
	PriceDate      time.Time `gorm:"not null" json:"price_date" validate:"required"`
	PriceValue     float64   `gorm:"not null" json:"price_value" validate:"required,gt=0"`
	PriceUnit      string    `gorm:"not null" json:"price_unit" validate:"required"`
}

func (MarketPrice) TableName() string  { return "market_prices" }
func (MarketPrice) EntityKind() string { return "market-prices" }

func (m *MarketPrice) SearchText() []string {
	return []string{m.MarketLocation}
}

// WeatherRecord is a dated weather observation for a farm. Rows are
// entered by hand or ingested from the weather-station queue.
type WeatherRecord struct {
	Meta
	FarmID      string    `gorm:"index;not null" json:"farm_id" validate:"required"`
	RecordDate  time.Time `gorm:"not null" json:"record_date" validate:"required"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity" validate:"gte=0,lte=100"`
	Rainfall    float64   `json:"rainfall" validate:"gte=0"`
	WindSpeed   *float64  `json:"wind_speed,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

func (WeatherRecord) TableName() string  { return "weather_records" }
func (WeatherRecord) EntityKind() string { return "weather" }

func (w *WeatherRecord) SearchText() []string {
	return []string{w.FarmID, w.Notes}
}

// SoilAnalysis is a lab result for a field area of a farm.
type SoilAnalysis struct {
	Meta
	FarmID          string    `gorm:"index;not null" json:"farm_id" validate:"required"`
	FieldArea       string    `gorm:"not null" json:"field_area" validate:"required"`
	TestDate        time.Time `gorm:"not null" json:"test_date" validate:"required"`
	PH              float64   `gorm:"column:ph;not null" json:"ph" validate:"required,gt=0,lte=14"`
	NitrogenLevel   *float64  `json:"nitrogen_level,omitempty"`
	PhosphorusLevel *float64  `json:"phosphorus_level,omitempty"`
	PotassiumLevel  *float64  `json:"potassium_level,omitempty"`
	OrganicMatter   *float64  `json:"organic_matter,omitempty"`
	SoilMoisture    *float64  `json:"soil_moisture,omitempty"`
	Recommendations string    `json:"recommendations,omitempty"`
	Notes           string    `json:"notes,omitempty"`
}

func (SoilAnalysis) TableName() string  { return "soil_analyses" }
func (SoilAnalysis) EntityKind() string { return "soil-analysis" }

func (s *SoilAnalysis) SearchText() []string {
	return []string{s.FieldArea, s.Recommendations}
}

// TaskSchedule is a planned piece of work on a farm, optionally tied
// to a crop cycle.
type TaskSchedule struct {
	Meta
	FarmID         string     `gorm:"index;not null" json:"farm_id" validate:"required"`
	CropCycleID    string     `gorm:"index" json:"crop_cycle_id,omitempty"`
	TaskName       string     `gorm:"not null" json:"task_name" validate:"required"`
	TaskType       TaskType   `gorm:"not null" json:"task_type" validate:"required,oneof=planting irrigation fertilization pest_control harvest maintenance other"`
	ScheduledDate  time.Time  `gorm:"not null" json:"scheduled_date" validate:"required"`
	CompletionDate *time.Time `json:"completion_date,omitempty"`
	Status         TaskStatus `gorm:"not null" json:"status" validate:"required,oneof=pending in-progress completed overdue cancelled"`
	Assignee       string     `json:"assignee,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

func (TaskSchedule) TableName() string  { return "task_schedules" }
func (TaskSchedule) EntityKind() string { return "tasks" }

func (t *TaskSchedule) SearchText() []string {
	return []string{t.TaskName, t.Assignee}
}
