// Package views holds the declarative per-entity view descriptors and
// the free-text list filter. The sidebar, the entity pages, and the
// API router are all driven by the registry here; nothing in the
// application branches on a display title.
package views

// Column describes one table column of an entity list view. Key is
// the record's JSON field name.
type Column struct {
	Key   string
	Label string
}

// Field describes one input of the add/edit form. Input is "text",
// "number", "date", or "select"; Options holds the variant set for
// selects.
type Field struct {
	Key      string
	Label    string
	Input    string
	Options  []string
	Required bool
}

// Descriptor declares how one entity kind is presented: its route,
// its labels, its icon, its table columns, and its form fields.
// Searchable fields are declared on the models themselves
// (SearchText); the descriptor only names them for the UI hint.
type Descriptor struct {
	Kind        string
	Title       string
	Description string
	Icon        string
	Path        string
	SearchHint  string
	Columns     []Column
	Fields      []Field
}

var registry = []Descriptor{
	{
		Kind:        "farmers",
		Title:       "Farmers",
		Description: "Manage your registered farmers and their details.",
		Icon:        "user",
		Path:        "/farmers",
		SearchHint:  "Search by name or email",
		Columns: []Column{
			{Key: "first_name", Label: "First Name"},
			{Key: "last_name", Label: "Last Name"},
			{Key: "email", Label: "Email"},
			{Key: "phone", Label: "Phone"},
			{Key: "address", Label: "Address"},
		},
		Fields: []Field{
			{Key: "first_name", Label: "First Name", Input: "text", Required: true},
			{Key: "last_name", Label: "Last Name", Input: "text", Required: true},
			{Key: "email", Label: "Email", Input: "text", Required: true},
			{Key: "phone", Label: "Phone", Input: "text"},
			{Key: "address", Label: "Address", Input: "text"},
		},
	},
	{
		Kind:        "farms",
		Title:       "Farms",
		Description: "Manage farms, their size and soil.",
		Icon:        "map",
		Path:        "/farms",
		SearchHint:  "Search by name or location",
		Columns: []Column{
			{Key: "name", Label: "Name"},
			{Key: "location", Label: "Location"},
			{Key: "size", Label: "Size"},
			{Key: "size_unit", Label: "Unit"},
			{Key: "soil_type", Label: "Soil Type"},
		},
		Fields: []Field{
			{Key: "name", Label: "Name", Input: "text", Required: true},
			{Key: "location", Label: "Location", Input: "text", Required: true},
			{Key: "size", Label: "Size", Input: "number", Required: true},
			{Key: "size_unit", Label: "Size Unit", Input: "text", Required: true},
			{Key: "farmer_id", Label: "Farmer ID", Input: "text", Required: true},
			{Key: "soil_type", Label: "Soil Type", Input: "text"},
		},
	},
	{
		Kind:        "crops",
		Title:       "Crops",
		Description: "Manage crop varieties and their growing conditions.",
		Icon:        "sprout",
		Path:        "/crops",
		SearchHint:  "Search by name or variety",
		Columns: []Column{
			{Key: "name", Label: "Name"},
			{Key: "variety", Label: "Variety"},
			{Key: "growth_duration", Label: "Growth (days)"},
			{Key: "ideal_soil_type", Label: "Ideal Soil"},
		},
		Fields: []Field{
			{Key: "name", Label: "Name", Input: "text", Required: true},
			{Key: "variety", Label: "Variety", Input: "text", Required: true},
			{Key: "growth_duration", Label: "Growth Duration (days)", Input: "number", Required: true},
			{Key: "ideal_soil_type", Label: "Ideal Soil Type", Input: "text"},
			{Key: "ideal_temperature_min", Label: "Ideal Temp Min (°C)", Input: "number"},
			{Key: "ideal_temperature_max", Label: "Ideal Temp Max (°C)", Input: "number"},
			{Key: "ideal_rainfall_min", Label: "Ideal Rainfall Min (mm)", Input: "number"},
			{Key: "ideal_rainfall_max", Label: "Ideal Rainfall Max (mm)", Input: "number"},
		},
	},
	{
		Kind:        "crop-cycles",
		Title:       "Crop Cycles",
		Description: "Track sowing-to-harvest runs per farm and crop.",
		Icon:        "refresh",
		Path:        "/crop-cycles",
		SearchHint:  "Search by field area or status",
		Columns: []Column{
			{Key: "field_area", Label: "Field Area"},
			{Key: "sowing_date", Label: "Sowing Date"},
			{Key: "expected_harvest_date", Label: "Expected Harvest"},
			{Key: "status", Label: "Status"},
		},
		Fields: []Field{
			{Key: "farm_id", Label: "Farm ID", Input: "text", Required: true},
			{Key: "crop_id", Label: "Crop ID", Input: "text", Required: true},
			{Key: "field_area", Label: "Field Area", Input: "text", Required: true},
			{Key: "sowing_date", Label: "Sowing Date", Input: "date", Required: true},
			{Key: "expected_harvest_date", Label: "Expected Harvest", Input: "date", Required: true},
			{Key: "actual_harvest_date", Label: "Actual Harvest", Input: "date"},
			{Key: "yield_amount", Label: "Yield Amount", Input: "number"},
			{Key: "yield_unit", Label: "Yield Unit", Input: "text"},
			{Key: "status", Label: "Status", Input: "select", Required: true, Options: []string{"planned", "sowing", "growing", "harvesting", "completed", "failed"}},
			{Key: "notes", Label: "Notes", Input: "text"},
		},
	},
	{
		Kind:        "growth-records",
		Title:       "Growth Records",
		Description: "Dated growth and health observations per crop cycle.",
		Icon:        "line-chart",
		Path:        "/growth-records",
		SearchHint:  "Search by growth stage or health",
		Columns: []Column{
			{Key: "record_date", Label: "Date"},
			{Key: "growth_stage", Label: "Stage"},
			{Key: "health_status", Label: "Health"},
			{Key: "pest_issues", Label: "Pests"},
		},
		Fields: []Field{
			{Key: "crop_cycle_id", Label: "Crop Cycle ID", Input: "text", Required: true},
			{Key: "record_date", Label: "Record Date", Input: "date", Required: true},
			{Key: "growth_stage", Label: "Growth Stage", Input: "text", Required: true},
			{Key: "height", Label: "Height (cm)", Input: "number"},
			{Key: "health_status", Label: "Health Status", Input: "select", Required: true, Options: []string{"excellent", "good", "fair", "poor", "critical"}},
			{Key: "pest_issues", Label: "Pest Issues", Input: "text"},
			{Key: "disease_issues", Label: "Disease Issues", Input: "text"},
			{Key: "notes", Label: "Notes", Input: "text"},
		},
	},
	{
		Kind:        "inventory",
		Title:       "Inventory",
		Description: "Track seeds, fertilizer, pesticides and supplies.",
		Icon:        "package",
		Path:        "/inventory",
		SearchHint:  "Search by name, brand or category",
		Columns: []Column{
			{Key: "name", Label: "Name"},
			{Key: "category", Label: "Category"},
			{Key: "quantity", Label: "Quantity"},
			{Key: "unit", Label: "Unit"},
			{Key: "unit_price", Label: "Unit Price"},
		},
		Fields: []Field{
			{Key: "category", Label: "Category", Input: "select", Required: true, Options: []string{"seed", "fertilizer", "pesticide", "equipment", "other"}},
			{Key: "name", Label: "Name", Input: "text", Required: true},
			{Key: "brand", Label: "Brand", Input: "text"},
			{Key: "quantity", Label: "Quantity", Input: "number", Required: true},
			{Key: "unit", Label: "Unit", Input: "text", Required: true},
			{Key: "unit_price", Label: "Unit Price (₹)", Input: "number"},
			{Key: "purchase_date", Label: "Purchase Date", Input: "date"},
			{Key: "expiry_date", Label: "Expiry Date", Input: "date"},
			{Key: "notes", Label: "Notes", Input: "text"},
		},
	},
	{
		Kind:        "suppliers",
		Title:       "Suppliers",
		Description: "Manage suppliers and their contact details.",
		Icon:        "truck",
		Path:        "/suppliers",
		SearchHint:  "Search by name or contact person",
		Columns: []Column{
			{Key: "name", Label: "Name"},
			{Key: "contact_person", Label: "Contact"},
			{Key: "email", Label: "Email"},
			{Key: "category", Label: "Category"},
		},
		Fields: []Field{
			{Key: "name", Label: "Name", Input: "text", Required: true},
			{Key: "contact_person", Label: "Contact Person", Input: "text"},
			{Key: "email", Label: "Email", Input: "text"},
			{Key: "phone", Label: "Phone", Input: "text"},
			{Key: "address", Label: "Address", Input: "text"},
			{Key: "category", Label: "Category", Input: "select", Required: true, Options: []string{"seed", "fertilizer", "pesticide", "equipment", "other", "multiple"}},
			{Key: "notes", Label: "Notes", Input: "text"},
		},
	},
	{
		Kind:        "equipment",
		Title:       "Equipment",
		Description: "Track machinery, tools and their condition.",
		Icon:        "wrench",
		Path:        "/equipment",
		SearchHint:  "Search by name or type",
		Columns: []Column{
			{Key: "name", Label: "Name"},
			{Key: "type", Label: "Type"},
			{Key: "model", Label: "Model"},
			{Key: "condition", Label: "Condition"},
		},
		Fields: []Field{
			{Key: "name", Label: "Name", Input: "text", Required: true},
			{Key: "type", Label: "Type", Input: "text", Required: true},
			{Key: "model", Label: "Model", Input: "text"},
			{Key: "purchase_date", Label: "Purchase Date", Input: "date"},
			{Key: "purchase_price", Label: "Purchase Price (₹)", Input: "number"},
			{Key: "condition", Label: "Condition", Input: "select", Required: true, Options: []string{"new", "excellent", "good", "fair", "poor", "maintenance", "retired"}},
			{Key: "notes", Label: "Notes", Input: "text"},
		},
	},
	{
		Kind:        "market-prices",
		Title:       "Market Prices",
		Description: "Observed crop prices per market and date.",
		Icon:        "indian-rupee",
		Path:        "/market-prices",
		SearchHint:  "Search by market location",
		Columns: []Column{
			{Key: "market_location", Label: "Market"},
			{Key: "price_date", Label: "Date"},
			{Key: "price_value", Label: "Price"},
			{Key: "price_unit", Label: "Unit"},
		},
		Fields: []Field{
			{Key: "crop_id", Label: "Crop ID", Input: "text", Required: true},
			{Key: "market_location", Label: "Market Location", Input: "text", Required: true},
			{Key: "price_date", Label: "Price Date", Input: "date", Required: true},
			{Key: "price_value", Label: "Price (₹)", Input: "number", Required: true},
			{Key: "price_unit", Label: "Price Unit", Input: "text", Required: true},
		},
	},
	{
		Kind:        "weather",
		Title:       "Weather Records",
		Description: "Weather observations per farm, entered or ingested.",
		Icon:        "cloud-sun",
		Path:        "/weather",
		SearchHint:  "Search by farm",
		Columns: []Column{
			{Key: "record_date", Label: "Date"},
			{Key: "temperature", Label: "Temp (°C)"},
			{Key: "humidity", Label: "Humidity (%)"},
			{Key: "rainfall", Label: "Rainfall (mm)"},
			{Key: "wind_speed", Label: "Wind (km/h)"},
		},
		Fields: []Field{
			{Key: "farm_id", Label: "Farm ID", Input: "text", Required: true},
			{Key: "record_date", Label: "Record Date", Input: "date", Required: true},
			{Key: "temperature", Label: "Temperature (°C)", Input: "number"},
			{Key: "humidity", Label: "Humidity (%)", Input: "number"},
			{Key: "rainfall", Label: "Rainfall (mm)", Input: "number"},
			{Key: "wind_speed", Label: "Wind Speed (km/h)", Input: "number"},
			{Key: "notes", Label: "Notes", Input: "text"},
		},
	},
	{
		Kind:        "soil-analysis",
		Title:       "Soil Analysis",
		Description: "Lab results and recommendations per field area.",
		Icon:        "flask",
		Path:        "/soil-analysis",
		SearchHint:  "Search by field area",
		Columns: []Column{
			{Key: "field_area", Label: "Field Area"},
			{Key: "test_date", Label: "Test Date"},
			{Key: "ph", Label: "pH"},
			{Key: "recommendations", Label: "Recommendations"},
		},
		Fields: []Field{
			{Key: "farm_id", Label: "Farm ID", Input: "text", Required: true},
			{Key: "field_area", Label: "Field Area", Input: "text", Required: true},
			{Key: "test_date", Label: "Test Date", Input: "date", Required: true},
			{Key: "ph", Label: "pH", Input: "number", Required: true},
			{Key: "nitrogen_level", Label: "Nitrogen Level", Input: "number"},
			{Key: "phosphorus_level", Label: "Phosphorus Level", Input: "number"},
			{Key: "potassium_level", Label: "Potassium Level", Input: "number"},
			{Key: "organic_matter", Label: "Organic Matter (%)", Input: "number"},
			{Key: "soil_moisture", Label: "Soil Moisture (%)", Input: "number"},
			{Key: "recommendations", Label: "Recommendations", Input: "text"},
			{Key: "notes", Label: "Notes", Input: "text"},
		},
	},
	{
		Kind:        "tasks",
		Title:       "Task Schedules",
		Description: "Plan and track farm work.",
		Icon:        "calendar-check",
		Path:        "/tasks",
		SearchHint:  "Search by task name or assignee",
		Columns: []Column{
			{Key: "task_name", Label: "Task"},
			{Key: "task_type", Label: "Type"},
			{Key: "scheduled_date", Label: "Scheduled"},
			{Key: "status", Label: "Status"},
			{Key: "assignee", Label: "Assignee"},
		},
		Fields: []Field{
			{Key: "farm_id", Label: "Farm ID", Input: "text", Required: true},
			{Key: "crop_cycle_id", Label: "Crop Cycle ID", Input: "text"},
			{Key: "task_name", Label: "Task Name", Input: "text", Required: true},
			{Key: "task_type", Label: "Task Type", Input: "select", Required: true, Options: []string{"planting", "irrigation", "fertilization", "pest_control", "harvest", "maintenance", "other"}},
			{Key: "scheduled_date", Label: "Scheduled Date", Input: "date", Required: true},
			{Key: "completion_date", Label: "Completion Date", Input: "date"},
			{Key: "status", Label: "Status", Input: "select", Required: true, Options: []string{"pending", "in-progress", "completed", "overdue", "cancelled"}},
			{Key: "assignee", Label: "Assignee", Input: "text"},
			{Key: "notes", Label: "Notes", Input: "text"},
		},
	},
}

// All returns every registered descriptor in sidebar order.
func All() []Descriptor {
	out := make([]Descriptor, len(registry))
	copy(out, registry)
	return out
}

// ByKind looks up a descriptor by entity kind.
func ByKind(kind string) (Descriptor, bool) {
	for _, d := range registry {
		if d.Kind == kind {
			return d, true
		}
	}
	return Descriptor{}, false
}
