package store

// Enum-typed fields are plain strings in the database; the declared
// variant sets below are enforced by record validation (oneof tags in
// models.go) so a record can never be persisted with an undeclared
// variant.

// CycleStatus is the lifecycle state of a crop cycle.
type CycleStatus string

const (
	CyclePlanned    CycleStatus = "planned"
	CycleSowing     CycleStatus = "sowing"
	CycleGrowing    CycleStatus = "growing"
	CycleHarvesting CycleStatus = "harvesting"
	CycleCompleted  CycleStatus = "completed"
	CycleFailed     CycleStatus = "failed"
)

// HealthStatus grades the observed health of a growing crop.
type HealthStatus string

const (
	HealthExcellent HealthStatus = "excellent"
	HealthGood      HealthStatus = "good"
	HealthFair      HealthStatus = "fair"
	HealthPoor      HealthStatus = "poor"
	HealthCritical  HealthStatus = "critical"
)

// ItemCategory classifies inventory items and suppliers.
type ItemCategory string

const (
	CategorySeed       ItemCategory = "seed"
	CategoryFertilizer ItemCategory = "fertilizer"
	CategoryPesticide  ItemCategory = "pesticide"
	CategoryEquipment  ItemCategory = "equipment"
	CategoryOther      ItemCategory = "other"
	// CategoryMultiple is valid for suppliers only.
	CategoryMultiple ItemCategory = "multiple"
)

// EquipmentCondition is the maintenance state of a piece of equipment.
type EquipmentCondition string

const (
	ConditionNew         EquipmentCondition = "new"
	ConditionExcellent   EquipmentCondition = "excellent"
	ConditionGood        EquipmentCondition = "good"
	ConditionFair        EquipmentCondition = "fair"
	ConditionPoor        EquipmentCondition = "poor"
	ConditionMaintenance EquipmentCondition = "maintenance"
	ConditionRetired     EquipmentCondition = "retired"
)

// TaskType classifies scheduled farm work.
type TaskType string

const (
	TaskPlanting      TaskType = "planting"
	TaskIrrigation    TaskType = "irrigation"
	TaskFertilization TaskType = "fertilization"
	TaskPestControl   TaskType = "pest_control"
	TaskHarvest       TaskType = "harvest"
	TaskMaintenance   TaskType = "maintenance"
	TaskOther         TaskType = "other"
)

// TaskStatus is the progress state of a scheduled task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
	TaskOverdue    TaskStatus = "overdue"
	TaskCancelled  TaskStatus = "cancelled"
)
