package models

// Ingredient is a catalog entry, deduplicated by (name, measurement unit)
type Ingredient struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"size:128;index;uniqueIndex:idx_ingredient_name_unit"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:64;uniqueIndex:idx_ingredient_name_unit"`
}
