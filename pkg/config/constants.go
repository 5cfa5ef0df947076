package config

// Catalog field limits, matching the column sizes on models.Ingredient.
const (
	IngredientNameMaxLength  = 128
	MeasurementUnitMaxLength = 64
)
