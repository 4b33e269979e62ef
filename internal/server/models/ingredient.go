package models

// Ingredient is catalog reference data.
type Ingredient struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// IngredientAmount is one requested (ingredient, amount) pair of a recipe.
type IngredientAmount struct {
	IngredientID int64
	Amount       int
}

// RecipeIngredient is a stored link joined with its catalog entry.
type RecipeIngredient struct {
	IngredientID    int64
	Name            string
	MeasurementUnit string
	Amount          int
}
