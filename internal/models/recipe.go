package models

import "time"

// Recipe is a published recipe owned by its author
type Recipe struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	AuthorID    uint      `json:"author_id" gorm:"index"`
	Name        string    `json:"name" gorm:"size:256"`
	Image       string    `json:"image"`
	Text        string    `json:"text"`
	CookingTime int       `json:"cooking_time"`
	CreatedAt   time.Time `json:"-" gorm:"index"`
}

// RecipeIngredient links a recipe to an ingredient with an amount
type RecipeIngredient struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	RecipeID     uint `json:"recipe_id" gorm:"index;uniqueIndex:idx_recipe_ingredient"`
	IngredientID uint `json:"ingredient_id" gorm:"index;uniqueIndex:idx_recipe_ingredient"`
	Amount       int  `json:"amount"`
}

// IngredientAmountRequest is one element of the ingredients list on create/update
type IngredientAmountRequest struct {
	ID     uint `json:"id" validate:"required"`
	Amount int  `json:"amount" validate:"required,min=1"`
}

// CreateRecipeRequest defines the request body for creating a new recipe
type CreateRecipeRequest struct {
	Name        string                    `json:"name" validate:"required,min=1,max=256"`
	Text        string                    `json:"text" validate:"required"`
	CookingTime int                       `json:"cooking_time" validate:"required,min=1"`
	Image       string                    `json:"image" validate:"required"`
	Ingredients []IngredientAmountRequest `json:"ingredients" validate:"required,min=1,dive"`
}

// UpdateRecipeRequest defines the request body for updating an existing recipe.
// The ingredient list is always replaced as a whole; the image is kept when omitted.
type UpdateRecipeRequest struct {
	Name        string                    `json:"name" validate:"required,min=1,max=256"`
	Text        string                    `json:"text" validate:"required"`
	CookingTime int                       `json:"cooking_time" validate:"required,min=1"`
	Image       string                    `json:"image,omitempty"`
	Ingredients []IngredientAmountRequest `json:"ingredients" validate:"required,min=1,dive"`
}
