package models

import "time"

// RelationKind discriminates the two user-recipe relation flavors
type RelationKind string

const (
	RelationFavorite     RelationKind = "favorite"
	RelationShoppingCart RelationKind = "shopping_cart"
)

// UserRecipeRelation links a user to a recipe; existence is the whole payload.
// Favorites and shopping-cart entries share the table, discriminated by Kind.
type UserRecipeRelation struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	UserID    uint         `json:"user_id" gorm:"index;uniqueIndex:idx_user_recipe_kind"`
	RecipeID  uint         `json:"recipe_id" gorm:"index;uniqueIndex:idx_user_recipe_kind"`
	Kind      RelationKind `json:"kind" gorm:"size:16;uniqueIndex:idx_user_recipe_kind"`
	CreatedAt time.Time    `json:"created_at"`
}
