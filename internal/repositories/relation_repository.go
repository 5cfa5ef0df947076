package repositories

import (
	"errors"

	"github.com/avolkov-dev/recipehub/internal/models"
	"gorm.io/gorm"
)

// ShoppingListItem is one aggregated line of the downloadable shopping list
type ShoppingListItem struct {
	Name            string
	MeasurementUnit string
	Amount          int
}

// RelationRepository defines the interface for favorite/shopping-cart operations
type RelationRepository interface {
	CreateRelation(userID, recipeID uint, kind models.RelationKind) error
	DeleteRelation(userID, recipeID uint, kind models.RelationKind) error
	HasRelation(userID, recipeID uint, kind models.RelationKind) (bool, error)
	GetRelationMap(userID uint, recipeIDs []uint, kind models.RelationKind) (map[uint]bool, error)
	AggregateShoppingList(userID uint) ([]ShoppingListItem, error)
}

// PostgresRelationRepository implements RelationRepository for PostgreSQL
type PostgresRelationRepository struct {
	db *gorm.DB
}

// NewPostgresRelationRepository creates a new PostgresRelationRepository
func NewPostgresRelationRepository(db *gorm.DB) *PostgresRelationRepository {
	return &PostgresRelationRepository{db: db}
}

// CreateRelation inserts a (user, recipe, kind) row. The existence pre-check
// gives the friendly error; the unique index is the actual authority, so a
// concurrent duplicate insert folds into the same ErrRelationExists.
func (r *PostgresRelationRepository) CreateRelation(userID, recipeID uint, kind models.RelationKind) error {
	exists, err := r.HasRelation(userID, recipeID, kind)
	if err != nil {
		return err
	}
	if exists {
		return ErrRelationExists
	}

	rel := models.UserRecipeRelation{UserID: userID, RecipeID: recipeID, Kind: kind}
	if err := r.db.Create(&rel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrRelationExists
		}
		return err
	}
	return nil
}

func (r *PostgresRelationRepository) DeleteRelation(userID, recipeID uint, kind models.RelationKind) error {
	res := r.db.Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, kind).
		Delete(&models.UserRecipeRelation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRelationNotFound
	}
	return nil
}

func (r *PostgresRelationRepository) HasRelation(userID, recipeID uint, kind models.RelationKind) (bool, error) {
	var count int64
	err := r.db.Model(&models.UserRecipeRelation{}).
		Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, kind).
		Count(&count).Error
	return count > 0, err
}

// GetRelationMap reports which of the given recipes the user has related,
// for flag enrichment of list responses.
func (r *PostgresRelationRepository) GetRelationMap(userID uint, recipeIDs []uint, kind models.RelationKind) (map[uint]bool, error) {
	result := make(map[uint]bool)
	if len(recipeIDs) == 0 {
		return result, nil
	}
	var relations []models.UserRecipeRelation
	err := r.db.Where("user_id = ? AND kind = ? AND recipe_id IN ?", userID, kind, recipeIDs).
		Find(&relations).Error
	if err != nil {
		return nil, err
	}
	for _, rel := range relations {
		result[rel.RecipeID] = true
	}
	return result, nil
}

// AggregateShoppingList sums ingredient amounts across every recipe in the
// user's shopping cart, grouped by (name, unit) and ordered by name then unit
// so the rendered list is deterministic. An empty cart yields no rows.
func (r *PostgresRelationRepository) AggregateShoppingList(userID uint) ([]ShoppingListItem, error) {
	var items []ShoppingListItem
	err := r.db.Model(&models.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("recipe_ingredients.recipe_id IN (?)",
			r.db.Model(&models.UserRecipeRelation{}).
				Select("recipe_id").
				Where("user_id = ? AND kind = ?", userID, models.RelationShoppingCart)).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name, ingredients.measurement_unit").
		Scan(&items).Error
	return items, err
}
