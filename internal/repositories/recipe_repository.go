package repositories

import (
	"github.com/avolkov-dev/recipehub/internal/models"
	"gorm.io/gorm"
)

// RecipeFilter narrows ListRecipes; zero values mean "no filter"
type RecipeFilter struct {
	AuthorID    uint
	FavoritedBy uint // only recipes favorited by this user
	InCartOf    uint // only recipes in this user's shopping cart
	Offset      int
	Limit       int
}

// IngredientRow is one serialized ingredient line of a recipe
type IngredientRow struct {
	IngredientID    uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeRepository defines the interface for recipe data operations
type RecipeRepository interface {
	CreateRecipe(recipe *models.Recipe, items []models.RecipeIngredient) error
	GetRecipeByID(id uint) (*models.Recipe, error)
	GetIngredientRows(recipeID uint) ([]IngredientRow, error)
	ListRecipes(f RecipeFilter) ([]models.Recipe, int64, error)
	UpdateRecipe(recipe *models.Recipe, items []models.RecipeIngredient) error
	DeleteRecipe(id uint) error
	GetRecipesByAuthor(authorID uint, limit int) ([]models.Recipe, error)
	CountRecipesByAuthor(authorID uint) (int64, error)
}

// PostgresRecipeRepository implements RecipeRepository for PostgreSQL
type PostgresRecipeRepository struct {
	db *gorm.DB
}

// NewPostgresRecipeRepository creates a new PostgresRecipeRepository
func NewPostgresRecipeRepository(db *gorm.DB) *PostgresRecipeRepository {
	return &PostgresRecipeRepository{db: db}
}

// CreateRecipe inserts the recipe and its ingredient rows in one transaction
func (r *PostgresRecipeRepository) CreateRecipe(recipe *models.Recipe, items []models.RecipeIngredient) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].RecipeID = recipe.ID
		}
		return tx.Create(&items).Error
	})
}

func (r *PostgresRecipeRepository) GetRecipeByID(id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.First(&recipe, id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// GetIngredientRows returns the recipe's ingredients joined with their catalog
// entries, ordered by ingredient name.
func (r *PostgresRecipeRepository) GetIngredientRows(recipeID uint) ([]IngredientRow, error) {
	var rows []IngredientRow
	err := r.db.Model(&models.RecipeIngredient{}).
		Select("ingredients.id AS ingredient_id, ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, recipe_ingredients.amount AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("recipe_ingredients.recipe_id = ?", recipeID).
		Order("ingredients.name").
		Scan(&rows).Error
	return rows, err
}

// ListRecipes returns a page of recipes, newest first, plus the total count
// for the filter.
func (r *PostgresRecipeRepository) ListRecipes(f RecipeFilter) ([]models.Recipe, int64, error) {
	q := r.db.Model(&models.Recipe{})
	if f.AuthorID != 0 {
		q = q.Where("author_id = ?", f.AuthorID)
	}
	if f.FavoritedBy != 0 {
		q = q.Where("recipes.id IN (?)", r.relationRecipeIDs(f.FavoritedBy, models.RelationFavorite))
	}
	if f.InCartOf != 0 {
		q = q.Where("recipes.id IN (?)", r.relationRecipeIDs(f.InCartOf, models.RelationShoppingCart))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := q.Order("created_at DESC, id DESC").Offset(f.Offset).Limit(f.Limit).Find(&recipes).Error
	return recipes, total, err
}

func (r *PostgresRecipeRepository) relationRecipeIDs(userID uint, kind models.RelationKind) *gorm.DB {
	return r.db.Model(&models.UserRecipeRelation{}).
		Select("recipe_id").
		Where("user_id = ? AND kind = ?", userID, kind)
}

// UpdateRecipe saves the recipe and replaces its whole ingredient set in one
// transaction, so readers never observe a partial list.
func (r *PostgresRecipeRepository) UpdateRecipe(recipe *models.Recipe, items []models.RecipeIngredient) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(recipe).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ID = 0
			items[i].RecipeID = recipe.ID
		}
		return tx.Create(&items).Error
	})
}

// DeleteRecipe removes the recipe together with its join rows and relations
func (r *PostgresRecipeRepository) DeleteRecipe(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.UserRecipeRelation{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Recipe{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *PostgresRecipeRepository) GetRecipesByAuthor(authorID uint, limit int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	q := r.db.Where("author_id = ?", authorID).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&recipes).Error
	return recipes, err
}

func (r *PostgresRecipeRepository) CountRecipesByAuthor(authorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}
