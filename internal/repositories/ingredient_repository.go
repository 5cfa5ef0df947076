package repositories

import (
	"github.com/avolkov-dev/recipehub/internal/models"
	"gorm.io/gorm"
)

// IngredientRepository defines the interface for catalog operations
type IngredientRepository interface {
	ListIngredients(namePrefix string) ([]models.Ingredient, error)
	GetIngredientByID(id uint) (*models.Ingredient, error)
	GetIngredientsByIDs(ids []uint) ([]models.Ingredient, error)
	GetOrCreateIngredient(name, unit string) (*models.Ingredient, bool, error)
}

// PostgresIngredientRepository implements IngredientRepository for PostgreSQL
type PostgresIngredientRepository struct {
	db *gorm.DB
}

// NewPostgresIngredientRepository creates a new PostgresIngredientRepository
func NewPostgresIngredientRepository(db *gorm.DB) *PostgresIngredientRepository {
	return &PostgresIngredientRepository{db: db}
}

// ListIngredients returns the catalog ordered by name, optionally narrowed to a
// case-insensitive name prefix. The catalog is small and served unpaginated.
func (r *PostgresIngredientRepository) ListIngredients(namePrefix string) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	q := r.db.Order("name")
	if namePrefix != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", namePrefix+"%")
	}
	err := q.Find(&ingredients).Error
	return ingredients, err
}

func (r *PostgresIngredientRepository) GetIngredientByID(id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.db.First(&ingredient, id).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *PostgresIngredientRepository) GetIngredientsByIDs(ids []uint) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if len(ids) == 0 {
		return ingredients, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&ingredients).Error
	return ingredients, err
}

// GetOrCreateIngredient inserts a (name, unit) pair unless it already exists.
// The bool reports whether a new row was created.
func (r *PostgresIngredientRepository) GetOrCreateIngredient(name, unit string) (*models.Ingredient, bool, error) {
	var ingredient models.Ingredient
	res := r.db.Where(models.Ingredient{Name: name, MeasurementUnit: unit}).FirstOrCreate(&ingredient)
	if res.Error != nil {
		return nil, false, res.Error
	}
	return &ingredient, res.RowsAffected > 0, nil
}
