package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avolkov-dev/recipehub/internal/models"
)

func TestCreateRecipeWithIngredients(t *testing.T) {
	db := initTestDB(t)
	repo := NewPostgresRecipeRepository(db)

	user := createTestUser(t, db, "alice")
	flour := createTestIngredient(t, db, "flour", "g")
	sugar := createTestIngredient(t, db, "sugar", "g")

	recipe := &models.Recipe{AuthorID: user.ID, Name: "cake", Image: "/img", Text: "bake", CookingTime: 40}
	items := []models.RecipeIngredient{
		{IngredientID: flour.ID, Amount: 300},
		{IngredientID: sugar.ID, Amount: 100},
	}
	require.NoError(t, repo.CreateRecipe(recipe, items))
	require.NotZero(t, recipe.ID)

	rows, err := repo.GetIngredientRows(recipe.ID)
	require.NoError(t, err)
	require.Equal(t, []IngredientRow{
		{IngredientID: flour.ID, Name: "flour", MeasurementUnit: "g", Amount: 300},
		{IngredientID: sugar.ID, Name: "sugar", MeasurementUnit: "g", Amount: 100},
	}, rows)
}

func TestUpdateRecipeReplacesIngredients(t *testing.T) {
	db := initTestDB(t)
	repo := NewPostgresRecipeRepository(db)

	user := createTestUser(t, db, "alice")
	flour := createTestIngredient(t, db, "flour", "g")
	sugar := createTestIngredient(t, db, "sugar", "g")
	salt := createTestIngredient(t, db, "salt", "g")

	recipe := &models.Recipe{AuthorID: user.ID, Name: "bread", Image: "/img", Text: "bake", CookingTime: 60}
	require.NoError(t, repo.CreateRecipe(recipe, []models.RecipeIngredient{
		{IngredientID: flour.ID, Amount: 500},
		{IngredientID: sugar.ID, Amount: 20},
	}))

	recipe.Name = "sourdough"
	require.NoError(t, repo.UpdateRecipe(recipe, []models.RecipeIngredient{
		{IngredientID: flour.ID, Amount: 400},
		{IngredientID: salt.ID, Amount: 10},
	}))

	updated, err := repo.GetRecipeByID(recipe.ID)
	require.NoError(t, err)
	require.Equal(t, "sourdough", updated.Name)

	rows, err := repo.GetIngredientRows(recipe.ID)
	require.NoError(t, err)
	require.Equal(t, []IngredientRow{
		{IngredientID: flour.ID, Name: "flour", MeasurementUnit: "g", Amount: 400},
		{IngredientID: salt.ID, Name: "salt", MeasurementUnit: "g", Amount: 10},
	}, rows)
}

func TestListRecipesFilters(t *testing.T) {
	db := initTestDB(t)
	repo := NewPostgresRecipeRepository(db)
	relations := NewPostgresRelationRepository(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	soup := createTestRecipe(t, db, alice.ID, "soup")
	createTestRecipe(t, db, bob.ID, "cake")

	require.NoError(t, relations.CreateRelation(bob.ID, soup.ID, models.RelationFavorite))

	byAuthor, total, err := repo.ListRecipes(RecipeFilter{AuthorID: alice.ID, Limit: 10})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, byAuthor, 1)
	require.Equal(t, "soup", byAuthor[0].Name)

	favorited, total, err := repo.ListRecipes(RecipeFilter{FavoritedBy: bob.ID, Limit: 10})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, soup.ID, favorited[0].ID)

	inCart, total, err := repo.ListRecipes(RecipeFilter{InCartOf: bob.ID, Limit: 10})
	require.NoError(t, err)
	require.EqualValues(t, 0, total)
	require.Empty(t, inCart)
}

func TestListRecipesNewestFirst(t *testing.T) {
	db := initTestDB(t)
	repo := NewPostgresRecipeRepository(db)

	user := createTestUser(t, db, "alice")
	old := models.Recipe{AuthorID: user.ID, Name: "old", Image: "/img", Text: "t", CookingTime: 5, CreatedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, db.Create(&old).Error)
	fresh := createTestRecipe(t, db, user.ID, "fresh")

	recipes, _, err := repo.ListRecipes(RecipeFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	require.Equal(t, fresh.ID, recipes[0].ID)
	require.Equal(t, old.ID, recipes[1].ID)
}

func TestDeleteRecipeCascades(t *testing.T) {
	db := initTestDB(t)
	repo := NewPostgresRecipeRepository(db)
	relations := NewPostgresRelationRepository(db)

	user := createTestUser(t, db, "alice")
	flour := createTestIngredient(t, db, "flour", "g")
	recipe := createTestRecipe(t, db, user.ID, "bread")
	require.NoError(t, db.Create(&models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: flour.ID, Amount: 100}).Error)
	require.NoError(t, relations.CreateRelation(user.ID, recipe.ID, models.RelationShoppingCart))

	require.NoError(t, repo.DeleteRecipe(recipe.ID))

	_, err := repo.GetRecipeByID(recipe.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var joinRows, relRows int64
	require.NoError(t, db.Model(&models.RecipeIngredient{}).Count(&joinRows).Error)
	require.NoError(t, db.Model(&models.UserRecipeRelation{}).Count(&relRows).Error)
	require.Zero(t, joinRows)
	require.Zero(t, relRows)
}

func TestDeleteRecipeMissing(t *testing.T) {
	db := initTestDB(t)
	repo := NewPostgresRecipeRepository(db)

	require.ErrorIs(t, repo.DeleteRecipe(12345), gorm.ErrRecordNotFound)
}

func TestGetRecipesByAuthorLimit(t *testing.T) {
	db := initTestDB(t)
	repo := NewPostgresRecipeRepository(db)

	user := createTestUser(t, db, "alice")
	for _, name := range []string{"a", "b", "c"} {
		createTestRecipe(t, db, user.ID, name)
	}

	limited, err := repo.GetRecipesByAuthor(user.ID, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)

	all, err := repo.GetRecipesByAuthor(user.ID, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)

	count, err := repo.CountRecipesByAuthor(user.ID)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)
}
