package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avolkov-dev/recipehub/internal/models"
	"github.com/avolkov-dev/recipehub/internal/repositories"
)

func newTestRelationHandler(db *gorm.DB) *RelationHandler {
	return NewRelationHandler(
		repositories.NewPostgresRelationRepository(db),
		repositories.NewPostgresRecipeRepository(db),
		nil,
	)
}

func TestAddFavorite(t *testing.T) {
	db := initTestDB(t)
	h := newTestRelationHandler(db)
	e := echo.New()

	user := createTestUser(t, db, "alice")
	recipe := createTestRecipe(t, db, user.ID, "soup")

	c, rec := newTestContext(t, e, http.MethodPost, "/recipes/1/favorite", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	asUser(c, user.ID)

	require.NoError(t, h.AddFavorite(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var short ShortRecipe
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &short))
	require.Equal(t, recipe.ID, short.ID)
	require.Equal(t, "soup", short.Name)
}

func TestAddFavoriteTwice(t *testing.T) {
	db := initTestDB(t)
	h := newTestRelationHandler(db)
	e := echo.New()

	user := createTestUser(t, db, "alice")
	createTestRecipe(t, db, user.ID, "soup")

	c, _ := newTestContext(t, e, http.MethodPost, "/recipes/1/favorite", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	asUser(c, user.ID)
	require.NoError(t, h.AddFavorite(c))

	c2, _ := newTestContext(t, e, http.MethodPost, "/recipes/1/favorite", nil)
	c2.SetParamNames("id")
	c2.SetParamValues("1")
	asUser(c2, user.ID)
	requireHTTPError(t, h.AddFavorite(c2), http.StatusBadRequest)
}

func TestAddFavoriteUnknownRecipe(t *testing.T) {
	db := initTestDB(t)
	h := newTestRelationHandler(db)
	e := echo.New()

	user := createTestUser(t, db, "alice")

	c, _ := newTestContext(t, e, http.MethodPost, "/recipes/999/favorite", nil)
	c.SetParamNames("id")
	c.SetParamValues("999")
	asUser(c, user.ID)
	requireHTTPError(t, h.AddFavorite(c), http.StatusNotFound)
}

func TestRemoveFavorite(t *testing.T) {
	db := initTestDB(t)
	h := newTestRelationHandler(db)
	e := echo.New()

	user := createTestUser(t, db, "alice")
	recipe := createTestRecipe(t, db, user.ID, "soup")
	relations := repositories.NewPostgresRelationRepository(db)
	require.NoError(t, relations.CreateRelation(user.ID, recipe.ID, models.RelationFavorite))

	c, rec := newTestContext(t, e, http.MethodDelete, "/recipes/1/favorite", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	asUser(c, user.ID)

	require.NoError(t, h.RemoveFavorite(c))
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRemoveFavoriteNotFavorited(t *testing.T) {
	db := initTestDB(t)
	h := newTestRelationHandler(db)
	e := echo.New()

	user := createTestUser(t, db, "alice")
	createTestRecipe(t, db, user.ID, "soup")

	c, _ := newTestContext(t, e, http.MethodDelete, "/recipes/1/favorite", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	asUser(c, user.ID)
	requireHTTPError(t, h.RemoveFavorite(c), http.StatusBadRequest)
}

func TestDownloadShoppingCart(t *testing.T) {
	db := initTestDB(t)
	h := newTestRelationHandler(db)
	e := echo.New()

	user := createTestUser(t, db, "alice")
	flour := createTestIngredient(t, db, "flour", "g")
	milk := createTestIngredient(t, db, "milk", "ml")

	pancakes := createTestRecipe(t, db, user.ID, "pancakes")
	bread := createTestRecipe(t, db, user.ID, "bread")
	require.NoError(t, db.Create(&models.RecipeIngredient{RecipeID: pancakes.ID, IngredientID: flour.ID, Amount: 150}).Error)
	require.NoError(t, db.Create(&models.RecipeIngredient{RecipeID: pancakes.ID, IngredientID: milk.ID, Amount: 250}).Error)
	require.NoError(t, db.Create(&models.RecipeIngredient{RecipeID: bread.ID, IngredientID: flour.ID, Amount: 500}).Error)

	relations := repositories.NewPostgresRelationRepository(db)
	require.NoError(t, relations.CreateRelation(user.ID, pancakes.ID, models.RelationShoppingCart))
	require.NoError(t, relations.CreateRelation(user.ID, bread.ID, models.RelationShoppingCart))

	c, rec := newTestContext(t, e, http.MethodGet, "/recipes/download_shopping_cart", nil)
	asUser(c, user.ID)

	require.NoError(t, h.DownloadShoppingCart(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/plain; charset=utf-8", rec.Header().Get(echo.HeaderContentType))
	require.Equal(t, `attachment; filename="shopping_list.txt"`, rec.Header().Get(echo.HeaderContentDisposition))
	require.Equal(t, "flour - 650 (g)\nmilk - 250 (ml)", rec.Body.String())
}

func TestDownloadShoppingCartEmpty(t *testing.T) {
	db := initTestDB(t)
	h := newTestRelationHandler(db)
	e := echo.New()

	user := createTestUser(t, db, "alice")

	c, rec := newTestContext(t, e, http.MethodGet, "/recipes/download_shopping_cart", nil)
	asUser(c, user.ID)

	require.NoError(t, h.DownloadShoppingCart(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Body.String())
}
