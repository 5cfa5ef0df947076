package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/avolkov-dev/recipehub/internal/events"
	"github.com/avolkov-dev/recipehub/internal/models"
	"github.com/avolkov-dev/recipehub/internal/repositories"
)

// RelationHandler handles favorites, shopping carts and the shopping list
type RelationHandler struct {
	relationRepository repositories.RelationRepository
	recipeRepository   repositories.RecipeRepository
	producer           *events.Producer
}

// NewRelationHandler creates a new RelationHandler
func NewRelationHandler(
	relationRepo repositories.RelationRepository,
	recipeRepo repositories.RecipeRepository,
	producer *events.Producer,
) *RelationHandler {
	return &RelationHandler{
		relationRepository: relationRepo,
		recipeRepository:   recipeRepo,
		producer:           producer,
	}
}

// RegisterRelationRoutes registers favorite and shopping-cart routes
func (h *RelationHandler) RegisterRelationRoutes(g *echo.Group) {
	g.POST("/recipes/:id/favorite", h.AddFavorite)
	g.DELETE("/recipes/:id/favorite", h.RemoveFavorite)
	g.POST("/recipes/:id/shopping_cart", h.AddToShoppingCart)
	g.DELETE("/recipes/:id/shopping_cart", h.RemoveFromShoppingCart)
	g.GET("/recipes/download_shopping_cart", h.DownloadShoppingCart)
}

// AddFavorite marks a recipe as the current user's favorite
func (h *RelationHandler) AddFavorite(c echo.Context) error {
	return h.createRelation(c, models.RelationFavorite, "Recipe is already in favorites")
}

// RemoveFavorite removes a recipe from the current user's favorites
func (h *RelationHandler) RemoveFavorite(c echo.Context) error {
	return h.deleteRelation(c, models.RelationFavorite, "Recipe is not in favorites")
}

// AddToShoppingCart puts a recipe into the current user's shopping cart
func (h *RelationHandler) AddToShoppingCart(c echo.Context) error {
	return h.createRelation(c, models.RelationShoppingCart, "Recipe is already in shopping cart")
}

// RemoveFromShoppingCart removes a recipe from the current user's shopping cart
func (h *RelationHandler) RemoveFromShoppingCart(c echo.Context) error {
	return h.deleteRelation(c, models.RelationShoppingCart, "Recipe is not in shopping cart")
}

// createRelation adds a (user, recipe, kind) row. An unknown recipe is 404,
// a duplicate is 400, success returns the short recipe with 201.
func (h *RelationHandler) createRelation(c echo.Context, kind models.RelationKind, duplicateMsg string) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid recipe ID")
	}

	recipe, err := h.recipeRepository.GetRecipeByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Recipe not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.relationRepository.CreateRelation(currentUserID, recipe.ID, kind); err != nil {
		if errors.Is(err, repositories.ErrRelationExists) {
			return echo.NewHTTPError(http.StatusBadRequest, duplicateMsg)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publishEvent(c, h.producer, currentUserID, map[string]interface{}{
		"type":      "relation_added",
		"kind":      string(kind),
		"user_id":   currentUserID,
		"recipe_id": recipe.ID,
	})

	return c.JSON(http.StatusCreated, newShortRecipe(recipe))
}

// deleteRelation removes a (user, recipe, kind) row. An unknown recipe is 404,
// an absent relation is 400, success is 204.
func (h *RelationHandler) deleteRelation(c echo.Context, kind models.RelationKind, missingMsg string) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid recipe ID")
	}

	if _, err := h.recipeRepository.GetRecipeByID(uint(id)); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Recipe not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.relationRepository.DeleteRelation(currentUserID, uint(id), kind); err != nil {
		if errors.Is(err, repositories.ErrRelationNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, missingMsg)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publishEvent(c, h.producer, currentUserID, map[string]interface{}{
		"type":      "relation_removed",
		"kind":      string(kind),
		"user_id":   currentUserID,
		"recipe_id": id,
	})

	return c.NoContent(http.StatusNoContent)
}

// DownloadShoppingCart renders the user's aggregated shopping list as a plain
// text attachment, one "{name} - {amount} ({unit})" line per ingredient.
func (h *RelationHandler) DownloadShoppingCart(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	items, err := h.relationRepository.AggregateShoppingList(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("%s - %d (%s)", item.Name, item.Amount, item.MeasurementUnit)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="shopping_list.txt"`)
	return c.Blob(http.StatusOK, "text/plain; charset=utf-8", []byte(strings.Join(lines, "\n")))
}
