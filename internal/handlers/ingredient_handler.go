package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/avolkov-dev/recipehub/internal/repositories"
)

// IngredientHandler handles ingredient catalog HTTP requests
type IngredientHandler struct {
	ingredientRepository repositories.IngredientRepository
}

// NewIngredientHandler creates a new IngredientHandler
func NewIngredientHandler(ingredientRepo repositories.IngredientRepository) *IngredientHandler {
	return &IngredientHandler{ingredientRepository: ingredientRepo}
}

// RegisterIngredientRoutes registers ingredient-related routes
func (h *IngredientHandler) RegisterIngredientRoutes(g *echo.Group) {
	g.GET("/ingredients", h.GetIngredients)
	g.GET("/ingredients/:id", h.GetIngredient)
}

// GetIngredients lists ingredients, optionally filtered by a case-insensitive
// name prefix.
func (h *IngredientHandler) GetIngredients(c echo.Context) error {
	ingredients, err := h.ingredientRepository.ListIngredients(c.QueryParam("name"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, ingredients)
}

// GetIngredient returns a single ingredient by ID
func (h *IngredientHandler) GetIngredient(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid ingredient ID")
	}

	ingredient, err := h.ingredientRepository.GetIngredientByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Ingredient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, ingredient)
}
