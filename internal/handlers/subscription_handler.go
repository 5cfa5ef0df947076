package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/avolkov-dev/recipehub/internal/events"
	"github.com/avolkov-dev/recipehub/internal/models"
	"github.com/avolkov-dev/recipehub/internal/repositories"
	"github.com/avolkov-dev/recipehub/internal/util"
)

// SubscriptionHandler handles subscribe/unsubscribe HTTP requests
type SubscriptionHandler struct {
	subscriptionRepository repositories.SubscriptionRepository
	userRepository         repositories.UserRepository
	recipeRepository       repositories.RecipeRepository
	producer               *events.Producer
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(
	subscriptionRepo repositories.SubscriptionRepository,
	userRepo repositories.UserRepository,
	recipeRepo repositories.RecipeRepository,
	producer *events.Producer,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionRepository: subscriptionRepo,
		userRepository:         userRepo,
		recipeRepository:       recipeRepo,
		producer:               producer,
	}
}

// RegisterSubscriptionRoutes registers subscription-related routes
func (h *SubscriptionHandler) RegisterSubscriptionRoutes(g *echo.Group) {
	g.GET("/users/subscriptions", h.Subscriptions)
	g.POST("/users/:id/subscribe", h.Subscribe)
	g.DELETE("/users/:id/subscribe", h.Unsubscribe)
}

// Subscribe subscribes the current user to an author
func (h *SubscriptionHandler) Subscribe(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	authorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	author, err := h.userRepository.GetUserByID(uint(authorID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if currentUserID == author.ID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot subscribe to yourself")
	}

	if err := h.subscriptionRepository.CreateSubscription(currentUserID, author.ID); err != nil {
		if errors.Is(err, repositories.ErrAlreadySubscribed) {
			return echo.NewHTTPError(http.StatusBadRequest, "Already subscribed to this user")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publishEvent(c, h.producer, currentUserID, map[string]interface{}{
		"type":      "subscription_added",
		"user_id":   currentUserID,
		"author_id": author.ID,
	})

	resp, err := h.subscriptionResponse(author, 0)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, resp)
}

// Unsubscribe removes the subscription to an author
func (h *SubscriptionHandler) Unsubscribe(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	authorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if _, err := h.userRepository.GetUserByID(uint(authorID)); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.subscriptionRepository.DeleteSubscription(currentUserID, uint(authorID)); err != nil {
		if errors.Is(err, repositories.ErrNotSubscribed) {
			return echo.NewHTTPError(http.StatusBadRequest, "Not subscribed to this user")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publishEvent(c, h.producer, currentUserID, map[string]interface{}{
		"type":      "subscription_removed",
		"user_id":   currentUserID,
		"author_id": authorID,
	})

	return c.NoContent(http.StatusNoContent)
}

// Subscriptions returns the paginated list of authors the current user
// follows, each annotated with their recipes. recipes_limit caps the recipe
// list per author when it is a number.
func (h *SubscriptionHandler) Subscriptions(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, limit := util.Calculate(page, limit)
	if page < 1 {
		page = 1
	}

	recipesLimit := 0
	if v, err := strconv.Atoi(c.QueryParam("recipes_limit")); err == nil && v > 0 {
		recipesLimit = v
	}

	authors, err := h.subscriptionRepository.GetSubscribedAuthors(currentUserID, offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	totalItems, err := h.subscriptionRepository.CountSubscriptions(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	results := make([]SubscriptionResponse, len(authors))
	for i := range authors {
		resp, err := h.subscriptionResponse(&authors[i], recipesLimit)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		results[i] = *resp
	}

	totalPages := int(math.Ceil(float64(totalItems) / float64(limit)))

	return c.JSON(http.StatusOK, echo.Map{
		"results": results,
		"meta": echo.Map{
			"currentPage":  page,
			"totalPages":   totalPages,
			"totalItems":   totalItems,
			"itemsPerPage": limit,
		},
	})
}

func (h *SubscriptionHandler) subscriptionResponse(author *models.User, recipesLimit int) (*SubscriptionResponse, error) {
	recipes, err := h.recipeRepository.GetRecipesByAuthor(author.ID, recipesLimit)
	if err != nil {
		return nil, err
	}
	count, err := h.recipeRepository.CountRecipesByAuthor(author.ID)
	if err != nil {
		return nil, err
	}

	short := make([]ShortRecipe, len(recipes))
	for i := range recipes {
		short[i] = newShortRecipe(&recipes[i])
	}

	// In a subscriptions listing the author is by definition subscribed to
	return &SubscriptionResponse{
		UserProfile:  newUserProfile(author, true),
		Recipes:      short,
		RecipesCount: count,
	}, nil
}
