package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/avolkov-dev/recipehub/internal/events"
	"github.com/avolkov-dev/recipehub/internal/logging"
	"github.com/avolkov-dev/recipehub/internal/models"
	"github.com/avolkov-dev/recipehub/internal/repositories"
	"github.com/avolkov-dev/recipehub/internal/search"
	"github.com/avolkov-dev/recipehub/internal/storage"
	"github.com/avolkov-dev/recipehub/internal/util"
)

// RecipeHandler handles recipe HTTP requests
type RecipeHandler struct {
	recipeRepository       repositories.RecipeRepository
	ingredientRepository   repositories.IngredientRepository
	relationRepository     repositories.RelationRepository
	userRepository         repositories.UserRepository
	subscriptionRepository repositories.SubscriptionRepository
	store                  storage.Storage
	producer               *events.Producer
	esClient               *elasticsearch.Client
}

// NewRecipeHandler creates a new RecipeHandler
func NewRecipeHandler(
	recipeRepo repositories.RecipeRepository,
	ingredientRepo repositories.IngredientRepository,
	relationRepo repositories.RelationRepository,
	userRepo repositories.UserRepository,
	subscriptionRepo repositories.SubscriptionRepository,
	store storage.Storage,
	producer *events.Producer,
	esClient *elasticsearch.Client,
) *RecipeHandler {
	return &RecipeHandler{
		recipeRepository:       recipeRepo,
		ingredientRepository:   ingredientRepo,
		relationRepository:     relationRepo,
		userRepository:         userRepo,
		subscriptionRepository: subscriptionRepo,
		store:                  store,
		producer:               producer,
		esClient:               esClient,
	}
}

// RegisterPublicRecipeRoutes registers recipe routes that work without a token
func (h *RecipeHandler) RegisterPublicRecipeRoutes(g *echo.Group) {
	g.GET("/recipes", h.GetRecipes)
	g.GET("/recipes/:id", h.GetRecipe)
	g.GET("/recipes/:id/get-link", h.GetLink)
}

// RegisterRecipeRoutes registers recipe routes that require authentication
func (h *RecipeHandler) RegisterRecipeRoutes(g *echo.Group) {
	g.POST("/recipes", h.CreateRecipe)
	g.PATCH("/recipes/:id", h.UpdateRecipe)
	g.DELETE("/recipes/:id", h.DeleteRecipe)
}

// GetRecipes lists recipes newest first with pagination metadata. Supported
// filters: author, is_favorited, is_in_shopping_cart. Flag filters only apply
// for authenticated callers; anonymous requests ignore them.
func (h *RecipeHandler) GetRecipes(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, limit := util.Calculate(page, limit)
	if page < 1 {
		page = 1
	}

	filter := repositories.RecipeFilter{Offset: offset, Limit: limit}
	if v, err := strconv.ParseUint(c.QueryParam("author"), 10, 32); err == nil {
		filter.AuthorID = uint(v)
	}
	if currentUserID != 0 {
		if isFlagSet(c.QueryParam("is_favorited")) {
			filter.FavoritedBy = currentUserID
		}
		if isFlagSet(c.QueryParam("is_in_shopping_cart")) {
			filter.InCartOf = currentUserID
		}
	}

	recipes, totalItems, err := h.recipeRepository.ListRecipes(filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	results, err := h.buildRecipeList(currentUserID, recipes)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
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

// GetRecipe returns one recipe with its ingredients and the caller's flags
func (h *RecipeHandler) GetRecipe(c echo.Context) error {
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

	resp, err := h.buildRecipe(getUserIDFromContext(c), recipe)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateRecipe creates a new recipe authored by the current user
func (h *RecipeHandler) CreateRecipe(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateRecipeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	items, err := h.resolveIngredients(req.Ingredients)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	imageURL, err := h.saveImage(c, req.Image)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	recipe := models.Recipe{
		AuthorID:    currentUserID,
		Name:        req.Name,
		Image:       imageURL,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}
	if err := h.recipeRepository.CreateRecipe(&recipe, items); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.indexRecipe(c, &recipe)
	publishEvent(c, h.producer, currentUserID, map[string]interface{}{
		"type":      "recipe_created",
		"recipe_id": recipe.ID,
		"author_id": currentUserID,
	})

	resp, err := h.buildRecipe(currentUserID, &recipe)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, resp)
}

// UpdateRecipe replaces a recipe's fields and its whole ingredient list.
// Only the author may update; the stored image is kept when none is sent.
func (h *RecipeHandler) UpdateRecipe(c echo.Context) error {
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
	if recipe.AuthorID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only edit your own recipes")
	}

	var req models.UpdateRecipeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	items, err := h.resolveIngredients(req.Ingredients)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Image != "" {
		imageURL, err := h.saveImage(c, req.Image)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		recipe.Image = imageURL
	}
	recipe.Name = req.Name
	recipe.Text = req.Text
	recipe.CookingTime = req.CookingTime

	if err := h.recipeRepository.UpdateRecipe(recipe, items); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.indexRecipe(c, recipe)
	publishEvent(c, h.producer, currentUserID, map[string]interface{}{
		"type":      "recipe_updated",
		"recipe_id": recipe.ID,
		"author_id": currentUserID,
	})

	resp, err := h.buildRecipe(currentUserID, recipe)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

// DeleteRecipe removes a recipe. Only the author may delete.
func (h *RecipeHandler) DeleteRecipe(c echo.Context) error {
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
	if recipe.AuthorID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own recipes")
	}

	if err := h.recipeRepository.DeleteRecipe(recipe.ID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Recipe not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if h.esClient != nil {
		ctx := c.Request().Context()
		if err := search.DeleteRecipe(ctx, h.esClient, recipe.ID); err != nil {
			logging.FromContext(ctx).Error("search delete failed", "recipe_id", recipe.ID, "error", err)
		}
	}
	publishEvent(c, h.producer, currentUserID, map[string]interface{}{
		"type":      "recipe_deleted",
		"recipe_id": recipe.ID,
		"author_id": currentUserID,
	})

	return c.NoContent(http.StatusNoContent)
}

// GetLink returns a stable short link for a recipe
func (h *RecipeHandler) GetLink(c echo.Context) error {
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

	scheme := c.Scheme()
	if scheme == "" {
		scheme = "http"
	}
	link := fmt.Sprintf("%s://%s/s/%d", scheme, c.Request().Host, recipe.ID)
	return c.JSON(http.StatusOK, echo.Map{"short-link": link})
}

// ResolveShortLink serves /s/:id by returning the full recipe
func (h *RecipeHandler) ResolveShortLink(c echo.Context) error {
	return h.GetRecipe(c)
}

// resolveIngredients validates the requested ingredient list against the
// catalog and converts it into join rows. Duplicate or unknown IDs are
// rejected.
func (h *RecipeHandler) resolveIngredients(reqs []models.IngredientAmountRequest) ([]models.RecipeIngredient, error) {
	seen := make(map[uint]bool, len(reqs))
	ids := make([]uint, 0, len(reqs))
	for _, r := range reqs {
		if seen[r.ID] {
			return nil, fmt.Errorf("duplicate ingredient %d", r.ID)
		}
		seen[r.ID] = true
		ids = append(ids, r.ID)
	}

	found, err := h.ingredientRepository.GetIngredientsByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		known := make(map[uint]bool, len(found))
		for _, ing := range found {
			known[ing.ID] = true
		}
		for _, id := range ids {
			if !known[id] {
				return nil, fmt.Errorf("unknown ingredient %d", id)
			}
		}
	}

	items := make([]models.RecipeIngredient, len(reqs))
	for i, r := range reqs {
		items[i] = models.RecipeIngredient{IngredientID: r.ID, Amount: r.Amount}
	}
	return items, nil
}

func (h *RecipeHandler) saveImage(c echo.Context, payload string) (string, error) {
	data, ext, mime, err := storage.DecodeBase64Image(payload)
	if err != nil {
		return "", err
	}
	return h.store.Save(c.Request().Context(), storage.RandomKey("recipes", ext), data, mime)
}

func (h *RecipeHandler) indexRecipe(c echo.Context, recipe *models.Recipe) {
	if h.esClient == nil {
		return
	}
	ctx := c.Request().Context()
	if err := search.IndexRecipe(ctx, h.esClient, recipe); err != nil {
		logging.FromContext(ctx).Error("search index failed", "recipe_id", recipe.ID, "error", err)
	}
}

// buildRecipe assembles the full response for one recipe, including the
// author's profile and the caller's favorite/cart flags.
func (h *RecipeHandler) buildRecipe(currentUserID uint, recipe *models.Recipe) (*RecipeResponse, error) {
	author, err := h.userRepository.GetUserByID(recipe.AuthorID)
	if err != nil {
		return nil, err
	}

	subscribed := false
	favorited := false
	inCart := false
	if currentUserID != 0 {
		if subscribed, err = h.subscriptionRepository.IsSubscribed(currentUserID, author.ID); err != nil {
			return nil, err
		}
		if favorited, err = h.relationRepository.HasRelation(currentUserID, recipe.ID, models.RelationFavorite); err != nil {
			return nil, err
		}
		if inCart, err = h.relationRepository.HasRelation(currentUserID, recipe.ID, models.RelationShoppingCart); err != nil {
			return nil, err
		}
	}

	rows, err := h.recipeRepository.GetIngredientRows(recipe.ID)
	if err != nil {
		return nil, err
	}

	return &RecipeResponse{
		ID:               recipe.ID,
		Author:           newUserProfile(author, subscribed),
		Ingredients:      rows,
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		Name:             recipe.Name,
		Image:            recipe.Image,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}, nil
}

func (h *RecipeHandler) buildRecipeList(currentUserID uint, recipes []models.Recipe) ([]RecipeResponse, error) {
	results := make([]RecipeResponse, 0, len(recipes))

	recipeIDs := make([]uint, len(recipes))
	authorIDs := make([]uint, len(recipes))
	for i := range recipes {
		recipeIDs[i] = recipes[i].ID
		authorIDs[i] = recipes[i].AuthorID
	}

	favorites := map[uint]bool{}
	inCart := map[uint]bool{}
	subscribed := map[uint]bool{}
	var err error
	if currentUserID != 0 {
		if favorites, err = h.relationRepository.GetRelationMap(currentUserID, recipeIDs, models.RelationFavorite); err != nil {
			return nil, err
		}
		if inCart, err = h.relationRepository.GetRelationMap(currentUserID, recipeIDs, models.RelationShoppingCart); err != nil {
			return nil, err
		}
		if subscribed, err = h.subscriptionRepository.GetSubscribedAuthorIDs(currentUserID, authorIDs); err != nil {
			return nil, err
		}
	}

	// Authors repeat across a page; fetch each once
	authors := make(map[uint]*models.User)
	for i := range recipes {
		recipe := &recipes[i]
		author, ok := authors[recipe.AuthorID]
		if !ok {
			if author, err = h.userRepository.GetUserByID(recipe.AuthorID); err != nil {
				return nil, err
			}
			authors[recipe.AuthorID] = author
		}

		rows, err := h.recipeRepository.GetIngredientRows(recipe.ID)
		if err != nil {
			return nil, err
		}

		results = append(results, RecipeResponse{
			ID:               recipe.ID,
			Author:           newUserProfile(author, subscribed[author.ID]),
			Ingredients:      rows,
			IsFavorited:      favorites[recipe.ID],
			IsInShoppingCart: inCart[recipe.ID],
			Name:             recipe.Name,
			Image:            recipe.Image,
			Text:             recipe.Text,
			CookingTime:      recipe.CookingTime,
		})
	}
	return results, nil
}

func isFlagSet(v string) bool {
	return v == "1" || v == "true" || v == "yes"
}
