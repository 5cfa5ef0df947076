package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/avolkov-dev/recipehub/internal/search"
	"github.com/avolkov-dev/recipehub/internal/util"
)

// SearchHandler serves full-text recipe search backed by Elasticsearch
type SearchHandler struct {
	esClient *elasticsearch.Client
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(esClient *elasticsearch.Client) *SearchHandler {
	return &SearchHandler{esClient: esClient}
}

// RegisterSearchRoutes registers search routes
func (h *SearchHandler) RegisterSearchRoutes(g *echo.Group) {
	g.GET("/recipes/search", h.SearchRecipes)
}

// SearchRecipes runs a fuzzy full-text query over recipe names and texts
func (h *SearchHandler) SearchRecipes(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Query parameter 'q' is required")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, limit := util.Calculate(page, limit)
	if page < 1 {
		page = 1
	}

	totalItems, docs, err := search.Search(c.Request().Context(), h.esClient, query, offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	totalPages := int(math.Ceil(float64(totalItems) / float64(limit)))

	return c.JSON(http.StatusOK, echo.Map{
		"results": docs,
		"meta": echo.Map{
			"currentPage":  page,
			"totalPages":   totalPages,
			"totalItems":   totalItems,
			"itemsPerPage": limit,
		},
	})
}
