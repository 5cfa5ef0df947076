package router

import (
	"log/slog"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/avolkov-dev/recipehub/internal/events"
	"github.com/avolkov-dev/recipehub/internal/handlers"
	"github.com/avolkov-dev/recipehub/internal/logging"
	"github.com/avolkov-dev/recipehub/internal/middleware"
	"github.com/avolkov-dev/recipehub/internal/models"
	"github.com/avolkov-dev/recipehub/internal/repositories"
	"github.com/avolkov-dev/recipehub/internal/storage"
	"github.com/avolkov-dev/recipehub/pkg/config"
)

// SetupMiddleware attaches the global middleware stack
func SetupMiddleware(e *echo.Echo) {
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORS())
}

// SetupRoutes migrates the schema and wires every handler onto the router.
// The producer and esClient may be nil; the features backed by them degrade
// to no-ops.
func SetupRoutes(
	e *echo.Echo,
	db *gorm.DB,
	cfg *config.Config,
	logger *slog.Logger,
	store storage.Storage,
	producer *events.Producer,
	esClient *elasticsearch.Client,
) error {
	// Handlers log background failures through the request context
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), logger)))
			return next(c)
		}
	})

	err := db.AutoMigrate(
		&models.User{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.UserRecipeRelation{},
		&models.Subscription{},
	)
	if err != nil {
		return err
	}

	userRepo := repositories.NewPostgresUserRepository(db)
	ingredientRepo := repositories.NewPostgresIngredientRepository(db)
	recipeRepo := repositories.NewPostgresRecipeRepository(db)
	relationRepo := repositories.NewPostgresRelationRepository(db)
	subscriptionRepo := repositories.NewPostgresSubscriptionRepository(db)

	authHandler := handlers.NewAuthHandler(userRepo, producer, cfg.JWTSecret)
	userHandler := handlers.NewUserHandler(userRepo, subscriptionRepo, store)
	ingredientHandler := handlers.NewIngredientHandler(ingredientRepo)
	recipeHandler := handlers.NewRecipeHandler(recipeRepo, ingredientRepo, relationRepo, userRepo, subscriptionRepo, store, producer, esClient)
	relationHandler := handlers.NewRelationHandler(relationRepo, recipeRepo, producer)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionRepo, userRepo, recipeRepo, producer)

	e.GET("/health", handlers.HealthCheck)

	api := e.Group("/api/v1")

	authGroup := api.Group("/auth")
	authHandler.RegisterAuthRoutes(authGroup)

	// Read endpoints work anonymously but enrich responses when a valid
	// token is present
	public := api.Group("")
	public.Use(middleware.OptionalJWTAuthMiddleware(cfg.JWTSecret))
	userHandler.RegisterPublicUserRoutes(public)
	ingredientHandler.RegisterIngredientRoutes(public)
	recipeHandler.RegisterPublicRecipeRoutes(public)
	if esClient != nil {
		searchHandler := handlers.NewSearchHandler(esClient)
		searchHandler.RegisterSearchRoutes(public)
	}

	protected := api.Group("")
	protected.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	userHandler.RegisterUserRoutes(protected)
	recipeHandler.RegisterRecipeRoutes(protected)
	relationHandler.RegisterRelationRoutes(protected)
	subscriptionHandler.RegisterSubscriptionRoutes(protected)

	short := e.Group("/s")
	short.Use(middleware.OptionalJWTAuthMiddleware(cfg.JWTSecret))
	short.GET("/:id", recipeHandler.ResolveShortLink)

	if local, ok := store.(*storage.LocalStorage); ok {
		e.Static(cfg.MediaURL, local.Dir)
	}

	return nil
}
