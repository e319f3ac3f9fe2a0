package api

import (
	"fmt"
	"time"

	"recipe-studio/internal/api/handlers/health"
	libraryHandler "recipe-studio/internal/api/handlers/library"
	recipeHandler "recipe-studio/internal/api/handlers/recipe"
	"recipe-studio/internal/api/middleware"
	"recipe-studio/internal/core/ai/completion"
	"recipe-studio/internal/core/image"
	"recipe-studio/internal/core/library"
	recipeService "recipe-studio/internal/core/recipe"
	"recipe-studio/internal/infrastructure/config"
	"recipe-studio/internal/infrastructure/metrics"
	"recipe-studio/internal/pkg/common"
	"recipe-studio/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Services 路由使用的服務
type Services struct {
	Recipes *recipeService.Service
	Library *library.Service
}

// NewServices 依設定建立食譜與資料庫服務，collector 可為 nil
func NewServices(cfg *config.Config, store storage.Store, collector *metrics.Collector) *Services {
	var (
		completionRecorder completion.Recorder
		imageRecorder      image.Recorder
		recipeRecorder     recipeService.Recorder
	)
	if collector != nil {
		completionRecorder = collector
		imageRecorder = collector
		recipeRecorder = collector
	}

	completer := completion.NewClient(cfg.Completion, completionRecorder)
	resolver := image.NewResolver(cfg.Image, imageRecorder)

	return &Services{
		Recipes: recipeService.NewService(completer, resolver, recipeRecorder),
		Library: library.NewService(store),
	}
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, store storage.Store, collector *metrics.Collector) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 進階搜尋的自訂驗證規則
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil, fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := recipeService.RegisterValidations(v); err != nil {
		return nil, err
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID)))

	origins := cfg.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", middleware.ClientIDHeader},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window, cfg.RateLimit.Burst)))
	}

	if collector != nil {
		router.Use(collector.HTTPMiddleware())
	}
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	services := NewServices(cfg, store, collector)
	healthHandler := health.NewHandler(cfg, store)
	recipes := recipeHandler.NewHandler(services.Recipes)
	lib := libraryHandler.NewHandler(services.Library)

	// 去重只套用在生成類路由，資料庫的切換操作需要可重複送出
	dedup := middleware.Deduplication(middleware.NewDeduplicator(cfg.DedupWindow))

	// 健康檢查路由
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	if collector != nil && cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(collector.Handler()))
	}

	api := router.Group("/api/v1")
	{
		recipeGroup := api.Group("/recipes", dedup)
		{
			recipeGroup.POST("/generate", recipes.HandleGenerate)
			recipeGroup.GET("/search", recipes.HandleSearch)
			recipeGroup.POST("/advanced-search", recipes.HandleAdvancedSearch)
		}

		categoryGroup := api.Group("/categories")
		{
			categoryGroup.GET("", recipes.HandleListCategories)
			categoryGroup.GET("/:id", recipes.HandleGetCategory)
			categoryGroup.POST("/:id/generate", dedup, recipes.HandleCategoryGenerate)
		}

		libraryGroup := api.Group("/library", middleware.RequireClientID())
		{
			libraryGroup.GET("/saved", lib.HandleListSaved)
			libraryGroup.POST("/saved", lib.HandleSave)
			libraryGroup.DELETE("/saved/:name", lib.HandleDeleteSaved)

			libraryGroup.GET("/meal-plan", lib.HandleGetMealPlan)
			libraryGroup.POST("/meal-plan", lib.HandleAddToMealPlan)
			libraryGroup.DELETE("/meal-plan", lib.HandleRemoveFromMealPlan)
			libraryGroup.POST("/meal-plan/shopping-list", lib.HandleGenerateShoppingList)

			libraryGroup.GET("/shopping-list", lib.HandleGetShoppingList)
			libraryGroup.POST("/shopping-list", lib.HandleAddItem)
			libraryGroup.DELETE("/shopping-list/:index", lib.HandleRemoveItem)
			libraryGroup.POST("/shopping-list/toggle", lib.HandleToggleItem)
			libraryGroup.POST("/shopping-list/clear-checked", lib.HandleClearChecked)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.String("model", cfg.Completion.Model),
		zap.Bool("completion_configured", cfg.Completion.APIKey != ""),
		zap.Bool("image_enabled", cfg.Image.Enabled),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, nil
}
