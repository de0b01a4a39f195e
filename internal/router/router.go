package router

import (
	"time"

	"carniceria/internal/config"
	"carniceria/internal/event"
	"carniceria/internal/handler"
	"carniceria/internal/infra"
	"carniceria/internal/middleware"
	"carniceria/internal/repository"
	"carniceria/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the long-lived collaborators built by the composition root and
// shared with the background workers.
type Deps struct {
	Events  event.Publisher
	Monitor handler.Scanner
	MailCB  *infra.CircuitBreaker
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, deps Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	tx := repository.NewTransactor(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	cutRepo := repository.NewCutRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	saleSvc := service.NewSaleService(tx, saleRepo, productRepo, customerRepo, movementRepo, deps.Events)
	productSvc := service.NewProductService(tx, productRepo, categoryRepo, cutRepo, saleRepo, movementRepo, deps.Events)
	categorySvc := service.NewCategoryService(categoryRepo)
	cutSvc := service.NewCutService(cutRepo, categoryRepo)
	stockSvc := service.NewStockService(productRepo, movementRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	salesH := handler.NewSalesHandler(saleSvc)
	productsH := handler.NewProductsHandler(productSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc, cutSvc)
	stockH := handler.NewStockHandler(stockSvc, deps.Monitor)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, rdb, deps.MailCB))

	v1 := r.Group("/v1")
	Register(v1, salesH, productsH, categoriesH, stockH)

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

// Register mounts the /v1 routes on g.
func Register(
	g *gin.RouterGroup,
	salesH *handler.SalesHandler,
	productsH *handler.ProductsHandler,
	categoriesH *handler.CategoriesHandler,
	stockH *handler.StockHandler,
) {
	sales := g.Group("/sales")
	{
		sales.POST("", salesH.RecordSale)
		sales.GET("", salesH.ListSales)
		sales.GET("/:id", salesH.GetSale)
	}

	products := g.Group("/products")
	{
		products.POST("", productsH.Create)
		products.GET("", productsH.List)
		products.GET("/:id", productsH.Get)
		products.PUT("/:id", productsH.Update)
		products.DELETE("/:id", productsH.Delete)
	}

	categories := g.Group("/categories")
	{
		categories.POST("", categoriesH.CreateCategory)
		categories.GET("", categoriesH.ListCategories)
		categories.PUT("/:id", categoriesH.UpdateCategory)
		categories.DELETE("/:id", categoriesH.DeleteCategory)
	}

	cuts := g.Group("/cuts")
	{
		cuts.POST("", categoriesH.CreateCut)
		cuts.GET("", categoriesH.ListCuts)
		cuts.PUT("/:id", categoriesH.UpdateCut)
		cuts.DELETE("/:id", categoriesH.DeleteCut)
	}

	stock := g.Group("/stock")
	{
		stock.GET("/low", stockH.ListLow)
		stock.GET("/movements", stockH.ListMovements)
		stock.POST("/scan", stockH.Scan)
	}
}
