package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"petshop_back_end/internal/cache"
	"petshop_back_end/internal/config"
	"petshop_back_end/internal/handlers"
	"petshop_back_end/internal/handlers/admin"
	"petshop_back_end/internal/handlers/product"
	"petshop_back_end/internal/handlers/user"
	"petshop_back_end/internal/middleware"
	"petshop_back_end/internal/services"
)

type Dependencies struct {
	Config   *config.Config
	Services *services.Services
	// Redis is optional. Without it rate limits and cart sync are off.
	Redis *redis.Client
}

func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	cfg := deps.Config
	svc := deps.Services
	limiter := cache.FromRedis(deps.Redis)

	r.MaxMultipartMemory = services.MaxImageSize
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key", "X-API-KEY"},
		ExposeHeaders:    []string{"Authorization", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.Identity(cfg.JWTSecret))

	r.GET("/health", handlers.Health)

	api := r.Group("/api")
	api.POST("/upload", handlers.UploadImage(svc.Images))
	api.POST("/orders", user.OrdersByIDs(svc.Checkout))

	users := api.Group("/users")
	{
		users.POST("/register", middleware.RegisterRateLimit(limiter), user.Register(svc.Accounts, cfg.JWTSecret))
		users.POST("/login", middleware.LoginRateLimit(limiter), user.Login(svc.Accounts, cfg.JWTSecret))
		users.POST("/add-to-cart", user.AddToCart(svc.Carts))
		users.POST("/remove-from-cart", user.RemoveFromCart(svc.Carts))
		users.POST("/place-order", user.PlaceOrder(svc.Checkout))

		users.GET("/:id", user.GetUser(svc.Accounts))
		users.PUT("/:id", user.UpdateUser(svc.Accounts))
		users.DELETE("/:id", user.DeleteUser(svc.Accounts))
		users.GET("/:id/orders", user.UserOrders(svc.Checkout))
		users.GET("/:id/products", user.UserProducts(svc.Catalog))
		users.GET("/:id/cart", user.GetCart(svc.Carts))
		users.GET("/:id/cart/ws", user.CartWebSocket(deps.Redis, svc.Carts))
	}

	products := api.Group("/products")
	{
		products.GET("/categories", product.GetAllCategories)
		products.GET("/search", product.SearchProducts(svc.Catalog))

		products.GET("/products", product.GetAllProducts(svc.Catalog))
		products.POST("/products", product.CreateProduct(svc.Catalog))
		products.GET("/products/filter", product.FilterProducts(svc.Catalog))
		products.POST("/products/by-category", product.GetProductsByCategory(svc.Catalog))
		products.POST("/products/by-ids", product.GetProductsByIDs(svc.Catalog))
		products.GET("/products/:id", product.GetProduct(svc.Catalog))
	}

	adminGroup := api.Group("/admin", middleware.RequireAdminKey(cfg.AdminAPIKey))
	adminGroup.POST("/reconcile", admin.Reconcile(svc.Reconciler))
}
