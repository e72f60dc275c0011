package http

import (
	"net/http"

	"github.com/ybenkirane/autopart_inventory_system/internal/config"
	"github.com/ybenkirane/autopart_inventory_system/internal/core/domain"
	"github.com/ybenkirane/autopart_inventory_system/internal/core/ports"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Router struct {
	router *gin.Engine
}

func NewRouter(
	cfg *config.HTTP,
	tokenService ports.TokenService,
	userHandler *UserHandler,
	autoPartHandler *AutoPartHandler,
	brandHandler *BrandHandler,
	categoryHandler *CategoryHandler,
	auditHandler *AuditHandler,
) (*Router, error) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigins},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	// Users routes
	users := api.Group("/users")
	{
		users.POST("/login", userHandler.Login)

		staffOrAdmin := users.Group("")
		staffOrAdmin.Use(AuthMiddleware(tokenService), RequireRoles(domain.RoleStaff, domain.RoleAdmin))
		{
			staffOrAdmin.PUT("", userHandler.Update)
		}

		admin := users.Group("")
		admin.Use(AuthMiddleware(tokenService), RequireRoles(domain.RoleAdmin))
		{
			admin.POST("", userHandler.Signup)
			admin.GET("", userHandler.List)
			admin.GET("/:id", userHandler.GetByID)
			admin.DELETE("/:id", userHandler.Delete)
			admin.PATCH("/:id/promote", userHandler.Promote)
		}
	}

	// Auto parts routes
	autoParts := api.Group("/autoparts")
	{
		autoParts.GET("", autoPartHandler.List)
		autoParts.GET("/:id", autoPartHandler.GetByID)
		autoParts.PATCH("/link-vehicle", autoPartHandler.LinkVehicle)

		admin := autoParts.Group("")
		admin.Use(AuthMiddleware(tokenService), RequireRoles(domain.RoleAdmin))
		{
			admin.POST("", autoPartHandler.Add)
			admin.PUT("/:id", autoPartHandler.Update)
			admin.DELETE("/:id", autoPartHandler.Delete)
		}
	}

	// Brands routes
	brands := api.Group("/brands")
	{
		brands.GET("", brandHandler.GetAll)
		brands.GET("/:id", brandHandler.GetByID)

		staffOrAdmin := brands.Group("")
		staffOrAdmin.Use(AuthMiddleware(tokenService), RequireRoles(domain.RoleStaff, domain.RoleAdmin))
		{
			staffOrAdmin.POST("", brandHandler.Add)
			staffOrAdmin.PUT("/:id", brandHandler.Update)
			staffOrAdmin.PATCH("/:id/image", brandHandler.UpdateImage)
			staffOrAdmin.DELETE("/:id", brandHandler.Delete)
		}
	}

	// Categories routes
	categories := api.Group("/categories")
	{
		categories.GET("", categoryHandler.GetAll)
		categories.GET("/:id", categoryHandler.GetByID)

		staffOrAdmin := categories.Group("")
		staffOrAdmin.Use(AuthMiddleware(tokenService), RequireRoles(domain.RoleStaff, domain.RoleAdmin))
		{
			staffOrAdmin.POST("", categoryHandler.Add)
			staffOrAdmin.PUT("/:id", categoryHandler.Update)
			staffOrAdmin.PATCH("/:id/image", categoryHandler.UpdateImage)
			staffOrAdmin.DELETE("/:id", categoryHandler.Delete)
		}
	}

	// Audit log routes
	logs := api.Group("/logs")
	logs.Use(AuthMiddleware(tokenService), RequireRoles(domain.RoleAdmin))
	{
		logs.GET("/:entityType/:id", auditHandler.ListByEntity)
	}

	return &Router{router: router}, nil
}

func (r *Router) Serve(addr string) error {
	return r.router.Run(addr)
}

func (r *Router) Engine() *gin.Engine {
	return r.router
}
