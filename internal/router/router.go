package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ikkim/udonggeum-backend/config"
	"github.com/ikkim/udonggeum-backend/internal/app/controller"
	"github.com/ikkim/udonggeum-backend/internal/middleware"
)

type Router struct {
	healthController     *controller.HealthController
	authController       *controller.AuthController
	userController       *controller.UserController
	roleController       *controller.RoleController
	permissionController *controller.PermissionController
	categoryController   *controller.CategoryController
	productController    *controller.ProductController
	tagController        *controller.TagController
	mediaController      *controller.MediaController
	authMiddleware       *middleware.AuthMiddleware
	config               *config.Config
}

func NewRouter(
	healthController *controller.HealthController,
	authController *controller.AuthController,
	userController *controller.UserController,
	roleController *controller.RoleController,
	permissionController *controller.PermissionController,
	categoryController *controller.CategoryController,
	productController *controller.ProductController,
	tagController *controller.TagController,
	mediaController *controller.MediaController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		healthController:     healthController,
		authController:       authController,
		userController:       userController,
		roleController:       roleController,
		permissionController: permissionController,
		categoryController:   categoryController,
		productController:    productController,
		tagController:        tagController,
		mediaController:      mediaController,
		authMiddleware:       authMiddleware,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     r.config.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "Cache-Control", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", r.healthController.Check)
	router.GET("/health/db", r.healthController.Database)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.RefreshToken)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/profile", r.authMiddleware.Authenticate(), r.authController.Profile)
		}

		admin := v1.Group("/admin")
		admin.Use(
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole("admin", "super_admin"),
		)
		{
			users := admin.Group("/users")
			{
				users.GET("", r.authMiddleware.RequirePermission("users.read"), r.userController.List)
				users.GET("/stats", r.authMiddleware.RequirePermission("users.read"), r.userController.Stats)
				users.GET("/:id", r.authMiddleware.RequirePermission("users.read"), r.userController.Get)
				users.POST("", r.authMiddleware.RequirePermission("users.create"), r.userController.Create)
				users.PUT("/:id", r.authMiddleware.RequirePermission("users.update"), r.userController.Update)
				users.PUT("/:id/password", r.authMiddleware.RequirePermission("users.update"), r.userController.ChangePassword)
				users.POST("/:id/verify-email", r.authMiddleware.RequirePermission("users.update"), r.userController.VerifyEmail)
				users.POST("/:id/verify-phone", r.authMiddleware.RequirePermission("users.update"), r.userController.VerifyPhone)
				users.DELETE("/:id", r.authMiddleware.RequirePermission("users.delete"), r.userController.Delete)
				users.POST("/:id/restore", r.authMiddleware.RequirePermission("users.delete"), r.userController.Restore)
				users.POST("/bulk-status", r.authMiddleware.RequirePermission("users.update"), r.userController.BulkUpdateStatus)
				users.POST("/bulk-delete", r.authMiddleware.RequirePermission("users.delete"), r.userController.BulkDelete)
				users.POST("/bulk-restore", r.authMiddleware.RequirePermission("users.delete"), r.userController.BulkRestore)
			}

			roles := admin.Group("/roles")
			{
				roles.GET("", r.authMiddleware.RequirePermission("roles.read"), r.roleController.List)
				roles.GET("/simple", r.authMiddleware.RequirePermission("roles.read"), r.roleController.Simple)
				roles.GET("/stats", r.authMiddleware.RequirePermission("roles.read"), r.roleController.Stats)
				roles.GET("/:id", r.authMiddleware.RequirePermission("roles.read"), r.roleController.Get)
				roles.POST("", r.authMiddleware.RequirePermission("roles.create"), r.roleController.Create)
				roles.PUT("/:id", r.authMiddleware.RequirePermission("roles.update"), r.roleController.Update)
				roles.PUT("/:id/permissions", r.authMiddleware.RequirePermission("roles.update"), r.roleController.AssignPermissions)
				roles.DELETE("/:id", r.authMiddleware.RequirePermission("roles.delete"), r.roleController.Delete)
			}

			permissions := admin.Group("/permissions")
			{
				permissions.GET("", r.authMiddleware.RequirePermission("roles.read"), r.permissionController.List)
				permissions.GET("/grouped", r.authMiddleware.RequireAnyPermission("roles.read", "roles.update"), r.permissionController.Grouped)
				permissions.GET("/:id", r.authMiddleware.RequirePermission("roles.read"), r.permissionController.Get)
				permissions.POST("", r.authMiddleware.RequireRole("super_admin"), r.permissionController.Create)
				permissions.PUT("/:id", r.authMiddleware.RequireRole("super_admin"), r.permissionController.Update)
				permissions.DELETE("/:id", r.authMiddleware.RequireRole("super_admin"), r.permissionController.Delete)
				permissions.POST("/seed", r.authMiddleware.RequireRole("super_admin"), r.permissionController.Seed)
			}

			categories := admin.Group("/categories")
			{
				categories.GET("", r.authMiddleware.RequirePermission("products.read"), r.categoryController.List)
				categories.GET("/tree", r.authMiddleware.RequirePermission("products.read"), r.categoryController.Tree)
				categories.GET("/simple", r.authMiddleware.RequirePermission("products.read"), r.categoryController.Simple)
				categories.GET("/stats", r.authMiddleware.RequirePermission("products.read"), r.categoryController.Stats)
				categories.GET("/:id", r.authMiddleware.RequirePermission("products.read"), r.categoryController.Get)
				categories.POST("", r.authMiddleware.RequirePermission("products.create"), r.categoryController.Create)
				categories.PUT("/:id", r.authMiddleware.RequirePermission("products.update"), r.categoryController.Update)
				categories.DELETE("/:id", r.authMiddleware.RequirePermission("products.delete"), r.categoryController.Delete)
				categories.POST("/:id/restore", r.authMiddleware.RequirePermission("products.delete"), r.categoryController.Restore)
				categories.POST("/bulk-delete", r.authMiddleware.RequirePermission("products.delete"), r.categoryController.BulkDelete)
			}

			products := admin.Group("/products")
			{
				products.GET("", r.authMiddleware.RequirePermission("products.read"), r.productController.List)
				products.GET("/stats", r.authMiddleware.RequirePermission("products.read"), r.productController.Stats)
				products.GET("/:id", r.authMiddleware.RequirePermission("products.read"), r.productController.Get)
				products.POST("", r.authMiddleware.RequirePermission("products.create"), r.productController.Create)
				products.PUT("/:id", r.authMiddleware.RequirePermission("products.update"), r.productController.Update)
				products.PATCH("/:id/quantity", r.authMiddleware.RequirePermission("products.update"), r.productController.UpdateQuantity)
				products.PATCH("/:id/status", r.authMiddleware.RequirePermission("products.update"), r.productController.UpdateStatus)
				products.DELETE("/:id", r.authMiddleware.RequirePermission("products.delete"), r.productController.Delete)
				products.POST("/:id/restore", r.authMiddleware.RequirePermission("products.delete"), r.productController.Restore)
				products.POST("/bulk-delete", r.authMiddleware.RequirePermission("products.delete"), r.productController.BulkDelete)
				products.POST("/bulk-restore", r.authMiddleware.RequirePermission("products.delete"), r.productController.BulkRestore)
				products.POST("/bulk-status", r.authMiddleware.RequirePermission("products.update"), r.productController.BulkUpdateStatus)

				products.GET("/:id/variants", r.authMiddleware.RequirePermission("products.read"), r.productController.ListVariants)
				products.POST("/:id/variants", r.authMiddleware.RequirePermission("products.update"), r.productController.AddVariant)
				products.PUT("/:id/variants/:variantId", r.authMiddleware.RequirePermission("products.update"), r.productController.UpdateVariant)
				products.PATCH("/:id/variants/:variantId/quantity", r.authMiddleware.RequirePermission("products.update"), r.productController.UpdateVariantQuantity)
				products.DELETE("/:id/variants/:variantId", r.authMiddleware.RequirePermission("products.update"), r.productController.DeleteVariant)

				products.GET("/:id/tags", r.authMiddleware.RequirePermission("products.read"), r.tagController.ProductTags)
				products.PUT("/:id/tags", r.authMiddleware.RequirePermission("products.update"), r.tagController.AssignTags)
				products.DELETE("/:id/tags/:tagId", r.authMiddleware.RequirePermission("products.update"), r.tagController.RemoveTag)
			}

			tags := admin.Group("/tags")
			{
				tags.GET("", r.authMiddleware.RequirePermission("products.read"), r.tagController.List)
				tags.GET("/simple", r.authMiddleware.RequirePermission("products.read"), r.tagController.Simple)
				tags.GET("/stats", r.authMiddleware.RequirePermission("products.read"), r.tagController.Stats)
				tags.GET("/:id", r.authMiddleware.RequirePermission("products.read"), r.tagController.Get)
				tags.POST("", r.authMiddleware.RequirePermission("products.create"), r.tagController.Create)
				tags.PUT("/:id", r.authMiddleware.RequirePermission("products.update"), r.tagController.Update)
				tags.DELETE("/:id", r.authMiddleware.RequirePermission("products.delete"), r.tagController.Delete)
				tags.POST("/:id/restore", r.authMiddleware.RequirePermission("products.delete"), r.tagController.Restore)
				tags.POST("/bulk-delete", r.authMiddleware.RequirePermission("products.delete"), r.tagController.BulkDelete)
			}

			media := admin.Group("/media")
			{
				media.GET("", r.mediaController.List)
				media.GET("/stats", r.mediaController.Stats)
				media.GET("/:id", r.mediaController.Get)
				media.POST("", r.mediaController.Upload)
				media.POST("/presign", r.mediaController.Presign)
				media.PUT("/:id", r.mediaController.Update)
				media.DELETE("/:id", r.mediaController.Delete)
				media.POST("/bulk-delete", r.mediaController.BulkDelete)
			}
		}
	}

	return router
}
