package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"scm_dev_v1_202608/internal/controller"
	"scm_dev_v1_202608/internal/middleware"
	"scm_dev_v1_202608/internal/model"
)

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine,
	excelCtl *controller.ExcelController,
	productCtl *controller.ProductController,
	categoryCtl *controller.CategoryController,
	quoteCtl *controller.QuoteController,
	authCtl *controller.AuthController,
	adminCtl *controller.AdminController,
	notificationCtl *controller.NotificationController) {
	// 1. Swagger 文档路由
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 2. API 路由组
	api := r.Group("/api")
	{
		// auth 鉴权组
		auth := api.Group("/auth")
		{
			auth.POST("/register", authCtl.Register)
			auth.POST("/login", authCtl.Login)
			auth.POST("/refresh", authCtl.Refresh)
			auth.GET("/me", middleware.JWTAuth(), authCtl.Profile)
		}

		// 公开查询
		products := api.Group("/products")
		{
			products.GET("", productCtl.List)
			products.GET("/filters", productCtl.FilterOptions)
			products.GET("/image-proxy", productCtl.ImageProxy)
			products.GET("/:id", productCtl.Get)
		}
		api.GET("/categories", categoryCtl.List)
		api.GET("/notifications", notificationCtl.List)

		// 商品/分类管理（管理员）
		adminProducts := api.Group("/products", middleware.JWTAuth(), middleware.RequireRole(model.RoleAdmin))
		{
			adminProducts.POST("", productCtl.Create)
			adminProducts.PUT("/:id", productCtl.Update)
			adminProducts.PATCH("/:id/availability", productCtl.ToggleAvailability)
			adminProducts.PATCH("/:id/display-order", productCtl.SetDisplayOrder)
			adminProducts.PATCH("/:id/new-status", productCtl.SetNewStatus)
			adminProducts.DELETE("/recent", productCtl.DeleteRecent)
			adminProducts.DELETE("/range", productCtl.DeleteRange)
			adminProducts.DELETE("/:id", productCtl.Delete)
		}
		adminCategories := api.Group("/categories", middleware.JWTAuth(), middleware.RequireRole(model.RoleAdmin))
		{
			adminCategories.POST("", categoryCtl.Create)
			adminCategories.PUT("/:id", categoryCtl.Update)
			adminCategories.DELETE("/:id", categoryCtl.Delete)
		}

		// excel 导入导出 + 数据修复（管理员）
		excel := api.Group("/excel", middleware.JWTAuth(), middleware.RequireRole(model.RoleAdmin))
		{
			excel.POST("/upload", excelCtl.Upload)
			excel.GET("/export", excelCtl.Export)
			excel.POST("/swap-prices", excelCtl.SwapPrices)
			excel.POST("/sync-prices", excelCtl.SyncPrices)
			excel.POST("/sync-shipping", excelCtl.SyncShipping)
			excel.POST("/fix-shipping-units", excelCtl.FixShippingUnits)
			excel.POST("/fix-data", excelCtl.FixData)
			excel.POST("/reset-sequence", excelCtl.ResetSequence)
		}

		// 购物车与报价单（已审批会员）
		cart := api.Group("/cart", middleware.JWTAuth(), middleware.RequireApproved())
		{
			cart.GET("", quoteCtl.CartList)
			cart.POST("", quoteCtl.CartAdd)
			cart.PUT("", quoteCtl.CartUpdate)
			cart.DELETE("", quoteCtl.CartClear)
			cart.DELETE("/:product_id", quoteCtl.CartRemove)
		}
		quotes := api.Group("/quotes", middleware.JWTAuth(), middleware.RequireApproved())
		{
			quotes.POST("", quoteCtl.Create)
			quotes.GET("", quoteCtl.MyQuotes)
			quotes.GET("/:id", quoteCtl.Get)
			quotes.POST("/:id/cancel", quoteCtl.Cancel)
		}

		// admin 管理组
		admin := api.Group("/admin", middleware.JWTAuth(), middleware.RequireRole(model.RoleAdmin))
		{
			admin.GET("/stats", adminCtl.Stats)
			admin.GET("/members", adminCtl.ListMembers)
			admin.PATCH("/members/:id/approval", adminCtl.SetApproval)
			admin.PATCH("/members/:id/password", adminCtl.ResetPassword)
			admin.DELETE("/members/:id", adminCtl.DeleteMember)

			admin.GET("/quotes", quoteCtl.AdminList)
			admin.PATCH("/quotes/:id/status", quoteCtl.UpdateStatus)
			admin.PATCH("/quotes/:id/shipping", quoteCtl.SetShipping)

			admin.POST("/notifications", notificationCtl.Create)
			admin.PUT("/notifications/:id", notificationCtl.Update)
			admin.DELETE("/notifications/:id", notificationCtl.Delete)
		}
	}
}
