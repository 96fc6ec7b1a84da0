package api

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/academy_server/config"
	"github.com/qs3c/academy_server/internal/api/handler"
	"github.com/qs3c/academy_server/internal/api/middleware"
)

type Router struct {
	authHandler      *handler.AuthHandler
	packageHandler   *handler.PackageHandler
	studentHandler   *handler.StudentHandler
	paymentHandler   *handler.PaymentHandler
	newsHandler      *handler.NewsHandler
	dashboardHandler *handler.DashboardHandler
	exportHandler    *handler.ExportHandler
	websocketHandler *handler.WebSocketHandler
	cfg              *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	packageHandler *handler.PackageHandler,
	studentHandler *handler.StudentHandler,
	paymentHandler *handler.PaymentHandler,
	newsHandler *handler.NewsHandler,
	dashboardHandler *handler.DashboardHandler,
	exportHandler *handler.ExportHandler,
	websocketHandler *handler.WebSocketHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:      authHandler,
		packageHandler:   packageHandler,
		studentHandler:   studentHandler,
		paymentHandler:   paymentHandler,
		newsHandler:      newsHandler,
		dashboardHandler: dashboardHandler,
		exportHandler:    exportHandler,
		websocketHandler: websocketHandler,
		cfg:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// WebSocket
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口
		api.POST("/auth/login", r.authHandler.Login)
		api.GET("/packages", r.packageHandler.List)
		api.POST("/register", r.studentHandler.Register)
		api.GET("/news/feed", r.newsHandler.Feed)
		api.GET("/news/breaking", r.newsHandler.Breaking)

		// 管理端接口
		admin := api.Group("")
		admin.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			students := admin.Group("/students")
			{
				students.GET("", r.studentHandler.List)
				students.POST("", r.studentHandler.Create)
				students.GET("/:id", r.studentHandler.Get)
				students.PUT("/:id", r.studentHandler.Update)
				students.DELETE("/:id", r.studentHandler.Delete)
				students.GET("/:id/classification", r.studentHandler.Classification)
			}

			payments := admin.Group("/payments")
			{
				payments.GET("", r.paymentHandler.List)
				payments.POST("", r.paymentHandler.Create)
				payments.GET("/:id", r.paymentHandler.Get)
				payments.DELETE("/:id", r.paymentHandler.Delete)
			}

			news := admin.Group("/news")
			{
				news.GET("", r.newsHandler.List)
				news.POST("", r.newsHandler.Create)
				news.GET("/:id", r.newsHandler.Get)
				news.PUT("/:id", r.newsHandler.Update)
				news.DELETE("/:id", r.newsHandler.Delete)
				news.POST("/:id/image", r.newsHandler.UploadImage)
			}

			admin.GET("/dashboard/summary", r.dashboardHandler.Summary)

			exports := admin.Group("/exports")
			{
				exports.GET("/ledger", r.exportHandler.Ledger)
				exports.POST("", r.exportHandler.Create)
				exports.GET("/:id", r.exportHandler.Get)
			}
		}
	}

	return engine
}
