package http

import (
	"github.com/WooDaeYoon/dahandinworld/internal/config"
	"github.com/WooDaeYoon/dahandinworld/internal/dahandin"
	"github.com/WooDaeYoon/dahandinworld/internal/domain"
	"github.com/WooDaeYoon/dahandinworld/internal/http/handlers"
	"github.com/WooDaeYoon/dahandinworld/internal/http/middleware"
	"github.com/WooDaeYoon/dahandinworld/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, client *dahandin.Client, cfg *config.Config, version string) {
	h := handlers.NewHandler(db, client, cfg)
	healthHandler := handlers.NewHealthHandler(db, version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	api := r.Group("/api/v1")
	api.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))

	// Auth, rate limited harder than the rest of the API
	authRL := middleware.RedisRateLimit(cfg.AuthRateLimit, cfg.AuthRateWindow)
	api.POST("/auth/teacher/register", authRL, h.RegisterTeacher)
	api.POST("/auth/teacher/login", authRL, h.LoginTeacher)
	api.POST("/auth/student/login", authRL, h.LoginStudent)

	authed := api.Group("")
	authed.Use(middleware.RequireSession())

	// Catalog: everyone reads, teachers and admins manage
	authed.GET("/items", h.ListItems)
	manage := authed.Group("")
	manage.Use(middleware.RequireRole(domain.RoleTeacher))
	{
		manage.POST("/items", h.CreateItem)
		manage.PUT("/items/:id", h.UpdateItem)
		manage.DELETE("/items/:id", h.DeleteItem)
		manage.POST("/items/:id/hide", h.HideGlobalItem)
		manage.DELETE("/items/:id/hide", h.UnhideGlobalItem)
		manage.POST("/upload", h.UploadImage)
		manage.GET("/audit", h.AuditLog)
		manage.GET("/roster", h.Roster)
		manage.GET("/classes", h.ClassList)
	}

	// Spending (students only, per-student rate limited)
	spendRL := middleware.SpendRateLimit(cfg.SpendRateLimit, cfg.SpendRateWindow)
	student := authed.Group("")
	student.Use(middleware.RequireRole(domain.RoleStudent))
	{
		student.POST("/shop/purchase", spendRL, h.Purchase)
		student.POST("/shop/donate", spendRL, h.Donate)
		student.GET("/me", h.Me)
		student.GET("/me/inventory", h.Inventory)
		student.GET("/me/history", h.History)
		student.POST("/me/equip", h.Equip)
		student.DELETE("/me/equip/:category", h.Unequip)
	}

	// Class-wide reads for any session
	authed.GET("/class", h.ClassState)
	authed.GET("/square", h.SquareSnapshot)

	// Points service proxy, key injected server-side
	authed.GET("/proxy/*path", h.DahandinProxy)

	// WebSocket square
	hub := ws.NewHub(h.Squares)
	hub.StartCleanup()
	r.GET("/ws/square", ws.HandleWS(hub, h.Students, cfg.AllowedOrigin))

	// Uploaded item images
	r.Static(cfg.UploadBaseURL, cfg.UploadDir)
}
