package handlers

import (
	"github.com/WooDaeYoon/dahandinworld/internal/classpath"
	"github.com/WooDaeYoon/dahandinworld/internal/config"
	"github.com/WooDaeYoon/dahandinworld/internal/dahandin"
	"github.com/WooDaeYoon/dahandinworld/internal/domain"
	"github.com/WooDaeYoon/dahandinworld/internal/http/middleware"
	"github.com/WooDaeYoon/dahandinworld/internal/repository"
	"github.com/WooDaeYoon/dahandinworld/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB       *pgxpool.Pool
	Cfg      *config.Config
	Dahandin *dahandin.Client

	Shop   *service.ShopService
	Auth   *service.AuthService
	Ledger *service.LedgerService
	Audit  *service.AuditService

	Items    *repository.ItemRepository
	Students *repository.StudentRepository
	Classes  *repository.ClassRepository
	Squares  *repository.SquareRepository
}

func NewHandler(db *pgxpool.Pool, client *dahandin.Client, cfg *config.Config) *Handler {
	return &Handler{
		DB:       db,
		Cfg:      cfg,
		Dahandin: client,
		Shop:     service.NewShopService(db),
		Auth:     service.NewAuthService(db, client, cfg.AdminIDs),
		Ledger:   service.NewLedgerService(db),
		Audit:    service.NewAuditService(db),
		Items:    repository.NewItemRepository(db),
		Students: repository.NewStudentRepository(db),
		Classes:  repository.NewClassRepository(db),
		Squares:  repository.NewSquareRepository(db),
	}
}

// session returns the session placed in the context by the auth middleware.
func session(c *gin.Context) *domain.Session {
	return middleware.SessionFrom(c)
}

// sessionScope returns the class partition the current session works in.
func sessionScope(c *gin.Context) classpath.Scope {
	s := session(c)
	if s == nil {
		return ""
	}
	return classpath.Scope(s.Scope)
}

// fail writes the standard error body. details is optional.
func fail(c *gin.Context, status int, msg, details string) {
	body := gin.H{"error": msg}
	if details != "" {
		body["details"] = details
	}
	c.AbortWithStatusJSON(status, body)
}
