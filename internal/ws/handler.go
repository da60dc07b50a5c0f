package ws

import (
	"net/http"

	"github.com/WooDaeYoon/dahandinworld/internal/classpath"
	"github.com/WooDaeYoon/dahandinworld/internal/domain"
	"github.com/WooDaeYoon/dahandinworld/internal/logger"
	"github.com/WooDaeYoon/dahandinworld/internal/repository"
	"github.com/WooDaeYoon/dahandinworld/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// HandleWS upgrades a square connection. Browsers cannot set headers on
// websocket requests, so the session token travels as a query parameter.
func HandleWS(hub *Hub, students *repository.StudentRepository, allowedOrigin string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		session, err := service.ParseSessionToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if session.Role != domain.RoleStudent {
			c.JSON(http.StatusForbidden, gin.H{"error": "squares are for students"})
			return
		}

		scope := classpath.Scope(session.Scope)
		avatar, err := students.Equipped(c.Request.Context(), scope, session.StudentCode)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load avatar"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade failed", "error", err)
			return
		}

		client := NewClient(scope, session.StudentCode, session.StudentName, avatar, conn, hub)
		go client.Run()
	}
}
