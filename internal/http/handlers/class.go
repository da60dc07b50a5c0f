package handlers

import (
	"net/http"
	"strconv"

	"github.com/WooDaeYoon/dahandinworld/internal/domain"

	"github.com/gin-gonic/gin"
)

// ClassState returns the class donation thermometer. Student sessions also
// get their own contribution.
func (h *Handler) ClassState(c *gin.Context) {
	ctx := c.Request.Context()
	scope := sessionScope(c)

	degrees, err := h.Classes.LoveTemperature(ctx, scope)
	if err != nil {
		fail(c, http.StatusInternalServerError, "could not load class state", "")
		return
	}

	body := gin.H{"love_temperature": degrees}
	if sess := session(c); sess.Role == domain.RoleStudent {
		body["my_donated"] = h.Ledger.DonatedTotal(ctx, scope, sess.StudentCode)
	}
	c.JSON(http.StatusOK, body)
}

// SquareSnapshot returns the current square state over REST, for clients
// that render once before opening the websocket.
func (h *Handler) SquareSnapshot(c *gin.Context) {
	ctx := c.Request.Context()
	scope := sessionScope(c)

	participants, err := h.Squares.Participants(ctx, scope)
	if err != nil {
		fail(c, http.StatusInternalServerError, "could not load square", "")
		return
	}
	messages, err := h.Squares.RecentMessages(ctx, scope, domain.ChatHistoryLimit)
	if err != nil {
		fail(c, http.StatusInternalServerError, "could not load chat", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"participants": participants,
		"messages":     messages,
	})
}

// AuditLog returns recent catalog changes for the teacher's class.
func (h *Handler) AuditLog(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	entries, err := h.Audit.Recent(c.Request.Context(), sessionScope(c), limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, "could not load audit log", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
