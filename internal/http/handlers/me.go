package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/WooDaeYoon/dahandinworld/internal/domain"
	"github.com/WooDaeYoon/dahandinworld/internal/service"

	"github.com/gin-gonic/gin"
)

// Me returns the student's profile: balance, level, equipped avatar and
// badges, all assembled from the points service and the local store.
func (h *Handler) Me(c *gin.Context) {
	sess := session(c)
	ctx := c.Request.Context()
	scope := sessionScope(c)

	total, err := h.studentTotal(c)
	if err != nil {
		fail(c, http.StatusBadGateway, "points service unavailable", "")
		return
	}

	balance, err := h.Ledger.Balance(ctx, scope, sess.StudentCode, total.EarnedTotal())
	if err != nil {
		fail(c, http.StatusInternalServerError, "could not load balance", "")
		return
	}

	equipped, err := h.Students.Equipped(ctx, scope, sess.StudentCode)
	if err != nil {
		fail(c, http.StatusInternalServerError, "could not load avatar", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":     total.Code,
		"name":     total.Name,
		"level":    domain.Level(total.EarnedLifetime()),
		"balance":  balance,
		"equipped": equipped,
		"badges":   total.Badges,
	})
}

// Inventory returns everything the student owns, most recent first.
func (h *Handler) Inventory(c *gin.Context) {
	sess := session(c)

	entries, err := h.Shop.Inventory(c.Request.Context(), sessionScope(c), sess.StudentCode)
	if err != nil {
		fail(c, http.StatusInternalServerError, "could not load inventory", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"inventory": entries})
}

// History returns the student's spend log, newest first.
func (h *Handler) History(c *gin.Context) {
	sess := session(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	entries, err := h.Ledger.History(c.Request.Context(), sessionScope(c), sess.StudentCode, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, "could not load history", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

type equipRequest struct {
	ItemID string `json:"item_id" binding:"required"`
}

// Equip puts an owned item into its avatar slot, replacing whatever was
// there.
func (h *Handler) Equip(c *gin.Context) {
	var req equipRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad request", err.Error())
		return
	}

	sess := session(c)
	equipped, err := h.Shop.Equip(c.Request.Context(), sessionScope(c), sess.StudentCode, req.ItemID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotOwned):
			fail(c, http.StatusBadRequest, "item not in inventory", "")
		case errors.Is(err, service.ErrNotEquippable):
			fail(c, http.StatusBadRequest, "item cannot be equipped", "")
		default:
			fail(c, http.StatusInternalServerError, "could not equip item", "")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"equipped": equipped})
}

// Unequip clears one avatar slot.
func (h *Handler) Unequip(c *gin.Context) {
	sess := session(c)
	category := domain.ItemCategory(c.Param("category"))

	equipped, err := h.Shop.Unequip(c.Request.Context(), sessionScope(c), sess.StudentCode, category)
	if err != nil {
		if errors.Is(err, service.ErrNotEquippable) {
			fail(c, http.StatusBadRequest, "unknown category", "")
			return
		}
		fail(c, http.StatusInternalServerError, "could not unequip", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"equipped": equipped})
}
