package handlers

import (
	"errors"
	"net/http"

	"github.com/WooDaeYoon/dahandinworld/internal/dahandin"
	"github.com/WooDaeYoon/dahandinworld/internal/domain"
	"github.com/WooDaeYoon/dahandinworld/internal/http/middleware"
	"github.com/WooDaeYoon/dahandinworld/internal/service"

	"github.com/gin-gonic/gin"
)

type spendRequest struct {
	ItemID string `json:"item_id" binding:"required"`
}

// Purchase spends cookies on a shop item and adds it to the inventory.
func (h *Handler) Purchase(c *gin.Context) {
	h.spend(c, domain.KindPurchase)
}

// Donate spends cookies on a donation goal, raising the class thermometer.
func (h *Handler) Donate(c *gin.Context) {
	h.spend(c, domain.KindDonation)
}

func (h *Handler) spend(c *gin.Context, kind domain.LogKind) {
	var req spendRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad request", err.Error())
		return
	}

	sess := session(c)
	ctx := c.Request.Context()

	total, err := h.studentTotal(c)
	if err != nil {
		middleware.ShopSpendFailures.WithLabelValues("upstream").Inc()
		fail(c, http.StatusBadGateway, "points service unavailable", "")
		return
	}

	var entry *domain.CookieLogEntry
	if kind == domain.KindDonation {
		entry, err = h.Shop.Donate(ctx, sessionScope(c), sess.StudentCode, req.ItemID, total)
	} else {
		entry, err = h.Shop.Purchase(ctx, sessionScope(c), sess.StudentCode, req.ItemID, total)
	}
	if err != nil {
		status, msg, reason := spendError(err)
		middleware.ShopSpendFailures.WithLabelValues(reason).Inc()
		fail(c, status, msg, "")
		return
	}

	middleware.ShopSpends.WithLabelValues(string(kind)).Inc()

	balance, err := h.Ledger.Balance(ctx, sessionScope(c), sess.StudentCode, total.EarnedTotal())
	if err != nil {
		// the spend already committed; return it without the fresh balance
		c.JSON(http.StatusOK, gin.H{"entry": entry})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry, "balance": balance})
}

// studentTotal fetches the session student's totals from the points
// service using their class teacher's API key.
func (h *Handler) studentTotal(c *gin.Context) (*dahandin.StudentTotal, error) {
	sess := session(c)
	apiKey, err := h.Auth.APIKeyFor(c.Request.Context(), sess)
	if err != nil {
		return nil, err
	}
	return h.Dahandin.GetStudentTotal(c.Request.Context(), apiKey, sess.StudentCode)
}

func spendError(err error) (status int, msg, reason string) {
	switch {
	case errors.Is(err, service.ErrItemNotFound):
		return http.StatusNotFound, "item not found", "not_found"
	case errors.Is(err, service.ErrInsufficientCookies):
		return http.StatusBadRequest, "not enough cookies", "insufficient"
	case errors.Is(err, service.ErrLevelRequired):
		return http.StatusBadRequest, "level requirement not met", "level"
	case errors.Is(err, service.ErrBadgeRequired):
		return http.StatusBadRequest, "badge requirement not met", "badge"
	case errors.Is(err, service.ErrAlreadyOwned):
		return http.StatusConflict, "item already owned", "owned"
	case errors.Is(err, service.ErrDonationItem):
		return http.StatusBadRequest, "donation items cannot be purchased", "kind_mismatch"
	case errors.Is(err, service.ErrNotDonationItem):
		return http.StatusBadRequest, "item is not a donation goal", "kind_mismatch"
	default:
		return http.StatusInternalServerError, "spend failed", "internal"
	}
}
