package handlers

import (
	"net/http"

	"github.com/WooDaeYoon/dahandinworld/internal/classpath"
	"github.com/WooDaeYoon/dahandinworld/internal/domain"

	"github.com/gin-gonic/gin"
)

type itemRequest struct {
	Name          string            `json:"name" binding:"required"`
	Price         int64             `json:"price"`
	ImageURL      string            `json:"image_url"`
	Description   string            `json:"description"`
	Category      string            `json:"category" binding:"required"`
	IsDonation    bool              `json:"is_donation"`
	RequiredLevel int               `json:"required_level"`
	RequiredBadge string            `json:"required_badge"`
	Style         *domain.ItemStyle `json:"style"`
}

func (r *itemRequest) toItem() (*domain.ShopItem, bool) {
	category := domain.ItemCategory(r.Category)
	if !category.Valid() || r.Price < 0 {
		return nil, false
	}
	return &domain.ShopItem{
		Name:          r.Name,
		Price:         r.Price,
		ImageURL:      r.ImageURL,
		Description:   r.Description,
		Category:      category,
		IsDonation:    r.IsDonation,
		RequiredLevel: r.RequiredLevel,
		RequiredBadge: r.RequiredBadge,
		Style:         r.Style,
	}, true
}

// ListItems returns the merged catalog for the session's scope. Teachers
// also see hidden global items so they can unhide them.
func (h *Handler) ListItems(c *gin.Context) {
	sess := session(c)
	includeHidden := sess.Role != domain.RoleStudent

	items, err := h.Shop.Catalog(c.Request.Context(), sessionScope(c), includeHidden)
	if err != nil {
		fail(c, http.StatusInternalServerError, "could not load catalog", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) CreateItem(c *gin.Context) {
	var req itemRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad request", err.Error())
		return
	}
	item, ok := req.toItem()
	if !ok {
		fail(c, http.StatusBadRequest, "bad request", "unknown category or negative price")
		return
	}

	scope := sessionScope(c)
	if err := h.Items.Create(c.Request.Context(), scope, item); err != nil {
		fail(c, http.StatusInternalServerError, "could not create item", "")
		return
	}

	sess := session(c)
	h.Audit.Log(c.Request.Context(), scope, sess.TeacherID, sess.Role,
		domain.AuditActionItemCreate, map[string]interface{}{"item_id": item.ID, "name": item.Name})

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (h *Handler) UpdateItem(c *gin.Context) {
	var req itemRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad request", err.Error())
		return
	}
	item, ok := req.toItem()
	if !ok {
		fail(c, http.StatusBadRequest, "bad request", "unknown category or negative price")
		return
	}
	item.ID = c.Param("id")

	scope := sessionScope(c)
	existing, err := h.Items.GetByID(c.Request.Context(), scope, item.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "could not load item", "")
		return
	}
	if existing == nil {
		fail(c, http.StatusNotFound, "item not found", "items can only be edited by their owning scope")
		return
	}

	if err := h.Items.Update(c.Request.Context(), scope, item); err != nil {
		fail(c, http.StatusInternalServerError, "could not update item", "")
		return
	}

	sess := session(c)
	h.Audit.Log(c.Request.Context(), scope, sess.TeacherID, sess.Role,
		domain.AuditActionItemUpdate, map[string]interface{}{"item_id": item.ID})

	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (h *Handler) DeleteItem(c *gin.Context) {
	id := c.Param("id")
	scope := sessionScope(c)

	existing, err := h.Items.GetByID(c.Request.Context(), scope, id)
	if err != nil {
		fail(c, http.StatusInternalServerError, "could not load item", "")
		return
	}
	if existing == nil {
		fail(c, http.StatusNotFound, "item not found", "items can only be deleted by their owning scope")
		return
	}

	if err := h.Items.Delete(c.Request.Context(), scope, id); err != nil {
		fail(c, http.StatusInternalServerError, "could not delete item", "")
		return
	}

	sess := session(c)
	h.Audit.Log(c.Request.Context(), scope, sess.TeacherID, sess.Role,
		domain.AuditActionItemDelete, map[string]interface{}{"item_id": id})

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// HideGlobalItem removes one platform item from this class's shop without
// touching the item itself. UnhideGlobalItem reverses it.
func (h *Handler) HideGlobalItem(c *gin.Context) {
	h.setGlobalItemHidden(c, true)
}

func (h *Handler) UnhideGlobalItem(c *gin.Context) {
	h.setGlobalItemHidden(c, false)
}

func (h *Handler) setGlobalItemHidden(c *gin.Context, hidden bool) {
	id := c.Param("id")
	scope := sessionScope(c)
	if scope.IsGlobal() {
		fail(c, http.StatusBadRequest, "bad request", "the global scope has nothing to hide from")
		return
	}

	item, err := h.Items.GetByID(c.Request.Context(), classpath.GlobalScope, id)
	if err != nil {
		fail(c, http.StatusInternalServerError, "could not load item", "")
		return
	}
	if item == nil {
		fail(c, http.StatusNotFound, "item not found", "only platform items can be hidden per class")
		return
	}

	action := domain.AuditActionItemHide
	if hidden {
		err = h.Items.HideGlobalItem(c.Request.Context(), scope, id)
	} else {
		err = h.Items.UnhideGlobalItem(c.Request.Context(), scope, id)
		action = domain.AuditActionItemUnhide
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, "could not update visibility", "")
		return
	}

	sess := session(c)
	h.Audit.Log(c.Request.Context(), scope, sess.TeacherID, sess.Role, action,
		map[string]interface{}{"item_id": id})

	c.JSON(http.StatusOK, gin.H{"item_id": id, "hidden": hidden})
}
