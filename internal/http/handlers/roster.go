package handlers

import (
	"errors"
	"net/http"

	"github.com/WooDaeYoon/dahandinworld/internal/dahandin"
	"github.com/WooDaeYoon/dahandinworld/internal/domain"

	"github.com/gin-gonic/gin"
)

type rosterEntry struct {
	Code     string `json:"code"`
	Number   int    `json:"number"`
	Name     string `json:"name"`
	Level    int    `json:"level"`
	Earned   int64  `json:"earned"`
	Lifetime int64  `json:"lifetime"`
}

// Roster returns the class roster from the points service, with the shop
// level derived from each student's lifetime total.
func (h *Handler) Roster(c *gin.Context) {
	apiKey, err := h.Auth.APIKeyFor(c.Request.Context(), session(c))
	if err != nil {
		fail(c, http.StatusBadGateway, "no api key for this class", "")
		return
	}

	students, err := h.Dahandin.GetStudentList(c.Request.Context(), apiKey)
	if err != nil {
		failUpstream(c, err)
		return
	}

	entries := make([]rosterEntry, 0, len(students))
	for _, st := range students {
		entries = append(entries, rosterEntry{
			Code:     st.Code,
			Number:   st.Number,
			Name:     st.Name,
			Level:    domain.Level(st.EarnedLifetime()),
			Earned:   st.EarnedTotal(),
			Lifetime: st.EarnedLifetime(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"students": entries})
}

// ClassList returns the classes visible to the teacher's API key.
func (h *Handler) ClassList(c *gin.Context) {
	apiKey, err := h.Auth.APIKeyFor(c.Request.Context(), session(c))
	if err != nil {
		fail(c, http.StatusBadGateway, "no api key for this class", "")
		return
	}

	classes, err := h.Dahandin.GetClassList(c.Request.Context(), apiKey)
	if err != nil {
		failUpstream(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"classes": classes})
}

func failUpstream(c *gin.Context, err error) {
	var upstream *dahandin.ErrUpstream
	if errors.As(err, &upstream) {
		fail(c, http.StatusBadGateway, "points service rejected the request", upstream.Error())
		return
	}
	fail(c, http.StatusBadGateway, "points service unavailable", "")
}
