package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/WooDaeYoon/dahandinworld/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// DahandinProxy forwards read requests to the points service, injecting
// the class teacher's API key so it never reaches the browser. The
// upstream status code and body pass through untouched.
func (h *Handler) DahandinProxy(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")
	if path == "" {
		fail(c, http.StatusBadRequest, "bad request", "upstream path required")
		return
	}

	apiKey, err := h.Auth.APIKeyFor(c.Request.Context(), session(c))
	if err != nil {
		fail(c, http.StatusBadGateway, "no api key for this class", "")
		return
	}

	status, body, err := h.Dahandin.Forward(c.Request.Context(), apiKey, path, c.Request.URL.RawQuery)
	if err != nil {
		middleware.UpstreamRequests.WithLabelValues("error").Inc()
		fail(c, http.StatusBadGateway, "points service unavailable", "")
		return
	}

	middleware.UpstreamRequests.WithLabelValues(strconv.Itoa(status)).Inc()
	c.Data(status, "application/json", body)
}
