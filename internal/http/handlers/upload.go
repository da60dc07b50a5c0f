package handlers

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/WooDaeYoon/dahandinworld/internal/domain"

	"github.com/gin-gonic/gin"
)

var allowedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// UploadImage stores an item image under a timestamp-prefixed name so two
// uploads of the same file never collide, and returns the public URL.
func (h *Handler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "bad request", "file field required")
		return
	}
	if file.Size > h.Cfg.MaxUploadSize {
		fail(c, http.StatusRequestEntityTooLarge, "file too large",
			"limit is "+strconv.FormatInt(h.Cfg.MaxUploadSize>>20, 10)+"MB")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		fail(c, http.StatusBadRequest, "unsupported file type", "png, jpg, gif or webp only")
		return
	}

	name := uploadFilename(file.Filename, time.Now())
	dst := filepath.Join(h.Cfg.UploadDir, name)

	if err := c.SaveUploadedFile(file, dst); err != nil {
		fail(c, http.StatusInternalServerError, "could not store file", "")
		return
	}

	url := strings.TrimSuffix(h.Cfg.UploadBaseURL, "/") + "/" + name

	sess := session(c)
	h.Audit.Log(c.Request.Context(), sessionScope(c), sess.TeacherID, sess.Role,
		domain.AuditActionImageUpload, map[string]interface{}{"file": name})

	c.JSON(http.StatusCreated, gin.H{"url": url, "filename": name})
}

// uploadFilename prefixes the original name with the upload timestamp so
// re-uploads of the same file never collide. Any path components in the
// client-supplied name are stripped.
func uploadFilename(original string, now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10) + "_" + filepath.Base(original)
}
