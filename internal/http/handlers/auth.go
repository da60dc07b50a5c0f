package handlers

import (
	"errors"
	"net/http"

	"github.com/WooDaeYoon/dahandinworld/internal/classpath"
	"github.com/WooDaeYoon/dahandinworld/internal/domain"
	"github.com/WooDaeYoon/dahandinworld/internal/service"

	"github.com/gin-gonic/gin"
)

type registerTeacherRequest struct {
	ID          string `json:"id" binding:"required"`
	Password    string `json:"password" binding:"required"`
	APIKey      string `json:"api_key" binding:"required"`
	SchoolName  string `json:"school_name"`
	TeacherName string `json:"teacher_name"`
	ClassName   string `json:"class_name"`
	ClassCode   string `json:"class_code"`
}

func (h *Handler) RegisterTeacher(c *gin.Context) {
	var req registerTeacherRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad request", err.Error())
		return
	}
	if req.ClassCode == "" && (req.SchoolName == "" || req.TeacherName == "" || req.ClassName == "") {
		fail(c, http.StatusBadRequest, "bad request", "either class_code or school/teacher/class names required")
		return
	}

	teacher, err := h.Auth.RegisterTeacher(c.Request.Context(), service.RegisterTeacherRequest{
		ID:          req.ID,
		Password:    req.Password,
		APIKey:      req.APIKey,
		SchoolName:  req.SchoolName,
		TeacherName: req.TeacherName,
		ClassName:   req.ClassName,
		ClassCode:   req.ClassCode,
	})
	if err != nil {
		if errors.Is(err, service.ErrTeacherExists) {
			fail(c, http.StatusConflict, "teacher id already registered", "")
			return
		}
		fail(c, http.StatusInternalServerError, "registration failed", "")
		return
	}

	h.Audit.Log(c.Request.Context(), classpath.Scope(teacher.ClassScope), teacher.ID,
		domain.RoleTeacher, domain.AuditActionTeacherRegister, nil)

	c.JSON(http.StatusCreated, gin.H{"teacher": teacher})
}

type loginTeacherRequest struct {
	ID       string `json:"id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) LoginTeacher(c *gin.Context) {
	var req loginTeacherRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad request", err.Error())
		return
	}

	token, sess, err := h.Auth.LoginTeacher(c.Request.Context(), req.ID, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			fail(c, http.StatusUnauthorized, "invalid credentials", "")
			return
		}
		fail(c, http.StatusInternalServerError, "login failed", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "session": sess})
}

type loginStudentRequest struct {
	ClassCode   string `json:"class_code" binding:"required"`
	StudentCode string `json:"student_code" binding:"required"`
}

func (h *Handler) LoginStudent(c *gin.Context) {
	var req loginStudentRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad request", err.Error())
		return
	}

	token, sess, total, err := h.Auth.LoginStudent(c.Request.Context(), req.ClassCode, req.StudentCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClassNotFound):
			fail(c, http.StatusNotFound, "class not found", "no teacher registered for this class code")
		case errors.Is(err, service.ErrStudentNotInClass):
			fail(c, http.StatusNotFound, "student not found", "student code not in this class roster")
		default:
			fail(c, http.StatusBadGateway, "login failed", "points service unavailable")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"session": sess,
		"student": gin.H{
			"code":  total.Code,
			"name":  total.Name,
			"level": domain.Level(total.EarnedLifetime()),
		},
	})
}
