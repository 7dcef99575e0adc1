package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/excellent-grade/gradetest-api/internal/handler/helper"
	"github.com/excellent-grade/gradetest-api/internal/service"
)

// CatalogHandler handles subject and grade requests.
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// SubjectRequest is the subject create/update body.
type SubjectRequest struct {
	Title string `json:"title" binding:"required,min=1,max=200"`
}

// GradeRequest is the grade create/update body.
type GradeRequest struct {
	Title         string `json:"title" binding:"required,min=1,max=200"`
	SubjectID     uint   `json:"subjectId" binding:"required"`
	TimeMinutes   int    `json:"time" binding:"min=0"`
	QuestionCount int    `json:"questionCount" binding:"required,min=1"`
	IsActive      *bool  `json:"is_active"`
}

// ListSubjects handles GET /subjects. An optional search query filters by
// title.
func (h *CatalogHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.catalogService.GetSubjects(c.Query("search"))
	if err != nil {
		helper.Error(c, err)
		return
	}
	helper.Data(c, http.StatusOK, subjects)
}

// GetSubject handles GET /subjects/:id.
func (h *CatalogHandler) GetSubject(c *gin.Context) {
	subject, err := h.catalogService.GetSubject(c.GetUint("subjectID"))
	if err != nil {
		helper.Error(c, err)
		return
	}
	helper.Data(c, http.StatusOK, subject)
}

// CreateSubject handles POST /subjects.
func (h *CatalogHandler) CreateSubject(c *gin.Context) {
	var req SubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.Message(c, http.StatusBadRequest, err.Error())
		return
	}

	subject, err := h.catalogService.CreateSubject(req.Title)
	if err != nil {
		helper.Error(c, err)
		return
	}
	helper.Data(c, http.StatusCreated, subject)
}

// UpdateSubject handles PUT /subjects/:id.
func (h *CatalogHandler) UpdateSubject(c *gin.Context) {
	var req SubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.Message(c, http.StatusBadRequest, err.Error())
		return
	}

	subject, err := h.catalogService.UpdateSubject(c.GetUint("subjectID"), req.Title)
	if err != nil {
		helper.Error(c, err)
		return
	}
	helper.Data(c, http.StatusOK, subject)
}

// DeleteSubject handles DELETE /subjects/:id.
func (h *CatalogHandler) DeleteSubject(c *gin.Context) {
	if err := h.catalogService.DeleteSubject(c.GetUint("subjectID")); err != nil {
		helper.Error(c, err)
		return
	}
	helper.Message(c, http.StatusOK, "subject deleted")
}

// ListGrades handles GET /grades. An optional subjectId query narrows the
// listing to one subject.
func (h *CatalogHandler) ListGrades(c *gin.Context) {
	var subjectID uint
	if raw := c.Query("subjectId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			helper.Message(c, http.StatusBadRequest, "Invalid subjectId")
			return
		}
		subjectID = uint(parsed)
	}

	grades, err := h.catalogService.GetGrades(subjectID)
	if err != nil {
		helper.Error(c, err)
		return
	}
	helper.Data(c, http.StatusOK, grades)
}

// GetGrade handles GET /grades/:id.
func (h *CatalogHandler) GetGrade(c *gin.Context) {
	grade, err := h.catalogService.GetGrade(c.GetUint("gradeID"))
	if err != nil {
		helper.Error(c, err)
		return
	}
	helper.Data(c, http.StatusOK, grade)
}

// CreateGrade handles POST /grades.
func (h *CatalogHandler) CreateGrade(c *gin.Context) {
	var req GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.Message(c, http.StatusBadRequest, err.Error())
		return
	}

	grade, err := h.catalogService.CreateGrade(service.GradeInput{
		Title:         req.Title,
		SubjectID:     req.SubjectID,
		TimeMinutes:   req.TimeMinutes,
		QuestionCount: req.QuestionCount,
		IsActive:      req.IsActive,
	})
	if err != nil {
		helper.Error(c, err)
		return
	}
	helper.Data(c, http.StatusCreated, grade)
}

// UpdateGrade handles PUT /grades/:id.
func (h *CatalogHandler) UpdateGrade(c *gin.Context) {
	var req GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.Message(c, http.StatusBadRequest, err.Error())
		return
	}

	grade, err := h.catalogService.UpdateGrade(c.GetUint("gradeID"), service.GradeInput{
		Title:         req.Title,
		SubjectID:     req.SubjectID,
		TimeMinutes:   req.TimeMinutes,
		QuestionCount: req.QuestionCount,
		IsActive:      req.IsActive,
	})
	if err != nil {
		helper.Error(c, err)
		return
	}
	helper.Data(c, http.StatusOK, grade)
}

// DeleteGrade handles DELETE /grades/:id.
func (h *CatalogHandler) DeleteGrade(c *gin.Context) {
	if err := h.catalogService.DeleteGrade(c.GetUint("gradeID")); err != nil {
		helper.Error(c, err)
		return
	}
	helper.Message(c, http.StatusOK, "grade deleted")
}
