package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/excellent-grade/gradetest-api/internal/domain/entity"
	"github.com/excellent-grade/gradetest-api/internal/handler/dto"
	"github.com/excellent-grade/gradetest-api/internal/handler/helper"
	"github.com/excellent-grade/gradetest-api/internal/middleware"
	"github.com/excellent-grade/gradetest-api/internal/service"
)

// ResultHandler handles quiz attempt requests.
type ResultHandler struct {
	resultService *service.ResultService
}

// NewResultHandler creates a new result handler.
func NewResultHandler(resultService *service.ResultService) *ResultHandler {
	return &ResultHandler{resultService: resultService}
}

// StartResultRequest is the body that starts a new attempt.
type StartResultRequest struct {
	GradeID uint `json:"gradeId" binding:"required"`
}

// FinishResultRequest is the finish submission body. Answers maps question
// ids to the selected option ids.
type FinishResultRequest struct {
	Answers        map[uint]uint `json:"answers" binding:"required"`
	StartedAt      time.Time     `json:"started_at"`
	FinishedAt     time.Time     `json:"finished_at"`
	IdempotencyKey string        `json:"idempotency_key" binding:"omitempty,uuid"`
}

// requester builds the acting user from auth middleware context values.
func requester(c *gin.Context) *entity.User {
	return &entity.User{
		ID:   c.GetUint(middleware.ContextUserID),
		Role: c.GetString(middleware.ContextRole),
	}
}

// StartResult handles POST /results.
func (h *ResultHandler) StartResult(c *gin.Context) {
	var req StartResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.Message(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.resultService.StartResult(c.GetUint(middleware.ContextUserID), req.GradeID)
	if err != nil {
		helper.Error(c, err)
		return
	}
	helper.Data(c, http.StatusCreated, dto.NewResultResponse(result))
}

// GetResult handles GET /results/:id.
func (h *ResultHandler) GetResult(c *gin.Context) {
	result, err := h.resultService.GetResult(c.GetUint("resultID"), requester(c))
	if err != nil {
		helper.Error(c, err)
		return
	}
	helper.Data(c, http.StatusOK, dto.NewResultResponse(result))
}

// FinishResult handles POST /results/:id/finish.
func (h *ResultHandler) FinishResult(c *gin.Context) {
	var req FinishResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.Message(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.resultService.FinishResult(
		c.GetUint("resultID"),
		c.GetUint(middleware.ContextUserID),
		service.FinishInput{
			Answers:        req.Answers,
			StartedAt:      req.StartedAt,
			FinishedAt:     req.FinishedAt,
			IdempotencyKey: req.IdempotencyKey,
		},
	)
	if err != nil {
		helper.Error(c, err)
		return
	}
	helper.Data(c, http.StatusOK, dto.NewResultResponse(result))
}

// ListResults handles GET /results. It returns the caller's attempts, or
// another user's when an admin passes userId.
func (h *ResultHandler) ListResults(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	userID := c.GetUint(middleware.ContextUserID)
	if raw := c.Query("userId"); raw != "" {
		parsed, parseErr := strconv.ParseUint(raw, 10, 32)
		if parseErr != nil {
			helper.Message(c, http.StatusBadRequest, "Invalid userId")
			return
		}
		userID = uint(parsed)
	}

	results, err := h.resultService.GetUserResults(userID, requester(c), limit, offset)
	if err != nil {
		helper.Error(c, err)
		return
	}
	helper.Data(c, http.StatusOK, dto.NewResultListResponse(results))
}

// ListGradeResults handles GET /grades/:id/results for admins, ordered by
// score then time.
func (h *ResultHandler) ListGradeResults(c *gin.Context) {
	results, err := h.resultService.GetGradeResults(c.GetUint("gradeID"))
	if err != nil {
		helper.Error(c, err)
		return
	}
	helper.Data(c, http.StatusOK, dto.NewResultListResponse(results))
}

// ExportGradeResults handles GET /results/export?gradeId=&format=csv|xlsx.
func (h *ResultHandler) ExportGradeResults(c *gin.Context) {
	rawGradeID, err := strconv.ParseUint(c.Query("gradeId"), 10, 32)
	if err != nil || rawGradeID == 0 {
		helper.Message(c, http.StatusBadRequest, "gradeId query parameter is required")
		return
	}
	gradeID := uint(rawGradeID)
	format := c.DefaultQuery("format", "csv")

	results, err := h.resultService.GetGradeResults(gradeID)
	if err != nil {
		helper.Error(c, err)
		return
	}

	headers := []string{"Rank", "Name", "Surname", "Phone", "Score", "Time (sec)", "Finished at"}
	rows := make([][]string, 0, len(results))
	for i := range results {
		rows = append(rows, resultExportRow(i+1, &results[i]))
	}

	filename := fmt.Sprintf("grade_%d_results_%s", gradeID, time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		writeXLSX(c, "Results", filename, headers, rows)
	default:
		writeCSV(c, filename, headers, rows)
	}
}

func resultExportRow(rank int, r *entity.Result) []string {
	name, surname, phone := "", "", ""
	if r.User != nil {
		name = sanitizeForExcel(r.User.Name)
		surname = sanitizeForExcel(r.User.Surname)
		phone = sanitizeForExcel(r.User.Phone)
	}
	finishedAt := ""
	if r.FinishedAt != nil {
		finishedAt = r.FinishedAt.Format(time.RFC3339)
	}
	return []string{
		strconv.Itoa(rank),
		name,
		surname,
		phone,
		strconv.Itoa(r.Score),
		strconv.Itoa(r.TimeSec),
		finishedAt,
	}
}
