package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/excellent-grade/gradetest-api/internal/domain/repository"
	"github.com/excellent-grade/gradetest-api/internal/handler/dto"
	"github.com/excellent-grade/gradetest-api/internal/handler/helper"
	apperrors "github.com/excellent-grade/gradetest-api/internal/pkg/errors"
	"github.com/excellent-grade/gradetest-api/internal/service"
)

// QuestionHandler handles question and option authoring requests.
type QuestionHandler struct {
	questionService *service.QuestionService
	defaultLimit    int
}

// NewQuestionHandler creates a new question handler.
func NewQuestionHandler(questionService *service.QuestionService, defaultLimit int) *QuestionHandler {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	return &QuestionHandler{
		questionService: questionService,
		defaultLimit:    defaultLimit,
	}
}

// QuestionRequest is the question create/update body.
type QuestionRequest struct {
	Text    string `json:"question" binding:"required,min=1,max=500"`
	GradeID uint   `json:"gradeId" binding:"required"`
}

// OptionRequest is the option create/update body.
type OptionRequest struct {
	QuestionID uint   `json:"questionId" binding:"required"`
	Variant    string `json:"variant" binding:"required,min=1,max=500"`
	IsCorrect  bool   `json:"is_correct"`
}

// ListQuestions handles GET /questions with subjectId, gradeId, page and
// limit query parameters.
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	filter, page, err := h.parseFilter(c)
	if err != nil {
		helper.Message(c, http.StatusBadRequest, err.Error())
		return
	}

	questions, total, err := h.questionService.ListQuestions(filter)
	if err != nil {
		helper.Error(c, err)
		return
	}

	helper.Data(c, http.StatusOK, dto.NewQuestionListResponse(questions, total, page, filter.Limit, true))
}

func (h *QuestionHandler) parseFilter(c *gin.Context) (repository.QuestionFilter, int, error) {
	var filter repository.QuestionFilter

	if raw := c.Query("subjectId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return filter, 0, fmt.Errorf("invalid subjectId")
		}
		filter.SubjectID = uint(parsed)
	}
	if raw := c.Query("gradeId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return filter, 0, fmt.Errorf("invalid gradeId")
		}
		filter.GradeID = uint(parsed)
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.defaultLimit)))
	if err != nil || limit < 1 || limit > 100 {
		limit = h.defaultLimit
	}

	filter.Limit = limit
	filter.Offset = (page - 1) * limit
	return filter, page, nil
}

// GetQuestion handles GET /questions/:id.
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	question, err := h.questionService.GetQuestion(c.GetUint("questionID"))
	if err != nil {
		helper.Error(c, err)
		return
	}
	helper.Data(c, http.StatusOK, dto.NewQuestionResponse(question, true))
}

// CreateQuestion handles POST /questions.
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.Message(c, http.StatusBadRequest, err.Error())
		return
	}

	question, err := h.questionService.CreateQuestion(req.Text, req.GradeID)
	if err != nil {
		helper.Error(c, err)
		return
	}
	helper.Data(c, http.StatusCreated, dto.NewQuestionResponse(question, true))
}

// UpdateQuestion handles PUT /questions/:id.
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.Message(c, http.StatusBadRequest, err.Error())
		return
	}

	question, err := h.questionService.UpdateQuestion(c.GetUint("questionID"), req.Text, req.GradeID)
	if err != nil {
		helper.Error(c, err)
		return
	}
	helper.Data(c, http.StatusOK, dto.NewQuestionResponse(question, true))
}

// DeleteQuestion handles DELETE /questions/:id.
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	if err := h.questionService.DeleteQuestion(c.GetUint("questionID")); err != nil {
		helper.Error(c, err)
		return
	}
	helper.Message(c, http.StatusOK, "question deleted")
}

// ListOptions handles GET /questions/:id/options.
func (h *QuestionHandler) ListOptions(c *gin.Context) {
	options, err := h.questionService.ListOptions(c.GetUint("questionID"))
	if err != nil {
		helper.Error(c, err)
		return
	}

	items := make([]dto.OptionResponse, len(options))
	for i := range options {
		items[i] = dto.NewOptionResponse(&options[i], true)
	}
	helper.Data(c, http.StatusOK, items)
}

// CreateOption handles POST /options.
func (h *QuestionHandler) CreateOption(c *gin.Context) {
	var req OptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.Message(c, http.StatusBadRequest, err.Error())
		return
	}

	option, err := h.questionService.CreateOption(service.OptionInput{
		QuestionID: req.QuestionID,
		Variant:    req.Variant,
		IsCorrect:  req.IsCorrect,
	})
	if err != nil {
		helper.Error(c, err)
		return
	}
	helper.Data(c, http.StatusCreated, dto.NewOptionResponse(option, true))
}

// UpdateOption handles PUT /options/:id.
func (h *QuestionHandler) UpdateOption(c *gin.Context) {
	var req OptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.Message(c, http.StatusBadRequest, err.Error())
		return
	}

	option, err := h.questionService.UpdateOption(c.GetUint("optionID"), service.OptionInput{
		QuestionID: req.QuestionID,
		Variant:    req.Variant,
		IsCorrect:  req.IsCorrect,
	})
	if err != nil {
		helper.Error(c, err)
		return
	}
	helper.Data(c, http.StatusOK, dto.NewOptionResponse(option, true))
}

// DeleteOption handles DELETE /options/:id.
func (h *QuestionHandler) DeleteOption(c *gin.Context) {
	if err := h.questionService.DeleteOption(c.GetUint("optionID")); err != nil {
		helper.Error(c, err)
		return
	}
	helper.Message(c, http.StatusOK, "option deleted")
}

// ExportQuestions handles GET /questions/export?subjectId=&gradeId=&format=csv|xlsx.
// Rows mirror the import layout so an export can be re-imported.
func (h *QuestionHandler) ExportQuestions(c *gin.Context) {
	filter, _, err := h.parseFilter(c)
	if err != nil {
		helper.Message(c, http.StatusBadRequest, err.Error())
		return
	}
	filter.Limit = 0
	filter.Offset = 0

	questions, _, err := h.questionService.ListQuestions(filter)
	if err != nil {
		helper.Error(c, err)
		return
	}

	maxVariants := 0
	for i := range questions {
		if n := questions[i].OptionsCount(); n > maxVariants {
			maxVariants = n
		}
	}
	if maxVariants == 0 {
		maxVariants = 4
	}

	headers := []string{"question"}
	for i := 1; i <= maxVariants; i++ {
		headers = append(headers, fmt.Sprintf("variant %d", i))
	}
	headers = append(headers, "correct")

	rows := make([][]string, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		row := make([]string, 0, maxVariants+2)
		row = append(row, sanitizeForExcel(q.Text))
		correct := ""
		for j := 0; j < maxVariants; j++ {
			if j < len(q.Options) {
				row = append(row, sanitizeForExcel(q.Options[j].Variant))
				if q.Options[j].IsCorrect {
					correct = strconv.Itoa(j + 1)
				}
			} else {
				row = append(row, "")
			}
		}
		row = append(row, correct)
		rows = append(rows, row)
	}

	filename := fmt.Sprintf("questions_%s", time.Now().Format("2006-01-02"))
	switch c.DefaultQuery("format", "csv") {
	case "xlsx":
		writeXLSX(c, "Questions", filename, headers, rows)
	default:
		writeCSV(c, filename, headers, rows)
	}
}

// ImportQuestions handles POST /questions/import. It accepts a multipart
// xlsx upload where each row is: question text, up to four variants, and the
// 1-based number of the correct variant. The gradeId form field assigns all
// imported questions to one grade.
func (h *QuestionHandler) ImportQuestions(c *gin.Context) {
	gradeID, err := strconv.ParseUint(c.PostForm("gradeId"), 10, 32)
	if err != nil || gradeID == 0 {
		helper.Message(c, http.StatusBadRequest, "gradeId form field is required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		helper.Message(c, http.StatusBadRequest, "file upload is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		helper.Message(c, http.StatusBadRequest, "failed to open uploaded file")
		return
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		helper.Message(c, http.StatusBadRequest, "file is not a valid xlsx workbook")
		return
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		helper.Message(c, http.StatusBadRequest, "failed to read workbook rows")
		return
	}

	items, err := parseImportRows(rows, uint(gradeID))
	if err != nil {
		helper.Error(c, err)
		return
	}

	imported, err := h.questionService.ImportQuestions(items)
	if err != nil {
		helper.Error(c, err)
		return
	}

	log.Printf("[QuestionHandler] imported %d questions into grade %d", imported, gradeID)
	helper.Data(c, http.StatusCreated, gin.H{"imported": imported})
}

// parseImportRows converts xlsx rows to import items, skipping the header row
// when one is present.
func parseImportRows(rows [][]string, gradeID uint) ([]service.ImportedQuestion, error) {
	items := make([]service.ImportedQuestion, 0, len(rows))
	for i, row := range rows {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		if i == 0 && strings.EqualFold(strings.TrimSpace(row[0]), "question") {
			continue
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("%w: row %d: expected question, variants and correct number", apperrors.ErrValidation, i+1)
		}

		correctRaw := strings.TrimSpace(row[len(row)-1])
		correct, err := strconv.Atoi(correctRaw)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: correct variant number %q is not numeric", apperrors.ErrValidation, i+1, correctRaw)
		}

		variants := make([]string, 0, len(row)-2)
		for _, cell := range row[1 : len(row)-1] {
			if v := strings.TrimSpace(cell); v != "" {
				variants = append(variants, v)
			}
		}

		items = append(items, service.ImportedQuestion{
			Text:         strings.TrimSpace(row[0]),
			GradeID:      gradeID,
			Variants:     variants,
			CorrectIndex: correct - 1,
		})
	}
	return items, nil
}
