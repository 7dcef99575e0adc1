package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/excellent-grade/gradetest-api/internal/domain/entity"
	"github.com/excellent-grade/gradetest-api/internal/domain/repository"
	apperrors "github.com/excellent-grade/gradetest-api/internal/pkg/errors"
)

const (
	subjectsCacheKey = "catalog:subjects"
	subjectsCacheTTL = 5 * time.Minute
)

// CatalogService handles subjects and grades. The subject list (with nested
// grades) is the hottest read of the application, so it is cached in Redis and
// invalidated on every catalog write.
type CatalogService struct {
	subjectRepo repository.SubjectRepository
	gradeRepo   repository.GradeRepository
	cacheRepo   repository.CacheRepository
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	subjectRepo repository.SubjectRepository,
	gradeRepo repository.GradeRepository,
	cacheRepo repository.CacheRepository,
) *CatalogService {
	return &CatalogService{
		subjectRepo: subjectRepo,
		gradeRepo:   gradeRepo,
		cacheRepo:   cacheRepo,
	}
}

// GetSubjects returns all subjects with their grades. An empty search term
// hits the cache; searches always go to the database.
func (s *CatalogService) GetSubjects(search string) ([]entity.Subject, error) {
	search = strings.TrimSpace(search)

	if search == "" && s.cacheRepo != nil {
		var cached []entity.Subject
		if err := s.cacheRepo.GetJSON(subjectsCacheKey, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[CatalogService] subject cache read failed: %v", err)
		}
	}

	subjects, err := s.subjectRepo.GetAll(search)
	if err != nil {
		return nil, err
	}

	if search == "" && s.cacheRepo != nil {
		if err := s.cacheRepo.SetJSON(subjectsCacheKey, subjects, subjectsCacheTTL); err != nil {
			log.Printf("[CatalogService] subject cache write failed: %v", err)
		}
	}
	return subjects, nil
}

// GetSubject returns one subject with its grades.
func (s *CatalogService) GetSubject(id uint) (*entity.Subject, error) {
	return s.subjectRepo.GetByID(id)
}

// CreateSubject creates a new subject.
func (s *CatalogService) CreateSubject(title string) (*entity.Subject, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}

	subject := &entity.Subject{Title: title}
	if err := s.subjectRepo.Create(subject); err != nil {
		return nil, err
	}
	s.invalidateSubjects()
	return subject, nil
}

// UpdateSubject renames a subject.
func (s *CatalogService) UpdateSubject(id uint, title string) (*entity.Subject, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}

	subject, err := s.subjectRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	subject.Title = title
	if err := s.subjectRepo.Update(subject); err != nil {
		return nil, err
	}
	s.invalidateSubjects()
	return subject, nil
}

// DeleteSubject removes a subject.
func (s *CatalogService) DeleteSubject(id uint) error {
	if err := s.subjectRepo.Delete(id); err != nil {
		return err
	}
	s.invalidateSubjects()
	return nil
}

// GradeInput holds the data for grade creation and update.
type GradeInput struct {
	Title         string
	SubjectID     uint
	TimeMinutes   int
	QuestionCount int
	IsActive      *bool
}

func (s *CatalogService) validateGradeInput(input *GradeInput) error {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}
	if input.SubjectID == 0 {
		return fmt.Errorf("%w: subjectId is required", apperrors.ErrValidation)
	}
	if input.QuestionCount <= 0 {
		return fmt.Errorf("%w: questionCount must be positive", apperrors.ErrValidation)
	}
	if input.TimeMinutes < 0 {
		return fmt.Errorf("%w: time must not be negative", apperrors.ErrValidation)
	}
	if _, err := s.subjectRepo.GetByID(input.SubjectID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: subject does not exist", apperrors.ErrValidation)
		}
		return err
	}
	return nil
}

// GetGrades returns grades, narrowed to one subject when subjectID is non-zero.
func (s *CatalogService) GetGrades(subjectID uint) ([]entity.Grade, error) {
	return s.gradeRepo.List(subjectID)
}

// GetGrade returns one grade with its subject.
func (s *CatalogService) GetGrade(id uint) (*entity.Grade, error) {
	return s.gradeRepo.GetByID(id)
}

// CreateGrade creates a new grade under a subject.
func (s *CatalogService) CreateGrade(input GradeInput) (*entity.Grade, error) {
	if err := s.validateGradeInput(&input); err != nil {
		return nil, err
	}

	grade := &entity.Grade{
		Title:         input.Title,
		SubjectID:     input.SubjectID,
		TimeMinutes:   input.TimeMinutes,
		QuestionCount: input.QuestionCount,
		IsActive:      true,
	}
	if input.IsActive != nil {
		grade.IsActive = *input.IsActive
	}
	if err := s.gradeRepo.Create(grade); err != nil {
		return nil, err
	}
	s.invalidateSubjects()
	return s.gradeRepo.GetByID(grade.ID)
}

// UpdateGrade updates a grade.
func (s *CatalogService) UpdateGrade(id uint, input GradeInput) (*entity.Grade, error) {
	if err := s.validateGradeInput(&input); err != nil {
		return nil, err
	}

	grade, err := s.gradeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	grade.Title = input.Title
	grade.SubjectID = input.SubjectID
	grade.TimeMinutes = input.TimeMinutes
	grade.QuestionCount = input.QuestionCount
	if input.IsActive != nil {
		grade.IsActive = *input.IsActive
	}
	if err := s.gradeRepo.Update(grade); err != nil {
		return nil, err
	}
	s.invalidateSubjects()
	return s.gradeRepo.GetByID(grade.ID)
}

// DeleteGrade removes a grade.
func (s *CatalogService) DeleteGrade(id uint) error {
	if err := s.gradeRepo.Delete(id); err != nil {
		return err
	}
	s.invalidateSubjects()
	return nil
}

func (s *CatalogService) invalidateSubjects() {
	if s.cacheRepo == nil {
		return
	}
	if err := s.cacheRepo.Delete(subjectsCacheKey); err != nil {
		log.Printf("[CatalogService] subject cache invalidation failed: %v", err)
	}
}
