package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"todoapi/internal/models"
	"todoapi/internal/repository"
)

var (
	ErrTodoNotFound = errors.New("todo not found")
	ErrValidation   = errors.New("validation failed")
)

const (
	minTitleLength       = 3
	maxDescriptionLength = 1500
	minPriority          = 1
	maxPriority          = 5
)

// DescriptionExpander turns a short task description into a longer one,
// typically via an external generative-text service.
type DescriptionExpander interface {
	Expand(ctx context.Context, description string) (string, error)
}

type TodoInput struct {
	Title       string
	Description string
	Priority    int
	Complete    bool
}

type TodoService interface {
	List(ownerID int64) ([]*models.Todo, error)
	Get(id, ownerID int64) (*models.Todo, error)
	Create(ctx context.Context, ownerID int64, input TodoInput) (*models.Todo, error)
	Update(id, ownerID int64, input TodoInput) error
	Delete(id, ownerID int64) error
}

type todoService struct {
	repo     repository.TodoRepository
	expander DescriptionExpander // nil when enrichment is disabled
	logger   *zap.Logger
}

func NewTodoService(repo repository.TodoRepository, expander DescriptionExpander, logger *zap.Logger) TodoService {
	return &todoService{repo: repo, expander: expander, logger: logger}
}

func validateInput(input TodoInput) error {
	if utf8.RuneCountInString(input.Title) < minTitleLength {
		return fmt.Errorf("%w: title must be at least %d characters", ErrValidation, minTitleLength)
	}
	if utf8.RuneCountInString(input.Description) > maxDescriptionLength {
		return fmt.Errorf("%w: description must be at most %d characters", ErrValidation, maxDescriptionLength)
	}
	if input.Priority < minPriority || input.Priority > maxPriority {
		return fmt.Errorf("%w: priority must be between %d and %d", ErrValidation, minPriority, maxPriority)
	}
	return nil
}

func (s *todoService) List(ownerID int64) ([]*models.Todo, error) {
	return s.repo.ListByOwner(ownerID)
}

func (s *todoService) Get(id, ownerID int64) (*models.Todo, error) {
	todo, err := s.repo.GetByID(id, ownerID)
	if err != nil {
		s.logger.Error("Failed to get todo", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}
	if todo == nil {
		return nil, ErrTodoNotFound
	}
	return todo, nil
}

func (s *todoService) Create(ctx context.Context, ownerID int64, input TodoInput) (*models.Todo, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	description := input.Description
	if s.expander != nil {
		expanded, err := s.expander.Expand(ctx, description)
		if err != nil {
			// Enrichment is best-effort: keep the caller's description.
			s.logger.Warn("Description enrichment failed, keeping original", zap.Error(err))
		} else {
			description = expanded
		}
	}

	todo := &models.Todo{
		Title:       input.Title,
		Description: description,
		Priority:    input.Priority,
		Complete:    input.Complete,
		OwnerID:     ownerID,
	}

	if err := s.repo.Create(todo); err != nil {
		s.logger.Error("Failed to create todo", zap.Error(err))
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}
	return todo, nil
}

func (s *todoService) Update(id, ownerID int64, input TodoInput) error {
	if err := validateInput(input); err != nil {
		return err
	}

	todo := &models.Todo{
		ID:          id,
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		Complete:    input.Complete,
		OwnerID:     ownerID,
	}

	updated, err := s.repo.Update(todo)
	if err != nil {
		s.logger.Error("Failed to update todo", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to update todo: %w", err)
	}
	if !updated {
		return ErrTodoNotFound
	}
	return nil
}

func (s *todoService) Delete(id, ownerID int64) error {
	deleted, err := s.repo.Delete(id, ownerID)
	if err != nil {
		s.logger.Error("Failed to delete todo", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	if !deleted {
		return ErrTodoNotFound
	}
	return nil
}
