package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"assistant-go/internal/model"
	"assistant-go/internal/repository"
	"assistant-go/pkg/apperr"
)

// CreateTaskInput carries the fields for a new task.
type CreateTaskInput struct {
	Title       string   `json:"title" binding:"required"`
	Memo        string   `json:"memo"`
	DelegatedTo *uint    `json:"delegatedTo"`
	DueDate     string   `json:"dueDate"`
	Priority    string   `json:"priority"`
	Tags        []string `json:"tags"`
}

// UpdateTaskInput carries a partial task update; nil fields are left
// untouched.
type UpdateTaskInput struct {
	Title             *string   `json:"title"`
	Memo              *string   `json:"memo"`
	DelegatedTo       *uint     `json:"delegatedTo"`
	DueDate           *string   `json:"dueDate"`
	Priority          *string   `json:"priority"`
	Status            *string   `json:"status"`
	StatusDescription *string   `json:"statusDescription"`
	Tags              *[]string `json:"tags"`
}

// TaskService handles task lifecycle. Task numbers come from an atomic
// installation-wide sequence, so two concurrent creates can never share
// a formatted id.
type TaskService interface {
	Create(ctx context.Context, userID uint, in CreateTaskInput) (*model.Task, error)
	Get(userID, taskID uint) (*model.Task, error)
	List(userID uint, filter repository.TaskFilter) ([]model.Task, error)
	Search(userID uint, query string) ([]model.Task, error)
	Update(userID, taskID uint, in UpdateTaskInput) (*model.Task, error)
	UpdateStatus(userID, taskID uint, status, description string) (*model.Task, error)
	Delegate(userID, taskID uint, personName string) (*model.Task, error)
	Delete(userID, taskID uint) error
}

type taskService struct {
	taskRepo   repository.TaskRepository
	personRepo repository.PersonRepository
}

// NewTaskService creates a new TaskService instance.
func NewTaskService(taskRepo repository.TaskRepository, personRepo repository.PersonRepository) TaskService {
	return &taskService{taskRepo: taskRepo, personRepo: personRepo}
}

func (s *taskService) Create(ctx context.Context, userID uint, in CreateTaskInput) (*model.Task, error) {
	if in.Title == "" {
		return nil, apperr.Validationf("task title is required")
	}
	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !model.ValidPriority(priority) {
		return nil, apperr.Validationf("unknown priority '%s'", priority)
	}
	if in.DelegatedTo != nil {
		if _, err := s.personRepo.FindByID(userID, *in.DelegatedTo); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFoundf("person %d not found", *in.DelegatedTo)
			}
			return nil, err
		}
	}

	number, err := s.taskRepo.NextTaskNumber(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "failed to allocate task number", err)
	}

	task := &model.Task{
		TaskNumber:  number,
		UserID:      userID,
		Title:       in.Title,
		Memo:        in.Memo,
		DelegatedTo: in.DelegatedTo,
		DueDate:     in.DueDate,
		Priority:    priority,
		Status:      model.StatusNew,
		Tags:        in.Tags,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Get(userID, taskID uint) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("task %d not found", taskID)
		}
		return nil, err
	}
	return task, nil
}

func (s *taskService) List(userID uint, filter repository.TaskFilter) ([]model.Task, error) {
	if filter.Status != "" && !model.ValidStatus(filter.Status) {
		return nil, apperr.Validationf("unknown status '%s'", filter.Status)
	}
	if filter.Priority != "" && !model.ValidPriority(filter.Priority) {
		return nil, apperr.Validationf("unknown priority '%s'", filter.Priority)
	}
	return s.taskRepo.List(userID, filter)
}

func (s *taskService) Search(userID uint, query string) ([]model.Task, error) {
	if query == "" {
		return nil, apperr.Validationf("search query is required")
	}
	return s.taskRepo.Search(userID, query)
}

func (s *taskService) Update(userID, taskID uint, in UpdateTaskInput) (*model.Task, error) {
	task, err := s.Get(userID, taskID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, apperr.Validationf("task title cannot be empty")
		}
		task.Title = *in.Title
	}
	if in.Memo != nil {
		task.Memo = *in.Memo
	}
	if in.DelegatedTo != nil {
		if _, err := s.personRepo.FindByID(userID, *in.DelegatedTo); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFoundf("person %d not found", *in.DelegatedTo)
			}
			return nil, err
		}
		task.DelegatedTo = in.DelegatedTo
	}
	if in.DueDate != nil {
		task.DueDate = *in.DueDate
	}
	if in.Priority != nil {
		if !model.ValidPriority(*in.Priority) {
			return nil, apperr.Validationf("unknown priority '%s'", *in.Priority)
		}
		task.Priority = *in.Priority
	}
	if in.Status != nil {
		if !model.ValidStatus(*in.Status) {
			return nil, apperr.Validationf("unknown status '%s'", *in.Status)
		}
		task.Status = *in.Status
		if *in.Status == model.StatusDone {
			now := time.Now()
			task.CompletedAt = &now
		} else {
			task.CompletedAt = nil
		}
	}
	if in.StatusDescription != nil {
		task.StatusDescription = *in.StatusDescription
	}
	if in.Tags != nil {
		task.Tags = *in.Tags
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) UpdateStatus(userID, taskID uint, status, description string) (*model.Task, error) {
	if !model.ValidStatus(status) {
		return nil, apperr.Validationf("unknown status '%s'", status)
	}

	task, err := s.Get(userID, taskID)
	if err != nil {
		return nil, err
	}
	task.Status = status
	task.StatusDescription = description
	if status == model.StatusDone {
		now := time.Now()
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

// Delegate assigns the task to the named person, creating the person
// record when no match exists yet.
func (s *taskService) Delegate(userID, taskID uint, personName string) (*model.Task, error) {
	if personName == "" {
		return nil, apperr.Validationf("person name is required")
	}

	task, err := s.Get(userID, taskID)
	if err != nil {
		return nil, err
	}

	person, err := s.personRepo.FindByName(userID, personName)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		person = &model.Person{UserID: userID, Name: personName}
		if err := s.personRepo.Create(person); err != nil {
			return nil, err
		}
	}

	task.DelegatedTo = &person.ID
	task.DelegatedPerson = person
	if err := s.taskRepo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Delete(userID, taskID uint) error {
	err := s.taskRepo.Delete(userID, taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFoundf("task %d not found", taskID)
	}
	return err
}
