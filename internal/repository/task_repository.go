package repository

import (
	"context"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"assistant-go/internal/model"
)

// taskNumberKey is the Redis counter backing the installation-wide task
// number sequence. INCR is atomic, so concurrent creators never get the
// same number; gaps from failed creations are fine.
const taskNumberKey = "assistant:task_number_seq"

// TaskFilter narrows a task listing. Zero-value fields are ignored.
type TaskFilter struct {
	Status      string
	Priority    string
	Tag         string
	DelegatedTo uint
}

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	NextTaskNumber(ctx context.Context) (uint64, error)
	Create(task *model.Task) error
	FindByID(userID, taskID uint) (*model.Task, error)
	List(userID uint, filter TaskFilter) ([]model.Task, error)
	Search(userID uint, query string) ([]model.Task, error)
	Update(task *model.Task) error
	Delete(userID, taskID uint) error
}

type taskRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewTaskRepository creates a new TaskRepository instance.
func NewTaskRepository(db *gorm.DB, rdb *redis.Client) TaskRepository {
	return &taskRepository{db: db, rdb: rdb}
}

func (r *taskRepository) NextTaskNumber(ctx context.Context) (uint64, error) {
	n, err := r.rdb.Incr(ctx, taskNumberKey).Result()
	if err != nil {
		return 0, err
	}
	return uint64(n), nil
}

func (r *taskRepository) Create(task *model.Task) error {
	return r.db.Create(task).Error
}

func (r *taskRepository) FindByID(userID, taskID uint) (*model.Task, error) {
	var task model.Task
	err := r.db.Preload("DelegatedPerson").
		Where("id = ? AND user_id = ?", taskID, userID).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) List(userID uint, filter TaskFilter) ([]model.Task, error) {
	var tasks []model.Task
	q := r.db.Preload("DelegatedPerson").Where("user_id = ?", userID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	if filter.Tag != "" {
		// Tags are stored as a JSON array of strings.
		q = q.Where("tags LIKE ?", "%\""+filter.Tag+"\"%")
	}
	if filter.DelegatedTo != 0 {
		q = q.Where("delegated_to = ?", filter.DelegatedTo)
	}
	err := q.Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

func (r *taskRepository) Search(userID uint, query string) ([]model.Task, error) {
	var tasks []model.Task
	pattern := "%" + query + "%"
	err := r.db.Preload("DelegatedPerson").
		Where("user_id = ?", userID).
		Where("title LIKE ? OR memo LIKE ?", pattern, pattern).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepository) Update(task *model.Task) error {
	return r.db.Save(task).Error
}

func (r *taskRepository) Delete(userID, taskID uint) error {
	result := r.db.Where("id = ? AND user_id = ?", taskID, userID).
		Delete(&model.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
