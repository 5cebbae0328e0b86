package reminder

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/eduagenda/eduagenda/models"
)

// GormStore implements Store over the application database.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps the shared gorm handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *GormStore) FindPendingTodos(ctx context.Context, userID uint, until time.Time) ([]models.Todo, error) {
	var todos []models.Todo
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND done = ? AND due_at < ?", userID, false, until).
		Order("due_at ASC, id ASC").
		Find(&todos).Error
	if err != nil {
		return nil, err
	}
	return todos, nil
}

func (s *GormStore) FindPendingEvents(ctx context.Context, userID uint, until time.Time) ([]models.Event, error) {
	var events []models.Event
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_completed = ? AND occurs_at < ?", userID, false, until).
		Order("occurs_at ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
