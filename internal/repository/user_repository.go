package repository

import (
	"context"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List lists users ordered by ID, optionally filtered by role
func (r *GormUserRepository) List(ctx context.Context, role *models.UserRole) ([]models.User, error) {
	var users []models.User
	query := r.db.WithContext(ctx).Order("id ASC")
	if role != nil {
		query = query.Where("role = ?", *role)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// CountByIDs counts how many of the given user IDs exist
func (r *GormUserRepository) CountByIDs(ctx context.Context, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id IN ?", ids).
		Count(&count).Error
	return count, err
}
