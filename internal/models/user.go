package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

type User struct {
	ID              uint64         `gorm:"primarykey" json:"id"`
	Name            string         `gorm:"type:varchar(255);not null" json:"name"`
	Email           string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash    string         `gorm:"type:varchar(255);not null" json:"-"`
	Role            UserRole       `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	ProfileImageURL string         `gorm:"type:varchar(512)" json:"profileImageUrl"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	CreatedTasks []Task           `gorm:"foreignKey:CreatorID" json:"-"`
	Assignments  []TaskAssignment `gorm:"foreignKey:UserID" json:"-"`
}
