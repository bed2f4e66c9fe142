package models

import "time"

// TaskAssignment links a task to an assigned user. UserID is a weak
// reference: the user may no longer exist.
type TaskAssignment struct {
	TaskID    uint64    `gorm:"primarykey" json:"taskId"`
	UserID    uint64    `gorm:"primarykey" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
