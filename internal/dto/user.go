package dto

import (
	"time"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID              uint64          `json:"id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Role            models.UserRole `json:"role"`
	ProfileImageURL string          `json:"profileImageUrl"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// MemberDTO is a user with their assigned task counts
type MemberDTO struct {
	UserDTO
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		Role:            user.Role,
		ProfileImageURL: user.ProfileImageURL,
		CreatedAt:       user.CreatedAt,
	}
}

// ToMemberDTOs converts member summaries to MemberDTOs
func ToMemberDTOs(members []services.MemberSummary) []MemberDTO {
	items := make([]MemberDTO, len(members))
	for i, m := range members {
		items[i] = MemberDTO{
			UserDTO:         ToUserDTO(m.User),
			PendingTasks:    m.PendingTasks,
			InProgressTasks: m.InProgressTasks,
			CompletedTasks:  m.CompletedTasks,
		}
	}
	return items
}
