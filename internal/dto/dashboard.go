package dto

import "github.com/yukikurage/task-tracker-api/internal/services"

// GlobalChartsDTO holds the charts of the global dashboard
type GlobalChartsDTO struct {
	TaskDistribution map[string]int64 `json:"taskDistribution"`
}

// GlobalDashboardDTO is the response of the global dashboard
type GlobalDashboardDTO struct {
	Charts      GlobalChartsDTO `json:"charts"`
	RecentTasks []RecentTaskDTO `json:"recentTasks"`
}

// UserStatisticsDTO holds the headline counts of a user dashboard
type UserStatisticsDTO struct {
	TotalTasks     int64 `json:"totalTasks"`
	PendingTasks   int64 `json:"pendingTasks"`
	CompletedTasks int64 `json:"completedTasks"`
	OverdueTasks   int64 `json:"overdueTasks"`
}

// UserChartsDTO holds the charts of a user dashboard
type UserChartsDTO struct {
	TaskDistribution   map[string]int64 `json:"taskDistribution"`
	TaskPriorityLevels map[string]int64 `json:"taskPriorityLevels"`
}

// UserDashboardDTO is the response of the per-user dashboard
type UserDashboardDTO struct {
	Statistics  UserStatisticsDTO `json:"statistics"`
	Charts      UserChartsDTO     `json:"charts"`
	RecentTasks []RecentTaskDTO   `json:"recentTasks"`
}

// ToGlobalDashboardDTO converts the aggregated global dashboard
func ToGlobalDashboardDTO(d *services.GlobalDashboard) GlobalDashboardDTO {
	return GlobalDashboardDTO{
		Charts:      GlobalChartsDTO{TaskDistribution: d.Distribution},
		RecentTasks: ToRecentTaskDTOs(d.RecentTasks),
	}
}

// ToUserDashboardDTO converts the aggregated user dashboard
func ToUserDashboardDTO(d *services.UserDashboard) UserDashboardDTO {
	return UserDashboardDTO{
		Statistics: UserStatisticsDTO{
			TotalTasks:     d.TotalTasks,
			PendingTasks:   d.PendingTasks,
			CompletedTasks: d.CompletedTasks,
			OverdueTasks:   d.OverdueTasks,
		},
		Charts: UserChartsDTO{
			TaskDistribution:   d.Distribution,
			TaskPriorityLevels: d.Priorities,
		},
		RecentTasks: ToRecentTaskDTOs(d.RecentTasks),
	}
}
