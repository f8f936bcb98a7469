package models

import "time"

// Settings 用户偏好设置
type Settings struct {
	Notifications bool   `json:"notifications"`
	DarkMode      bool   `json:"dark_mode"`
	Units         string `json:"units"` // metric / imperial
	WeeklyGoal    int    `json:"weekly_goal"`
}

// Stats 用户累计统计
type Stats struct {
	TotalWorkouts int        `json:"total_workouts"`
	TotalCalories int        `json:"total_calories"`
	TotalSteps    int        `json:"total_steps"`
	StreakDays    int        `json:"streak_days"`
	LastWorkout   *time.Time `json:"last_workout"`
}

// ChallengeMembership 用户加入的挑战记录
type ChallengeMembership struct {
	ChallengeID int       `json:"id"`
	JoinedAt    time.Time `json:"joined_at"`
	Progress    int       `json:"progress"` // 百分比
}

// User represents application user. The username is the primary key,
// exact case-sensitive match.
type User struct {
	Username     string                `json:"username"`
	PasswordHash string                `json:"password"` // pbkdf2 "salt$hash"
	CreatedAt    time.Time             `json:"created_at"`
	LastLogin    *time.Time            `json:"last_login"`
	Profile      map[string]string     `json:"profile"` // age / weight / height / gender
	Settings     Settings              `json:"settings"`
	Stats        Stats                 `json:"stats"`
	Achievements []string              `json:"achievements"`
	Challenges   []ChallengeMembership `json:"challenges"`
}

// DefaultSettings 注册时的初始设置
func DefaultSettings() Settings {
	return Settings{
		Notifications: true,
		DarkMode:      true,
		Units:         "metric",
		WeeklyGoal:    5,
	}
}
