package util

import (
	"fmt"
	"regexp"
)

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

// 挑战可选的跟踪指标
var challengeMetrics = map[string]bool{
	"steps":    true,
	"calories": true,
	"workouts": true,
	"distance": true,
	"water":    true,
}

// ValidateUsername 验证用户名（3-20 位，仅字母、数字、下划线）
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is empty")
	}
	if !usernameRe.MatchString(username) {
		return fmt.Errorf("username must be 3-20 letters, digits or underscores")
	}
	return nil
}

// ValidateMetric 验证挑战指标
func ValidateMetric(metric string) error {
	if metric == "" {
		return fmt.Errorf("metric is empty")
	}
	if !challengeMetrics[metric] {
		return fmt.Errorf("unknown metric %q", metric)
	}
	return nil
}

// ValidateGoal 验证挑战目标（必须为正整数）
func ValidateGoal(goal int) error {
	if goal <= 0 {
		return fmt.Errorf("goal must be positive, got %d", goal)
	}
	return nil
}

// ValidateDuration 验证训练时长（分钟，必须为正且不超过一天）
func ValidateDuration(minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("duration must be positive, got %d", minutes)
	}
	if minutes > 1440 {
		return fmt.Errorf("duration too long, got %d", minutes)
	}
	return nil
}
