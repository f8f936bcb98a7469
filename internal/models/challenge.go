package models

import "time"

// Challenge 挑战（系统内置 + 用户自建）
type Challenge struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Goal         int       `json:"goal"`
	Metric       string    `json:"metric"` // steps / calories / workouts / distance / water
	Duration     int       `json:"duration"`
	Reward       string    `json:"reward"`
	CreatedBy    string    `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitzero"`
	Participants []string  `json:"participants"`
}

// DefaultChallenges returns the three challenges seeded on first run,
// before any user has joined.
func DefaultChallenges() []*Challenge {
	return []*Challenge{
		{
			ID:           1,
			Name:         "10K Steps Challenge",
			Description:  "Walk 10,000 steps daily for 30 days",
			Goal:         10000,
			Metric:       "steps",
			Duration:     30,
			Reward:       "Gold Badge",
			Participants: []string{},
		},
		{
			ID:           2,
			Name:         "Hydration Hero",
			Description:  "Drink 8 glasses of water daily",
			Goal:         8,
			Metric:       "water",
			Duration:     30,
			Reward:       "Silver Badge",
			Participants: []string{},
		},
		{
			ID:           3,
			Name:         "Workout Warrior",
			Description:  "Complete 20 workouts in 30 days",
			Goal:         20,
			Metric:       "workouts",
			Duration:     30,
			Reward:       "Platinum Badge",
			Participants: []string{},
		},
	}
}
