package models

import "time"

// NutritionEntry 营养/饮水记录。目前只有饮水打卡会写入，
// 字段上保留 Kind 以便后续扩展餐食记录。
type NutritionEntry struct {
	ID       int       `json:"id"`
	Username string    `json:"username"`
	Date     time.Time `json:"date"`
	Kind     string    `json:"kind"` // water / meal
	AmountML int       `json:"amount_ml,omitempty"`
	Calories int       `json:"calories,omitempty"`
	Notes    string    `json:"notes,omitempty"`
}
