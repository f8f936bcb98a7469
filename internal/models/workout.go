package models

import "time"

// Workout 表示一次训练记录。创建后不可修改；时间戳由服务端在写入时生成，
// 调用方提交的日期字段不会覆盖它。
type Workout struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Date      time.Time `json:"date"`
	Type      string    `json:"type"`
	Duration  int       `json:"duration"` // 分钟
	Distance  float64   `json:"distance"` // 公里
	Calories  int       `json:"calories"`
	Intensity string    `json:"intensity"` // Low / Medium / High
	Notes     string    `json:"notes"`

	// Extra holds caller-supplied fields outside the fixed schema. Exported
	// as additional columns in the tabular export.
	Extra map[string]string `json:"extra,omitempty"`
}
