package models

import "time"

// Notification kinds.
const (
	NotifyInfo     = "info"
	NotifySuccess  = "success"
	NotifyWarning  = "warning"
	NotifyReminder = "reminder"
)

// Notification 站内通知。只存在于进程内存中，重启即清空，
// 不会经过持久化层。
type Notification struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Kind      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// Reminder 定时提醒（同样不持久化）
type Reminder struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Kind     string `json:"type"`
	Time     string `json:"time"` // HH:MM
	Message  string `json:"message"`
	Active   bool   `json:"active"`
}
