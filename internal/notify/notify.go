// Package notify implements the in-memory notification center. Its state
// lives only for the process lifetime and is reset on restart; nothing in
// here touches the persistence layer.
package notify

import (
	"sort"
	"sync"
	"time"

	"fittrack/internal/models"
)

// Manager 通知中心
type Manager struct {
	mu            sync.Mutex
	notifications []*models.Notification
	reminders     []*models.Reminder

	// Now 时间钩子，测试用
	Now func() time.Time
}

func NewManager() *Manager {
	return &Manager{Now: time.Now}
}

// Add appends a notification with the next sequential id and returns a copy.
func (m *Manager) Add(username, title, message, kind string) models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	if kind == "" {
		kind = models.NotifyInfo
	}
	n := &models.Notification{
		ID:        len(m.notifications) + 1,
		Username:  username,
		Title:     title,
		Message:   message,
		Kind:      kind,
		Timestamp: m.Now(),
	}
	m.notifications = append(m.notifications, n)
	return *n
}

// ListFor 返回用户的通知，按时间倒序（最新在前），可选只看未读。
func (m *Manager) ListFor(username string, unreadOnly bool) []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Notification
	for _, n := range m.notifications {
		if n.Username != username {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, *n)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// MarkRead sets the read flag; unknown ids are a no-op.
func (m *Manager) MarkRead(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, n := range m.notifications {
		if n.ID == id {
			n.Read = true
			break
		}
	}
}

// AddReminder 登记一条提醒（同样只存在于内存）。
func (m *Manager) AddReminder(username, kind, at, message string) models.Reminder {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := &models.Reminder{
		ID:       len(m.reminders) + 1,
		Username: username,
		Kind:     kind,
		Time:     at,
		Message:  message,
		Active:   true,
	}
	m.reminders = append(m.reminders, r)
	return *r
}

// Reminders 返回用户的提醒列表。
func (m *Manager) Reminders(username string) []models.Reminder {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Reminder
	for _, r := range m.reminders {
		if r.Username == username {
			out = append(out, *r)
		}
	}
	return out
}

// StartReminderLoop starts the periodic wake-up used for reminder checks.
// The check itself does no work yet; the hook exists so scheduled reminders
// can be delivered here later without changing the wiring.
// TODO: match due reminders against Reminders() and emit them via Add.
func (m *Manager) StartReminderLoop(interval time.Duration) (stop func()) {
	if interval <= 0 {
		interval = time.Minute
	}
	done := make(chan struct{})
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.checkReminders()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

func (m *Manager) checkReminders() {
	// placeholder, see StartReminderLoop
}
