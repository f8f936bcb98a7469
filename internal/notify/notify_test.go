package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSequentialIDs(t *testing.T) {
	m := NewManager()

	n1 := m.Add("alice", "Workout Logged!", "Great job!", "success")
	n2 := m.Add("bob", "Challenge Joined!", "You joined a challenge", "")
	n3 := m.Add("alice", "Water Logged", "250ml recorded", "info")

	assert.Equal(t, 1, n1.ID)
	assert.Equal(t, 2, n2.ID)
	assert.Equal(t, 3, n3.ID)

	// 不填类型时默认 info
	assert.Equal(t, "info", n2.Kind)
}

func TestListForNewestFirst(t *testing.T) {
	m := NewManager()
	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	m.Now = func() time.Time { return now }

	m.Add("alice", "first", "", "info")
	now = now.Add(time.Minute)
	m.Add("alice", "second", "", "info")
	now = now.Add(time.Minute)
	m.Add("bob", "other user", "", "info")
	m.Add("alice", "third", "", "info")

	got := m.ListFor("alice", false)
	require.Len(t, got, 3)
	assert.Equal(t, "third", got[0].Title)
	assert.Equal(t, "second", got[1].Title)
	assert.Equal(t, "first", got[2].Title)
}

func TestMarkReadAndUnreadFilter(t *testing.T) {
	m := NewManager()

	n1 := m.Add("alice", "first", "", "info")
	m.Add("alice", "second", "", "info")

	m.MarkRead(n1.ID)

	unread := m.ListFor("alice", true)
	require.Len(t, unread, 1)
	assert.Equal(t, "second", unread[0].Title)

	all := m.ListFor("alice", false)
	assert.Len(t, all, 2)

	// 未知 id 静默忽略
	m.MarkRead(999)
	assert.Len(t, m.ListFor("alice", true), 1)
}

func TestReminders(t *testing.T) {
	m := NewManager()

	r := m.AddReminder("alice", "workout", "07:30", "Time to move!")
	assert.Equal(t, 1, r.ID)
	assert.True(t, r.Active)

	m.AddReminder("bob", "water", "12:00", "Drink up")

	got := m.Reminders("alice")
	require.Len(t, got, 1)
	assert.Equal(t, "07:30", got[0].Time)
}

func TestStartReminderLoopStop(t *testing.T) {
	m := NewManager()

	stop := m.StartReminderLoop(10 * time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	// stop 幂等，重复调用不 panic
	stop()
	stop()
}
