package store

import (
	"testing"
	"time"

	"fittrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	gw, err := NewGateway(t.TempDir(), "", "")
	require.NoError(t, err)
	return New(gw)
}

// setClock 把 store 的时钟固定住，返回可以拨动的指针
func setClock(st *Store, start time.Time) *time.Time {
	now := start
	st.Now = func() time.Time { return now }
	return &now
}

func TestRegisterDuplicate(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.Register("alice", "pw1", nil))

	// 第二次注册同名用户必须失败，且状态不变
	err := st.Register("alice", "pw2", map[string]string{"age": "30"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	user, exists := st.GetUser("alice")
	require.True(t, exists)
	assert.Empty(t, user.Profile)
	assert.NoError(t, st.Authenticate("alice", "pw1"))
}

func TestRegisterDefaults(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Register("bob", "secret", map[string]string{"weight": "80"}))

	user, exists := st.GetUser("bob")
	require.True(t, exists)
	assert.Equal(t, "metric", user.Settings.Units)
	assert.Equal(t, 5, user.Settings.WeeklyGoal)
	assert.True(t, user.Settings.Notifications)
	assert.Zero(t, user.Stats.TotalWorkouts)
	assert.Nil(t, user.Stats.LastWorkout)
	assert.NotEqual(t, "secret", user.PasswordHash)
}

func TestAuthenticate(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Register("alice", "pw1", nil))

	assert.NoError(t, st.Authenticate("alice", "pw1"))

	// 改一个字符必须失败
	assert.ErrorIs(t, st.Authenticate("alice", "pw2"), ErrInvalidCredentials)

	// 未知用户和密码错误返回同一个错误
	assert.ErrorIs(t, st.Authenticate("nobody", "pw1"), ErrInvalidCredentials)

	// 登录成功更新最近登录时间
	user, _ := st.GetUser("alice")
	assert.NotNil(t, user.LastLogin)
}

func TestRecordWorkoutScenario(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Register("alice", "pw1", nil))

	id, err := st.RecordWorkout("alice", WorkoutInput{Type: "Running", Duration: 30, Calories: 300})
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	stats := st.Summarize("alice", "weekly")
	require.NotNil(t, stats)
	assert.Equal(t, 1, stats.TotalWorkouts)
	assert.Equal(t, 300, stats.TotalCalories)
	assert.Equal(t, 30, stats.TotalDuration)
	assert.Equal(t, 300.0, stats.AvgCalories)
	assert.Equal(t, 30.0, stats.AvgDuration)
	assert.Equal(t, map[string]int{"Running": 1}, stats.WorkoutTypes)

	// 累计统计同步更新
	user, _ := st.GetUser("alice")
	assert.Equal(t, 1, user.Stats.TotalWorkouts)
	assert.Equal(t, 300, user.Stats.TotalCalories)
	assert.NotNil(t, user.Stats.LastWorkout)
}

func TestRecordWorkoutRequiresType(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Register("alice", "pw1", nil))

	_, err := st.RecordWorkout("alice", WorkoutInput{Duration: 30})
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = st.RecordWorkout("nobody", WorkoutInput{Type: "Running"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestWorkoutIDsMonotonic(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Register("alice", "pw1", nil))

	for want := 1; want <= 5; want++ {
		id, err := st.RecordWorkout("alice", WorkoutInput{Type: "Yoga"})
		require.NoError(t, err)
		assert.Equal(t, want, id)
	}
}

func TestStreakConsecutiveDays(t *testing.T) {
	st := newTestStore(t)
	now := setClock(st, time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, st.Register("alice", "pw1", nil))

	// 连续 N 天各打卡一次，连击等于 N
	for day := 1; day <= 4; day++ {
		_, err := st.RecordWorkout("alice", WorkoutInput{Type: "Running"})
		require.NoError(t, err)

		user, _ := st.GetUser("alice")
		assert.Equal(t, day, user.Stats.StreakDays, "day %d", day)

		*now = now.AddDate(0, 0, 1)
	}

	// 隔 2 天以上再打卡，连击重置为 1（不会归零）
	*now = now.AddDate(0, 0, 2)
	_, err := st.RecordWorkout("alice", WorkoutInput{Type: "Running"})
	require.NoError(t, err)
	user, _ := st.GetUser("alice")
	assert.Equal(t, 1, user.Stats.StreakDays)
}

func TestStreakSameDayIncrements(t *testing.T) {
	// 同一天多次训练每次都加一，沿用既有行为
	st := newTestStore(t)
	setClock(st, time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, st.Register("alice", "pw1", nil))

	for i := 1; i <= 3; i++ {
		_, err := st.RecordWorkout("alice", WorkoutInput{Type: "HIIT"})
		require.NoError(t, err)
	}
	user, _ := st.GetUser("alice")
	assert.Equal(t, 3, user.Stats.StreakDays)
}

func TestWorkoutWindow(t *testing.T) {
	st := newTestStore(t)
	now := setClock(st, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, st.Register("alice", "pw1", nil))
	require.NoError(t, st.Register("bob", "pw2", nil))

	_, err := st.RecordWorkout("alice", WorkoutInput{Type: "Running"})
	require.NoError(t, err)
	_, err = st.RecordWorkout("bob", WorkoutInput{Type: "Cycling"})
	require.NoError(t, err)

	// 10 天之后查询
	*now = now.AddDate(0, 0, 10)
	_, err = st.RecordWorkout("alice", WorkoutInput{Type: "Swimming"})
	require.NoError(t, err)

	// 窗口够大：两条都在
	got := st.Workouts("alice", 30)
	assert.Len(t, got, 2)

	// 窗口只盖住最近一条
	got = st.Workouts("alice", 9)
	require.Len(t, got, 1)
	assert.Equal(t, "Swimming", got[0].Type)

	// windowDays = 0：只有恰好等于当前时刻的记录能进来
	got = st.Workouts("alice", 0)
	require.Len(t, got, 1)
	assert.Equal(t, "Swimming", got[0].Type)

	// 不串用户
	got = st.Workouts("bob", 30)
	require.Len(t, got, 1)
	assert.Equal(t, "Cycling", got[0].Type)
}

func TestSummarizeEmpty(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Register("alice", "pw1", nil))

	assert.Nil(t, st.Summarize("alice", "weekly"))
	assert.Nil(t, st.Summarize("alice", "monthly"))
}

func TestSummarizeMonthlyWindow(t *testing.T) {
	st := newTestStore(t)
	now := setClock(st, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, st.Register("alice", "pw1", nil))

	_, err := st.RecordWorkout("alice", WorkoutInput{Type: "Running", Calories: 100, Duration: 20})
	require.NoError(t, err)

	// 10 天后：周报为空，月报还能看到
	*now = now.AddDate(0, 0, 10)
	assert.Nil(t, st.Summarize("alice", "weekly"))

	stats := st.Summarize("alice", "monthly")
	require.NotNil(t, stats)
	assert.Equal(t, 1, stats.TotalWorkouts)
}

func TestSummarizeUntypedWorkout(t *testing.T) {
	// 老数据文件里可能有没填类型的记录，汇总时归入 Other
	st := newTestStore(t)
	require.NoError(t, st.Register("alice", "pw1", nil))

	st.workouts = append(st.workouts, &models.Workout{
		ID:       1,
		Username: "alice",
		Date:     st.Now(),
		Calories: 50,
	})

	stats := st.Summarize("alice", "weekly")
	require.NotNil(t, stats)
	assert.Equal(t, map[string]int{"Other": 1}, stats.WorkoutTypes)
}

func TestDefaultChallenges(t *testing.T) {
	st := newTestStore(t)

	challenges := st.Challenges()
	require.Len(t, challenges, 3)
	assert.Equal(t, "10K Steps Challenge", challenges[0].Name)
	assert.Equal(t, "Hydration Hero", challenges[1].Name)
	assert.Equal(t, "Workout Warrior", challenges[2].Name)
	for _, c := range challenges {
		assert.Empty(t, c.Participants)
	}
}

func TestJoinChallenge(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Register("alice", "pw1", nil))

	require.NoError(t, st.JoinChallenge(1, "alice"))

	challenges := st.Challenges()
	assert.Equal(t, []string{"alice"}, challenges[0].Participants)

	user, _ := st.GetUser("alice")
	require.Len(t, user.Challenges, 1)
	assert.Equal(t, 1, user.Challenges[0].ChallengeID)
	assert.Equal(t, 0, user.Challenges[0].Progress)

	assert.ErrorIs(t, st.JoinChallenge(99, "alice"), ErrChallengeNotFound)
	assert.ErrorIs(t, st.JoinChallenge(1, "nobody"), ErrUserNotFound)
}

func TestJoinChallengeTwice(t *testing.T) {
	// 参与者列表幂等，但用户自己的挑战列表会累积重复条目。
	// 这是沿用的既有行为，修复前先用测试钉住。
	st := newTestStore(t)
	require.NoError(t, st.Register("alice", "pw1", nil))

	require.NoError(t, st.JoinChallenge(2, "alice"))
	require.NoError(t, st.JoinChallenge(2, "alice"))

	challenges := st.Challenges()
	assert.Equal(t, []string{"alice"}, challenges[1].Participants)

	user, _ := st.GetUser("alice")
	assert.Len(t, user.Challenges, 2)
}

func TestCreateChallenge(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Register("alice", "pw1", nil))

	challenge, err := st.CreateChallenge(ChallengeInput{
		Name:        "Morning Run Club",
		Description: "Run every morning",
		Goal:        5,
		Metric:      "workouts",
		Duration:    14,
		Reward:      "Bronze Badge",
	}, "alice")
	require.NoError(t, err)

	// 内置挑战占了 1-3，自建的从 4 开始
	assert.Equal(t, 4, challenge.ID)
	assert.Equal(t, []string{"alice"}, challenge.Participants)
	assert.Equal(t, "alice", challenge.CreatedBy)
	assert.Len(t, st.Challenges(), 4)
}

func TestCreateChallengeValidation(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Register("alice", "pw1", nil))

	cases := []ChallengeInput{
		{Description: "d", Goal: 5, Metric: "steps", Duration: 7, Reward: "r"}, // 缺名字
		{Name: "n", Goal: 5, Metric: "steps", Duration: 7, Reward: "r"},        // 缺描述
		{Name: "n", Description: "d", Metric: "steps", Duration: 7, Reward: "r"},           // 目标非法
		{Name: "n", Description: "d", Goal: 5, Metric: "sleep", Duration: 7, Reward: "r"},  // 指标非法
		{Name: "n", Description: "d", Goal: 5, Metric: "steps", Reward: "r"},               // 缺时长
		{Name: "n", Description: "d", Goal: 5, Metric: "steps", Duration: 7},               // 缺奖励
	}
	for i, in := range cases {
		_, err := st.CreateChallenge(in, "alice")
		assert.ErrorIs(t, err, ErrMissingField, "case %d", i)
	}

	// 失败的创建不应留下半个挑战
	assert.Len(t, st.Challenges(), 3)
}

func TestLogWater(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Register("alice", "pw1", nil))

	id, err := st.LogWater("alice", 250)
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	entries := st.NutritionEntries("alice")
	require.Len(t, entries, 1)
	assert.Equal(t, "water", entries[0].Kind)
	assert.Equal(t, 250, entries[0].AmountML)

	_, err = st.LogWater("nobody", 250)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUserNoCascade(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Register("alice", "pw1", nil))

	_, err := st.RecordWorkout("alice", WorkoutInput{Type: "Running"})
	require.NoError(t, err)
	require.NoError(t, st.JoinChallenge(1, "alice"))

	require.NoError(t, st.DeleteUser("alice"))

	_, exists := st.GetUser("alice")
	assert.False(t, exists)

	// 训练记录和挑战参与者不级联删除
	assert.Len(t, st.Workouts("alice", 30), 1)
	assert.Equal(t, []string{"alice"}, st.Challenges()[0].Participants)

	assert.ErrorIs(t, st.DeleteUser("alice"), ErrUserNotFound)
}

func TestUpdateSettings(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Register("alice", "pw1", map[string]string{"age": "30"}))

	settings := &models.Settings{
		Notifications: false,
		DarkMode:      false,
		Units:         "imperial",
		WeeklyGoal:    3,
	}
	require.NoError(t, st.UpdateSettings("alice", map[string]string{"weight": "65"}, settings))

	user, _ := st.GetUser("alice")
	assert.Equal(t, "imperial", user.Settings.Units)
	assert.Equal(t, 3, user.Settings.WeeklyGoal)
	// profile 合并而不是替换
	assert.Equal(t, "30", user.Profile["age"])
	assert.Equal(t, "65", user.Profile["weight"])

	assert.ErrorIs(t, st.UpdateSettings("nobody", nil, nil), ErrUserNotFound)
}
