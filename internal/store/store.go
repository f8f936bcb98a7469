package store

import (
	"errors"
	"strings"
	"sync"
	"time"

	"fittrack/internal/models"
	"fittrack/internal/util"
)

// 业务层预期内的失败用哨兵错误表示，不跨 API 边界抛异常。
var (
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials 未知用户和密码错误都返回它，外部不可区分。
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrChallengeNotFound  = errors.New("challenge not found")
	ErrMissingField       = errors.New("missing required field")
)

// Store 持有全量内存状态，所有组件通过构造函数注入它，
// 不允许全局可变状态。每次变更后整体写穿到 Gateway。
type Store struct {
	mu sync.RWMutex
	gw *Gateway

	users      map[string]*models.User
	workouts   []*models.Workout
	nutrition  []*models.NutritionEntry
	challenges []*models.Challenge

	nextWorkoutID   int
	nextNutritionID int
	nextChallengeID int

	// Now is the clock used for timestamps and streak math; tests override it.
	Now func() time.Time
}

// New loads the aggregate state through the gateway and returns a store
// owning it for the process lifetime.
func New(gw *Gateway) *Store {
	agg := gw.LoadAll()
	return &Store{
		gw:              gw,
		users:           agg.Users,
		workouts:        agg.Workouts,
		nutrition:       agg.Nutrition,
		challenges:      agg.Challenges,
		nextWorkoutID:   agg.NextWorkoutID,
		nextNutritionID: agg.NextNutritionID,
		nextChallengeID: agg.NextChallengeID,
		Now:             time.Now,
	}
}

func (s *Store) aggregate() *Aggregate {
	return &Aggregate{
		Users:           s.users,
		Workouts:        s.workouts,
		Nutrition:       s.nutrition,
		Challenges:      s.challenges,
		NextWorkoutID:   s.nextWorkoutID,
		NextNutritionID: s.nextNutritionID,
		NextChallengeID: s.nextChallengeID,
	}
}

// save 持锁调用
func (s *Store) save() error {
	return s.gw.SaveAll(s.aggregate())
}

// Snapshot 生成一份带时间戳的全量快照，返回文件路径。
func (s *Store) Snapshot() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gw.Snapshot(s.aggregate())
}

// ---------- 用户 ----------

// Register creates a user with a fresh stats/settings block. Fails with
// ErrUsernameTaken if the exact username already exists; the repository
// state is unchanged after a failed attempt.
func (s *Store) Register(username, password string, profile map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; exists {
		return ErrUsernameTaken
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}

	if profile == nil {
		profile = map[string]string{}
	}
	s.users[username] = &models.User{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    s.Now(),
		Profile:      profile,
		Settings:     models.DefaultSettings(),
		Achievements: []string{},
		Challenges:   []models.ChallengeMembership{},
	}

	return s.save()
}

// Authenticate 重算哈希并比较。成功时更新最近登录时间并落盘。
// 用户不存在和密码错误返回同一个 ErrInvalidCredentials。
func (s *Store) Authenticate(username, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[username]
	if !exists {
		return ErrInvalidCredentials
	}
	if !util.CheckPassword(password, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	now := s.Now()
	user.LastLogin = &now
	return s.save()
}

// GetUser 返回用户的一份拷贝，false 表示不存在。
func (s *Store) GetUser(username string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[username]
	if !exists {
		return models.User{}, false
	}
	return *user, true
}

// UpdateSettings merges profile key/values and replaces the settings block.
func (s *Store) UpdateSettings(username string, profile map[string]string, settings *models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[username]
	if !exists {
		return ErrUserNotFound
	}

	if user.Profile == nil {
		user.Profile = map[string]string{}
	}
	for k, v := range profile {
		user.Profile[k] = v
	}
	if settings != nil {
		user.Settings = *settings
	}

	return s.save()
}

// DeleteUser removes the user record. Their workouts and challenge
// participation entries are left in place (no cascade).
func (s *Store) DeleteUser(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; !exists {
		return ErrUserNotFound
	}
	delete(s.users, username)
	return s.save()
}

// ---------- 训练记录 ----------

// WorkoutInput 调用方提交的训练字段。Extra 里是固定字段以外的自定义内容。
type WorkoutInput struct {
	Type      string
	Duration  int
	Distance  float64
	Calories  int
	Intensity string
	Notes     string
	Extra     map[string]string
}

// RecordWorkout appends a workout, then updates the user's cumulative stats
// and recomputes the streak, then persists the whole aggregate. Returns the
// assigned workout id.
func (s *Store) RecordWorkout(username string, in WorkoutInput) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[username]
	if !exists {
		return 0, ErrUserNotFound
	}
	if strings.TrimSpace(in.Type) == "" {
		return 0, ErrMissingField
	}

	now := s.Now()
	workout := &models.Workout{
		ID:        s.nextWorkoutID,
		Username:  username,
		Date:      now, // 服务端时间，忽略调用方的日期字段
		Type:      in.Type,
		Duration:  in.Duration,
		Distance:  in.Distance,
		Calories:  in.Calories,
		Intensity: in.Intensity,
		Notes:     in.Notes,
		Extra:     in.Extra,
	}
	s.nextWorkoutID++
	s.workouts = append(s.workouts, workout)

	// 先记下上一次训练时间再更新，连击比较的是上一次的日期
	prevLast := user.Stats.LastWorkout
	user.Stats.TotalWorkouts++
	user.Stats.TotalCalories += in.Calories
	user.Stats.LastWorkout = &now
	user.Stats.StreakDays = nextStreak(user.Stats.StreakDays, prevLast, now)

	if err := s.save(); err != nil {
		return workout.ID, err
	}
	return workout.ID, nil
}

// nextStreak 计算新的连击天数。与上一次训练日期相隔 ≤1 天就加一，
// 否则重置为 1；一旦有训练，连击永远 ≥1。同一天多次训练会重复加一，
// 这是沿用的既有行为。
func nextStreak(current int, prevLast *time.Time, now time.Time) int {
	if prevLast == nil {
		return 1
	}
	if dayGap(*prevLast, now) <= 1 {
		if current < 1 {
			return 1
		}
		return current + 1
	}
	return 1
}

// dayGap 只比较日期部分
func dayGap(prev, now time.Time) int {
	p := time.Date(prev.Year(), prev.Month(), prev.Day(), 0, 0, 0, 0, time.UTC)
	n := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(n.Sub(p).Hours() / 24)
}

// Workouts returns the user's records whose timestamp is within the last
// windowDays, in storage order. Callers sort by recency themselves.
func (s *Store) Workouts(username string, windowDays int) []models.Workout {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := s.Now().AddDate(0, 0, -windowDays)
	var out []models.Workout
	for _, w := range s.workouts {
		if w.Username == username && !w.Date.Before(cutoff) {
			out = append(out, *w)
		}
	}
	return out
}

// ---------- 饮水 ----------

// LogWater appends a water intake record to the nutrition log.
func (s *Store) LogWater(username string, amountML int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; !exists {
		return 0, ErrUserNotFound
	}

	entry := &models.NutritionEntry{
		ID:       s.nextNutritionID,
		Username: username,
		Date:     s.Now(),
		Kind:     "water",
		AmountML: amountML,
	}
	s.nextNutritionID++
	s.nutrition = append(s.nutrition, entry)

	if err := s.save(); err != nil {
		return entry.ID, err
	}
	return entry.ID, nil
}

// NutritionEntries 返回用户的全部营养记录（拷贝）。
func (s *Store) NutritionEntries(username string) []models.NutritionEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.NutritionEntry
	for _, n := range s.nutrition {
		if n.Username == username {
			out = append(out, *n)
		}
	}
	return out
}

// ---------- 挑战 ----------

// ChallengeInput 创建挑战的字段，所有字段必填。
type ChallengeInput struct {
	Name        string
	Description string
	Goal        int
	Metric      string
	Duration    int
	Reward      string
}

// Challenges returns a snapshot of all challenges; the copies do not stay
// live across saves.
func (s *Store) Challenges() []models.Challenge {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Challenge, 0, len(s.challenges))
	for _, c := range s.challenges {
		cp := *c
		cp.Participants = append([]string{}, c.Participants...)
		out = append(out, cp)
	}
	return out
}

// CreateChallenge validates all required fields, assigns the next id and
// seeds the participant list with the creator.
func (s *Store) CreateChallenge(in ChallengeInput, creator string) (models.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[creator]; !exists {
		return models.Challenge{}, ErrUserNotFound
	}
	if strings.TrimSpace(in.Name) == "" ||
		strings.TrimSpace(in.Description) == "" ||
		strings.TrimSpace(in.Reward) == "" {
		return models.Challenge{}, ErrMissingField
	}
	if err := util.ValidateMetric(in.Metric); err != nil {
		return models.Challenge{}, ErrMissingField
	}
	if err := util.ValidateGoal(in.Goal); err != nil {
		return models.Challenge{}, ErrMissingField
	}
	if in.Duration <= 0 {
		return models.Challenge{}, ErrMissingField
	}

	challenge := &models.Challenge{
		ID:           s.nextChallengeID,
		Name:         in.Name,
		Description:  in.Description,
		Goal:         in.Goal,
		Metric:       in.Metric,
		Duration:     in.Duration,
		Reward:       in.Reward,
		CreatedBy:    creator,
		CreatedAt:    s.Now(),
		Participants: []string{creator},
	}
	s.nextChallengeID++
	s.challenges = append(s.challenges, challenge)

	if err := s.save(); err != nil {
		return *challenge, err
	}
	return *challenge, nil
}

// JoinChallenge adds the user to the challenge's participant list
// (idempotent) and appends a membership entry to the user's own challenge
// list. The membership append is deliberately not deduplicated; repeated
// joins accumulate entries, matching the long-standing behavior.
func (s *Store) JoinChallenge(challengeID int, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[username]
	if !exists {
		return ErrUserNotFound
	}

	var challenge *models.Challenge
	for _, c := range s.challenges {
		if c.ID == challengeID {
			challenge = c
			break
		}
	}
	if challenge == nil {
		return ErrChallengeNotFound
	}

	joined := false
	for _, p := range challenge.Participants {
		if p == username {
			joined = true
			break
		}
	}
	if !joined {
		challenge.Participants = append(challenge.Participants, username)
	}

	user.Challenges = append(user.Challenges, models.ChallengeMembership{
		ChallengeID: challengeID,
		JoinedAt:    s.Now(),
		Progress:    0,
	})

	return s.save()
}

// ---------- 报表汇总 ----------

// ReportStats 统计窗口内的汇总结果，交给文档渲染器或直接返回给前端。
type ReportStats struct {
	TotalWorkouts int            `json:"total_workouts"`
	TotalCalories int            `json:"total_calories"`
	TotalDuration int            `json:"total_duration"`
	AvgCalories   float64        `json:"avg_calories"`
	AvgDuration   float64        `json:"avg_duration"`
	WorkoutTypes  map[string]int `json:"workout_types"`
}

// Summarize computes summary statistics over the weekly (7 day) or monthly
// (30 day) workout window. Returns nil when the window is empty.
func (s *Store) Summarize(username, period string) *ReportStats {
	days := 7
	if period == "monthly" {
		days = 30
	}

	workouts := s.Workouts(username, days)
	if len(workouts) == 0 {
		return nil
	}

	stats := &ReportStats{
		TotalWorkouts: len(workouts),
		WorkoutTypes:  map[string]int{},
	}
	for _, w := range workouts {
		stats.TotalCalories += w.Calories
		stats.TotalDuration += w.Duration

		wType := w.Type
		if wType == "" {
			wType = "Other"
		}
		stats.WorkoutTypes[wType]++
	}
	stats.AvgCalories = float64(stats.TotalCalories) / float64(len(workouts))
	stats.AvgDuration = float64(stats.TotalDuration) / float64(len(workouts))

	return stats
}
