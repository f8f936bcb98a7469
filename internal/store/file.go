package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"fittrack/internal/models"
	"fittrack/internal/util"

	"github.com/google/uuid"
)

// Gateway 持久化层：四份独立的 JSON 记录 + 按需生成的全量快照。
// 没有事务边界，每次变更整体落盘（write-through）。
type Gateway struct {
	DataDir   string
	BackupDir string
	// EncryptKey 非空时快照文件用 AES-GCM 加密
	EncryptKey string
}

// NewGateway 构造函数，保证数据目录和备份目录存在。
func NewGateway(dataDir, backupDir, encryptKey string) (*Gateway, error) {
	if backupDir == "" {
		backupDir = filepath.Join(dataDir, "backups")
	}
	for _, dir := range []string{dataDir, backupDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create dir %s: %w", dir, err)
		}
	}
	return &Gateway{DataDir: dataDir, BackupDir: backupDir, EncryptKey: encryptKey}, nil
}

func (g *Gateway) usersFile() string      { return filepath.Join(g.DataDir, "users.json") }
func (g *Gateway) workoutsFile() string   { return filepath.Join(g.DataDir, "workouts.json") }
func (g *Gateway) nutritionFile() string  { return filepath.Join(g.DataDir, "nutrition.json") }
func (g *Gateway) challengesFile() string { return filepath.Join(g.DataDir, "challenges.json") }

// workoutsRecord 在列表旁边持久化单调递增的 id 计数器，
// 这样即使记录被删除也不会复用 id。
type workoutsRecord struct {
	NextID int               `json:"next_id"`
	Items  []*models.Workout `json:"items"`
}

type nutritionRecord struct {
	NextID int                      `json:"next_id"`
	Items  []*models.NutritionEntry `json:"items"`
}

type challengesRecord struct {
	NextID int                 `json:"next_id"`
	Items  []*models.Challenge `json:"items"`
}

// Aggregate 进程内的全量状态。通知中心不在其中，永不持久化。
type Aggregate struct {
	Users      map[string]*models.User  `json:"users"`
	Workouts   []*models.Workout        `json:"workouts"`
	Nutrition  []*models.NutritionEntry `json:"nutrition"`
	Challenges []*models.Challenge      `json:"challenges"`

	NextWorkoutID   int `json:"next_workout_id"`
	NextNutritionID int `json:"next_nutrition_id"`
	NextChallengeID int `json:"next_challenge_id"`
}

// loadRecord 读取单个记录文件。文件不存在不算错误；读取或解析失败
// 返回 error，由调用方降级为默认值。
func loadRecord(path string, out interface{}) (found bool, err error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

// LoadAll reads the four records independently. A failure on any single
// record is logged and downgraded to an empty default (seeded defaults for
// challenges), so one corrupt file cannot block the rest from loading.
func (g *Gateway) LoadAll() *Aggregate {
	agg := &Aggregate{
		Users:      make(map[string]*models.User),
		Workouts:   []*models.Workout{},
		Nutrition:  []*models.NutritionEntry{},
		Challenges: []*models.Challenge{},
	}

	if _, err := loadRecord(g.usersFile(), &agg.Users); err != nil {
		log.Printf("load users record: %v (discarding, using empty)", err)
		agg.Users = make(map[string]*models.User)
	}

	var wr workoutsRecord
	if _, err := loadRecord(g.workoutsFile(), &wr); err != nil {
		log.Printf("load workouts record: %v (discarding, using empty)", err)
		wr = workoutsRecord{}
	}
	if wr.Items != nil {
		agg.Workouts = wr.Items
	}
	agg.NextWorkoutID = nextID(wr.NextID, maxWorkoutID(agg.Workouts))

	var nr nutritionRecord
	if _, err := loadRecord(g.nutritionFile(), &nr); err != nil {
		log.Printf("load nutrition record: %v (discarding, using empty)", err)
		nr = nutritionRecord{}
	}
	if nr.Items != nil {
		agg.Nutrition = nr.Items
	}
	agg.NextNutritionID = nextID(nr.NextID, maxNutritionID(agg.Nutrition))

	var cr challengesRecord
	found, err := loadRecord(g.challengesFile(), &cr)
	if err != nil {
		log.Printf("load challenges record: %v (discarding, seeding defaults)", err)
		found = false
	}
	if found && cr.Items != nil {
		agg.Challenges = cr.Items
	} else {
		// 首次运行（或挑战文件损坏）：写入三个内置挑战
		agg.Challenges = models.DefaultChallenges()
	}
	agg.NextChallengeID = nextID(cr.NextID, maxChallengeID(agg.Challenges))

	return agg
}

func nextID(stored, maxSeen int) int {
	if stored > maxSeen {
		return stored
	}
	return maxSeen + 1
}

func maxWorkoutID(items []*models.Workout) int {
	m := 0
	for _, w := range items {
		if w.ID > m {
			m = w.ID
		}
	}
	return m
}

func maxNutritionID(items []*models.NutritionEntry) int {
	m := 0
	for _, n := range items {
		if n.ID > m {
			m = n.ID
		}
	}
	return m
}

func maxChallengeID(items []*models.Challenge) int {
	m := 0
	for _, c := range items {
		if c.ID > m {
			m = c.ID
		}
	}
	return m
}

func writeRecord(path string, in interface{}) error {
	raw, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// SaveAll writes the four records as independent writes. A failure on any
// single write is logged and reported as overall failure; earlier successful
// writes in the same call are not rolled back.
func (g *Gateway) SaveAll(agg *Aggregate) error {
	var firstErr error
	fail := func(err error) {
		log.Printf("save data: %v", err)
		if firstErr == nil {
			firstErr = err
		}
	}

	if err := writeRecord(g.usersFile(), agg.Users); err != nil {
		fail(err)
	}
	if err := writeRecord(g.workoutsFile(), workoutsRecord{NextID: agg.NextWorkoutID, Items: agg.Workouts}); err != nil {
		fail(err)
	}
	if err := writeRecord(g.nutritionFile(), nutritionRecord{NextID: agg.NextNutritionID, Items: agg.Nutrition}); err != nil {
		fail(err)
	}
	if err := writeRecord(g.challengesFile(), challengesRecord{NextID: agg.NextChallengeID, Items: agg.Challenges}); err != nil {
		fail(err)
	}

	return firstErr
}

// Snapshot writes one timestamped file containing the entire aggregate for
// disaster recovery. It is independent of the four per-record files and is
// never read back automatically.
func (g *Gateway) Snapshot(agg *Aggregate) (string, error) {
	raw, err := json.MarshalIndent(agg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if g.EncryptKey != "" {
		enc, err := util.EncryptAES(g.EncryptKey, raw)
		if err != nil {
			return "", fmt.Errorf("encrypt snapshot: %w", err)
		}
		raw = enc
	}

	timestamp := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("backup_%s_%s.json", timestamp, uuid.New().String()[:8])
	path := filepath.Join(g.BackupDir, name)

	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}
