package handler

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"fittrack/internal/middleware"
	"fittrack/internal/notify"
	"fittrack/internal/store"
	"fittrack/internal/util"

	"github.com/gin-gonic/gin"
)

// WorkoutHandler 训练记录相关接口
type WorkoutHandler struct {
	Store  *store.Store
	Notify *notify.Manager
}

func NewWorkoutHandler(st *store.Store, nm *notify.Manager) *WorkoutHandler {
	return &WorkoutHandler{Store: st, Notify: nm}
}

type createWorkoutReq struct {
	Type      string            `json:"type" binding:"required"`
	Duration  int               `json:"duration"`
	Distance  float64           `json:"distance"`
	Calories  int               `json:"calories"`
	Intensity string            `json:"intensity"`
	Notes     string            `json:"notes"`
	Extra     map[string]string `json:"extra"`
}

// CreateWorkout 记一次训练。时间戳由服务端生成。
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	username := middleware.CurrentUser(c)

	var req createWorkoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "参数错误")
		return
	}

	if req.Duration != 0 {
		if err := util.ValidateDuration(req.Duration); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "请输入有效时长")
			return
		}
	}

	id, err := h.Store.RecordWorkout(username, store.WorkoutInput{
		Type:      req.Type,
		Duration:  req.Duration,
		Distance:  req.Distance,
		Calories:  req.Calories,
		Intensity: req.Intensity,
		Notes:     req.Notes,
		Extra:     req.Extra,
	})
	if err != nil {
		if errors.Is(err, store.ErrMissingField) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "请选择训练类型")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "保存失败，请重试")
		}
		return
	}

	h.Notify.Add(username, "Workout Logged!",
		fmt.Sprintf("Great job! You logged a %d minute %s session.", req.Duration, req.Type),
		"success")

	user, _ := h.Store.GetUser(username)
	util.Success(c, util.Response{
		"id":    id,
		"stats": user.Stats,
	})
}

// ListWorkouts 查询窗口期内的训练记录，默认最近 30 天，按时间倒序返回。
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	username := middleware.CurrentUser(c)

	daysStr := c.DefaultQuery("days", "30")
	days, err := strconv.Atoi(daysStr)
	if err != nil || days < 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "days 参数不合法")
		return
	}

	workouts := h.Store.Workouts(username, days)
	// 存储顺序不保证，前端要按最近排序
	sort.SliceStable(workouts, func(i, j int) bool {
		return workouts[i].Date.After(workouts[j].Date)
	})

	util.Success(c, util.Response{
		"total": len(workouts),
		"items": workouts,
	})
}

// Summary 周/月报表汇总
func (h *WorkoutHandler) Summary(c *gin.Context) {
	username := middleware.CurrentUser(c)

	period := c.DefaultQuery("period", "weekly")
	if period != "weekly" && period != "monthly" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "period 只能是 weekly 或 monthly")
		return
	}

	stats := h.Store.Summarize(username, period)
	if stats == nil {
		util.Success(c, util.Response{
			"period": period,
			"stats":  nil,
		})
		return
	}

	util.Success(c, util.Response{
		"period": period,
		"stats":  stats,
	})
}
