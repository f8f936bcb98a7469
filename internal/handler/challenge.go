package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"fittrack/internal/middleware"
	"fittrack/internal/notify"
	"fittrack/internal/store"
	"fittrack/internal/util"

	"github.com/gin-gonic/gin"
)

// ChallengeHandler 挑战相关接口
type ChallengeHandler struct {
	Store  *store.Store
	Notify *notify.Manager
}

func NewChallengeHandler(st *store.Store, nm *notify.Manager) *ChallengeHandler {
	return &ChallengeHandler{Store: st, Notify: nm}
}

// ListChallenges 列出全部挑战（内置 + 用户自建）
func (h *ChallengeHandler) ListChallenges(c *gin.Context) {
	challenges := h.Store.Challenges()
	util.Success(c, util.Response{
		"items": challenges,
	})
}

type createChallengeReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Goal        string `json:"goal" binding:"required"` // 数字字符串，和表单输入保持一致
	Metric      string `json:"metric" binding:"required"`
	Duration    int    `json:"duration" binding:"required"`
	Reward      string `json:"reward" binding:"required"`
}

// CreateChallenge 创建新挑战，创建者自动成为第一个参与者。
func (h *ChallengeHandler) CreateChallenge(c *gin.Context) {
	username := middleware.CurrentUser(c)

	var req createChallengeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "请填写所有字段")
		return
	}

	// 目标必须是合法整数
	goal, err := strconv.Atoi(req.Goal)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "目标必须是数字")
		return
	}

	challenge, err := h.Store.CreateChallenge(store.ChallengeInput{
		Name:        req.Name,
		Description: req.Description,
		Goal:        goal,
		Metric:      req.Metric,
		Duration:    req.Duration,
		Reward:      req.Reward,
	}, username)
	if err != nil {
		if errors.Is(err, store.ErrMissingField) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "请填写所有字段")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "创建失败，请重试")
		}
		return
	}

	util.Success(c, util.Response{
		"challenge": challenge,
	})
}

// JoinChallenge 加入挑战
func (h *ChallengeHandler) JoinChallenge(c *gin.Context) {
	username := middleware.CurrentUser(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "ID 不合法")
		return
	}

	if err := h.Store.JoinChallenge(id, username); err != nil {
		if errors.Is(err, store.ErrChallengeNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "挑战不存在")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "加入失败，请重试")
		}
		return
	}

	// 找回挑战名用于通知文案
	var name string
	for _, ch := range h.Store.Challenges() {
		if ch.ID == id {
			name = ch.Name
			break
		}
	}
	h.Notify.Add(username, "Challenge Joined!",
		fmt.Sprintf("You've joined the %s challenge. Good luck!", name),
		"success")

	util.Success(c, util.Response{
		"message": "已加入挑战",
	})
}
