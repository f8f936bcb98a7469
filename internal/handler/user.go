package handler

import (
	"errors"
	"net/http"

	"fittrack/internal/middleware"
	"fittrack/internal/models"
	"fittrack/internal/store"
	"fittrack/internal/util"

	"github.com/gin-gonic/gin"
)

// UserHandler 当前用户资料/设置/注销
type UserHandler struct {
	Store *store.Store
}

func NewUserHandler(st *store.Store) *UserHandler {
	return &UserHandler{Store: st}
}

// GetMe 返回当前登录用户信息（需要经过 AuthMiddleware）
func (h *UserHandler) GetMe(c *gin.Context) {
	username := middleware.CurrentUser(c)

	user, exists := h.Store.GetUser(username)
	if !exists {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "未登录")
		return
	}

	util.Success(c, util.Response{
		"user": gin.H{
			"username":     user.Username,
			"created_at":   user.CreatedAt,
			"last_login":   user.LastLogin,
			"profile":      user.Profile,
			"settings":     user.Settings,
			"stats":        user.Stats,
			"achievements": user.Achievements,
			"challenges":   user.Challenges,
		},
	})
}

type updateSettingsReq struct {
	Profile  map[string]string `json:"profile"`
	Settings *models.Settings  `json:"settings"`
}

// UpdateSettings 保存资料和偏好设置
func (h *UserHandler) UpdateSettings(c *gin.Context) {
	username := middleware.CurrentUser(c)

	var req updateSettingsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "参数错误")
		return
	}

	if req.Settings != nil {
		if req.Settings.Units != "metric" && req.Settings.Units != "imperial" {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "单位只能是 metric 或 imperial")
			return
		}
	}

	if err := h.Store.UpdateSettings(username, req.Profile, req.Settings); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "保存失败，请重试")
		return
	}

	util.Success(c, util.Response{
		"message": "设置保存成功",
	})
}

// DeleteAccount 删除当前账号。训练记录和挑战参与记录会保留（不级联删除）。
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	username := middleware.CurrentUser(c)

	if err := h.Store.DeleteUser(username); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "用户不存在")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "注销失败，请重试")
		}
		return
	}

	util.Success(c, util.Response{
		"message": "账号已删除",
	})
}
