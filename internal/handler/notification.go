package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"fittrack/internal/middleware"
	"fittrack/internal/notify"
	"fittrack/internal/store"
	"fittrack/internal/util"

	"github.com/gin-gonic/gin"
)

// NotificationHandler 站内通知 + 饮水打卡
type NotificationHandler struct {
	Store  *store.Store
	Notify *notify.Manager
}

func NewNotificationHandler(st *store.Store, nm *notify.Manager) *NotificationHandler {
	return &NotificationHandler{Store: st, Notify: nm}
}

// ListNotifications 按时间倒序返回通知，?unread=1 只看未读
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	username := middleware.CurrentUser(c)
	unreadOnly := c.Query("unread") == "1"

	items := h.Notify.ListFor(username, unreadOnly)
	util.Success(c, util.Response{
		"items": items,
	})
}

// MarkRead 标记已读，未知 id 静默忽略
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "ID 不合法")
		return
	}

	h.Notify.MarkRead(id)
	util.Success(c, util.Response{
		"message": "已标记为已读",
	})
}

type addReminderReq struct {
	Type    string `json:"type" binding:"required"`    // workout / water / sleep
	Time    string `json:"time" binding:"required"`    // HH:MM
	Message string `json:"message" binding:"required"`
}

// AddReminder 登记提醒。提醒的定时投递由后台轮询负责（暂未实现投递）。
func (h *NotificationHandler) AddReminder(c *gin.Context) {
	username := middleware.CurrentUser(c)

	var req addReminderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "参数错误")
		return
	}
	if _, err := time.Parse("15:04", req.Time); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "时间格式应为 HH:MM")
		return
	}

	r := h.Notify.AddReminder(username, req.Type, req.Time, req.Message)
	util.Success(c, util.Response{
		"reminder": r,
	})
}

// ListReminders 列出当前用户的提醒
func (h *NotificationHandler) ListReminders(c *gin.Context) {
	username := middleware.CurrentUser(c)
	util.Success(c, util.Response{
		"items": h.Notify.Reminders(username),
	})
}

type logWaterReq struct {
	AmountML int `json:"amount_ml" binding:"required"`
}

// LogWater 饮水打卡：写一条营养记录并发一条提醒通知
func (h *NotificationHandler) LogWater(c *gin.Context) {
	username := middleware.CurrentUser(c)

	var req logWaterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "参数错误")
		return
	}
	if req.AmountML <= 0 || req.AmountML > 5000 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "请输入有效饮水量")
		return
	}

	id, err := h.Store.LogWater(username, req.AmountML)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "保存失败，请重试")
		return
	}

	h.Notify.Add(username, "Water Logged",
		fmt.Sprintf("You've logged %dml of water. Stay hydrated!", req.AmountML),
		"info")

	util.Success(c, util.Response{
		"id":      id,
		"message": "已记录饮水",
	})
}
