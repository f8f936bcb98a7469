package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"fittrack/internal/store"
	"fittrack/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthHandler 负责登录/注册相关接口
type AuthHandler struct {
	Store     *store.Store
	JWTSecret string
	TokenTTL  time.Duration
}

// NewAuthHandler 构造函数
func NewAuthHandler(st *store.Store, jwtSecret string, ttlHours int) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &AuthHandler{
		Store:     st,
		JWTSecret: jwtSecret,
		TokenTTL:  time.Duration(ttlHours) * time.Hour,
	}
}

// ---------- 注册 ----------

type registerReq struct {
	Username string            `json:"username" binding:"required"`
	Password string            `json:"password" binding:"required"`
	Profile  map[string]string `json:"profile"` // age / weight / height / gender
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "参数错误")
		return
	}

	req.Username = strings.TrimSpace(req.Username)

	if err := util.ValidateUsername(req.Username); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "用户名必须为3-20位字母、数字或下划线")
		return
	}
	if len(req.Password) < 6 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "密码至少6位")
		return
	}

	if err := h.Store.Register(req.Username, req.Password, req.Profile); err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "用户名已存在")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "创建用户失败")
		}
		return
	}

	util.Success(c, util.Response{
		"message":  "注册成功",
		"username": req.Username,
	})
}

// ---------- 登录 ----------

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "参数错误")
		return
	}

	req.Username = strings.TrimSpace(req.Username)

	// 用户不存在和密码错误给同一个提示
	if err := h.Store.Authenticate(req.Username, req.Password); err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "用户名或密码错误")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "登录失败，请重试")
		}
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, req.Username, h.TokenTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "生成 token 失败")
		return
	}

	user, _ := h.Store.GetUser(req.Username)
	util.Success(c, util.Response{
		"token": token,
		"user": gin.H{
			"username":   user.Username,
			"last_login": user.LastLogin,
			"settings":   user.Settings,
		},
	})
}
