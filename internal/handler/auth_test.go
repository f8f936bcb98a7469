package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fittrack/internal/middleware"
	"fittrack/internal/notify"
	"fittrack/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

// newTestRouter 只挂接口测试需要的路由，不带操作日志中间件
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gw, err := store.NewGateway(t.TempDir(), "", "")
	require.NoError(t, err)
	st := store.New(gw)
	nm := notify.NewManager()

	r := gin.New()
	authHandler := NewAuthHandler(st, testSecret, 1)
	r.POST("/api/auth/register", authHandler.Register)
	r.POST("/api/auth/login", authHandler.Login)

	protected := r.Group("/api", middleware.AuthMiddleware(testSecret, st))
	userHandler := NewUserHandler(st)
	protected.GET("/me", userHandler.GetMe)
	workoutHandler := NewWorkoutHandler(st, nm)
	protected.POST("/workouts", workoutHandler.CreateWorkout)
	protected.GET("/workouts", workoutHandler.ListWorkouts)

	return r
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRegisterLoginFlow(t *testing.T) {
	r := newTestRouter(t)

	// 注册
	w := doJSON(r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice",
		"password": "secret123",
		"profile":  gin.H{"age": "30"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 登录拿 token
	w = doJSON(r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "alice",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	token, ok := data["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)

	// 带 token 访问 /me
	w = doJSON(r, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "alice")

	// 记一次训练
	w = doJSON(r, http.MethodPost, "/api/workouts", token, gin.H{
		"type":     "Running",
		"duration": 30,
		"calories": 300,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body = decodeBody(t, w)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["id"])

	// 列表能看到
	w = doJSON(r, http.MethodGet, "/api/workouts", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Running")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice",
		"password": "different",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterInvalidInput(t *testing.T) {
	r := newTestRouter(t)

	// 用户名带非法字符
	w := doJSON(r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "al ice!",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 密码太短
	w = doJSON(r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice",
		"password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// 密码错误和用户不存在必须是同一个提示
	w1 := doJSON(r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "alice",
		"password": "secret124",
	})
	w2 := doJSON(r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "nobody",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, w1.Code)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
	assert.JSONEq(t, w1.Body.String(), w2.Body.String())
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodGet, "/api/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
