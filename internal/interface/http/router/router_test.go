package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appmember "github.com/xiebiao/membership/internal/application/member"
	"github.com/xiebiao/membership/internal/domain/member"
	"github.com/xiebiao/membership/internal/infrastructure/config"
	"github.com/xiebiao/membership/internal/infrastructure/persistence/orm"
	"github.com/xiebiao/membership/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/membership/internal/interface/http/handler"
	"github.com/xiebiao/membership/internal/interface/http/middleware"
	"github.com/xiebiao/membership/pkg/jwt"
	"github.com/xiebiao/membership/pkg/metrics"
)

type testApp struct {
	engine  *gin.Engine
	members member.Repository
	jwt     *jwt.Manager
}

func newTestApp(t *testing.T, requireAuth bool) *testApp {
	t.Helper()
	metrics.InitMetrics()

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		Database: config.DatabaseConfig{
			Driver:        config.DriverSQLite,
			Path:          ":memory:",
			AutoMigrate:   true,
			SlowThreshold: time.Second,
		},
		Audit:      config.AuditConfig{DefaultAuditor: "system"},
		Pagination: config.PaginationConfig{DefaultSize: 5, MaxSize: 2000},
		Metrics:    config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}

	db, cleanup, err := orm.NewDB(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(cleanup)

	txManager := orm.NewTxManager(db)
	memberRepo := orm.NewMemberRepository(db)
	cache := redis.NewUsernameCache(nil, 0)
	jwtManager := jwt.NewManager("test-secret", "membership", time.Hour)

	memberHandler := handler.NewMemberHandler(cfg,
		appmember.NewFindMemberUseCase(memberRepo, cache),
		appmember.NewListMembersUseCase(memberRepo),
		appmember.NewBulkAgePlusUseCase(memberRepo, txManager, cache),
	)

	// member0..member11,ID为1..12
	_, err = appmember.NewSeedMembersUseCase(memberRepo, txManager).Execute(context.Background(), 12)
	require.NoError(t, err)

	engine := New(cfg, zap.NewNop(), txManager, memberRepo, memberHandler,
		middleware.NewAuthMiddleware(jwtManager, requireAuth))
	return &testApp{engine: engine, members: memberRepo, jwt: jwtManager}
}

func (a *testApp) do(method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

type pageBody struct {
	Content []struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		TeamName string `json:"teamName"`
	} `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

func decodePage(t *testing.T, w *httptest.ResponseRecorder) pageBody {
	t.Helper()
	var body pageBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestFindMember(t *testing.T) {
	app := newTestApp(t, false)

	w := app.do(http.MethodGet, "/members/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "member0", w.Body.String())
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = app.do(http.MethodGet, "/members2/2", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "member1", w.Body.String())

	t.Run("会员不存在", func(t *testing.T) {
		for _, path := range []string{"/members/999", "/members2/999"} {
			w := app.do(http.MethodGet, path, "")
			assert.Equal(t, http.StatusNotFound, w.Code, path)
			assert.Contains(t, w.Body.String(), `"code":40401`)
		}
	})

	t.Run("ID格式错误", func(t *testing.T) {
		w := app.do(http.MethodGet, "/members/abc", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListMembers(t *testing.T) {
	app := newTestApp(t, false)

	t.Run("默认分页", func(t *testing.T) {
		w := app.do(http.MethodGet, "/members", "")
		require.Equal(t, http.StatusOK, w.Code)

		body := decodePage(t, w)
		assert.Len(t, body.Content, 5)
		assert.Equal(t, 5, body.Size)
		assert.Equal(t, 0, body.Number)
		assert.EqualValues(t, 12, body.TotalElements)
		assert.Equal(t, 3, body.TotalPages)
		assert.True(t, body.First)
	})

	t.Run("页码和排序", func(t *testing.T) {
		w := app.do(http.MethodGet, "/members?page=1&size=3&sort=id,desc", "")
		require.Equal(t, http.StatusOK, w.Code)

		body := decodePage(t, w)
		require.Len(t, body.Content, 3)
		assert.EqualValues(t, 9, body.Content[0].ID)
		assert.Equal(t, "member8", body.Content[0].Username)
		assert.Equal(t, "", body.Content[0].TeamName)
		assert.Equal(t, 1, body.Number)
	})

	t.Run("每页条数上限", func(t *testing.T) {
		w := app.do(http.MethodGet, "/members?size=5000", "")
		require.Equal(t, http.StatusOK, w.Code)

		body := decodePage(t, w)
		assert.Len(t, body.Content, 12)
		assert.Equal(t, 2000, body.Size)
		assert.True(t, body.Last)
	})

	t.Run("不支持的排序字段", func(t *testing.T) {
		w := app.do(http.MethodGet, "/members?sort=password,asc", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("页码过大", func(t *testing.T) {
		for _, q := range []string{
			"/members?page=9223372036854775807&size=2",
			"/members?page=4611686018427387904&size=4",
		} {
			w := app.do(http.MethodGet, q, "")
			assert.Equal(t, http.StatusBadRequest, w.Code, q)
			assert.Contains(t, w.Body.String(), `"code":40900`, q)
		}
	})

	t.Run("页码格式错误", func(t *testing.T) {
		w := app.do(http.MethodGet, "/members?page=abc", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBulkAgePlus(t *testing.T) {
	app := newTestApp(t, false)
	token, err := app.jwt.GenerateToken("alice")
	require.NoError(t, err)

	w := app.do(http.MethodPost, "/members/age-plus?age=10", token)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Code int `json:"code"`
		Data struct {
			Rows int `json:"rows"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Code)
	assert.Equal(t, 2, body.Data.Rows)

	m, err := app.members.FindMember1ByUsername(context.Background(), "member11")
	require.NoError(t, err)
	assert.Equal(t, 12, m.Age)
	// 批量更新不经过审计
	assert.Equal(t, "system", m.LastModifiedBy)
}

func TestAuth(t *testing.T) {
	app := newTestApp(t, true)

	w := app.do(http.MethodGet, "/members/1", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(http.MethodGet, "/members/1", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := app.jwt.GenerateToken("alice")
	require.NoError(t, err)
	w = app.do(http.MethodGet, "/members/1", token)
	assert.Equal(t, http.StatusOK, w.Code)

	// 健康检查不需要登录
	w = app.do(http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t, false)
	app.do(http.MethodGet, "/members/1", "")

	w := app.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",path="/members/:id",status="200"}`)
	assert.Contains(t, w.Body.String(), "member_queries_total")
}
