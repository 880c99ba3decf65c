//go:build integration

package integration

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 集成测试辅助函数
//
// 前置条件：
//   - 服务已启动，且 app.seed_members=true（会员member0..member99）
//   - app.require_auth=false，或通过MEMBERSHIP_TOKEN传入Token（cmd/api -issue-token生成）
//
// 运行方式：
//
//	go test -tags integration -v ./test/integration/...

const (
	// defaultBaseURL 服务地址，可通过MEMBERSHIP_BASE_URL覆盖
	defaultBaseURL = "http://localhost:8080"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// MemberItem 分页内容项
type MemberItem struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	TeamName string `json:"teamName"`
}

// MemberPage 会员分页响应
type MemberPage struct {
	Content       []MemberItem `json:"content"`
	TotalElements int64        `json:"totalElements"`
	TotalPages    int          `json:"totalPages"`
	Number        int          `json:"number"`
	Size          int          `json:"size"`
	First         bool         `json:"first"`
	Last          bool         `json:"last"`
}

// BaseURL 服务地址
func BaseURL() string {
	if u := os.Getenv("MEMBERSHIP_BASE_URL"); u != "" {
		return u
	}
	return defaultBaseURL
}

// RequireServer 服务不可用时跳过测试
func RequireServer(t *testing.T) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(BaseURL() + "/ping")
	if err != nil {
		t.Skipf("服务未启动(%s): %v", BaseURL(), err)
	}
	_ = resp.Body.Close()
}

// Do 发送请求，返回状态码、Content-Type和响应体
func Do(t *testing.T, method, path string) (int, string, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, BaseURL()+path, nil)
	require.NoError(t, err, "创建HTTP请求失败")
	if token := os.Getenv("MEMBERSHIP_TOKEN"); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	return resp.StatusCode, resp.Header.Get("Content-Type"), body
}

// GetPage 请求会员分页接口并解析
func GetPage(t *testing.T, query string) MemberPage {
	t.Helper()

	status, _, body := Do(t, http.MethodGet, "/members"+query)
	require.Equal(t, http.StatusOK, status, string(body))

	var page MemberPage
	require.NoError(t, json.Unmarshal(body, &page), "解析分页响应失败: %s", string(body))
	return page
}
