package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LENAX/task-order/pkg/api/dto"
	"github.com/LENAX/task-order/pkg/core/cache"
	"github.com/LENAX/task-order/pkg/core/events"
	"github.com/LENAX/task-order/pkg/service"
	"github.com/LENAX/task-order/pkg/storage"
	"github.com/LENAX/task-order/pkg/storage/sqlite"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, withStorage bool) (*gin.Engine, *service.Service) {
	t.Helper()
	var repo storage.OrderingRepository
	if withStorage {
		r, err := sqlite.Open(":memory:", storage.PoolOptions{})
		require.NoError(t, err)
		repo = r
	}
	svc := service.New(
		service.Options{MaxTasks: 10, MaxEdges: 20, Verify: true, CacheTTL: time.Minute},
		repo,
		cache.NewMemoryResultCache[*service.Result](0),
		events.NewBus(16, nil),
	)
	t.Cleanup(func() { svc.Close() })
	return SetupRouter(svc, "1.0.0-test", 5*time.Second), svc
}

func doRequest(router http.Handler, method, path, contentType string, body []byte) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postJSON(router http.Handler, path string, v any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(v)
	return doRequest(router, http.MethodPost, path, "application/json", body)
}

// TestHealth 测试健康检查
func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t, false)

	w := doRequest(router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.APIResponse[dto.HealthResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, "healthy", resp.Data.Status)
	assert.Equal(t, "1.0.0-test", resp.Data.Version)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = doRequest(router, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var ready dto.APIResponse[dto.ReadyResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ready))
	assert.False(t, ready.Data.Storage)
}

// TestCreateOrdering 测试JSON排序请求
func TestCreateOrdering(t *testing.T) {
	router, _ := newTestRouter(t, true)

	t.Run("返回拓扑序", func(t *testing.T) {
		w := postJSON(router, "/api/v1/orderings", dto.OrderingRequest{
			Tasks: 5,
			Edges: [][2]int{{1, 2}, {2, 3}, {1, 3}, {1, 5}},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp dto.APIResponse[dto.OrderingResponse]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []int{1, 4, 2, 5, 3}, resp.Data.Order)
		assert.False(t, resp.Data.Cycle)
		assert.NotEmpty(t, resp.Data.ID)
	})

	t.Run("存在环返回409", func(t *testing.T) {
		w := postJSON(router, "/api/v1/orderings", dto.OrderingRequest{
			Tasks: 3,
			Edges: [][2]int{{1, 2}, {2, 3}, {3, 1}},
		})
		assert.Equal(t, http.StatusConflict, w.Code)

		var resp dto.APIResponse[dto.OrderingResponse]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 409, resp.Code)
		assert.Equal(t, "Topological order does not exist.", resp.Message)
		assert.True(t, resp.Data.Cycle)
		assert.Empty(t, resp.Data.Order)
	})

	t.Run("非法输入返回400", func(t *testing.T) {
		cases := []any{
			dto.OrderingRequest{Tasks: 0},
			dto.OrderingRequest{Tasks: 2, Edges: [][2]int{{1, 3}}},
			dto.OrderingRequest{Tasks: 11},
			map[string]any{"tasks": "abc"},
		}
		for _, c := range cases {
			w := postJSON(router, "/api/v1/orderings", c)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		}
	})
}

// TestCreateOrderingText 测试文本排序请求
func TestCreateOrderingText(t *testing.T) {
	router, _ := newTestRouter(t, false)

	w := doRequest(router, http.MethodPost, "/api/v1/orderings/text", "text/plain",
		[]byte("4 2\n1 2\n1 2\n"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp dto.APIResponse[dto.OrderingResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []int{1, 3, 4, 2}, resp.Data.Order)

	w = doRequest(router, http.MethodPost, "/api/v1/orderings/text", "text/plain", []byte("3 1\n1 x\n"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestOrderingHistory 测试排序历史查询
func TestOrderingHistory(t *testing.T) {
	router, _ := newTestRouter(t, true)

	var ids []string
	for n := 1; n <= 3; n++ {
		w := postJSON(router, "/api/v1/orderings", dto.OrderingRequest{Tasks: n})
		require.Equal(t, http.StatusOK, w.Code)
		var resp dto.APIResponse[dto.OrderingResponse]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		ids = append(ids, resp.Data.ID)
	}

	w := doRequest(router, http.MethodGet, "/api/v1/orderings?limit=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list dto.APIResponse[dto.ListResponse[dto.OrderingRecord]]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Data.Total)
	assert.True(t, list.Data.HasMore)

	w = doRequest(router, http.MethodGet, "/api/v1/orderings/"+ids[2], "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rec dto.APIResponse[dto.OrderingRecord]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, []int{1, 2, 3}, rec.Data.Order)

	w = doRequest(router, http.MethodGet, "/api/v1/orderings/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/orderings?limit=1000", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestOrderingHistoryWithoutStorage 测试未配置存储时的历史查询
func TestOrderingHistoryWithoutStorage(t *testing.T) {
	router, _ := newTestRouter(t, false)

	w := doRequest(router, http.MethodGet, "/api/v1/orderings", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

// TestOrderingStream 测试事件推送
func TestOrderingStream(t *testing.T) {
	router, _ := newTestRouter(t, false)
	server := httptest.NewServer(router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/orderings/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// 订阅在升级前完成，此时发布的事件一定能收到
	body, _ := json.Marshal(dto.OrderingRequest{Tasks: 2, Edges: [][2]int{{2, 1}}})
	resp, err := http.Post(server.URL+"/api/v1/orderings", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var e events.OrderingEvent
	require.NoError(t, conn.ReadJSON(&e))
	assert.Equal(t, events.EventOrderingCompleted, e.Type)
	assert.Equal(t, []int{2, 1}, e.Order)
}

// TestAPIServer 测试服务器启动与关闭
func TestAPIServer(t *testing.T) {
	_, svc := newTestRouter(t, false)
	cfg := DefaultServerConfig()
	srv := NewAPIServer(svc, cfg, "test")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + srv.Addr() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 3*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.NoError(t, <-done)
}
