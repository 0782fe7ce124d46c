package taskorder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/LENAX/task-order/pkg/api/dto"
)

// APIError 服务端返回的业务错误
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("服务端错误(%d): %s", e.Code, e.Message)
}

// TaskOrder HTTP API客户端
type TaskOrder struct {
	baseURL    string
	httpClient *http.Client
}

// New 创建TaskOrder客户端
func New(baseURL string) *TaskOrder {
	return &TaskOrder{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ========== Ordering API ==========

// Order 提交JSON排序请求；存在环时返回 Cycle=true 的结果而不是错误
func (t *TaskOrder) Order(tasks int, edges [][2]int) (*dto.OrderingResponse, error) {
	req := dto.OrderingRequest{Tasks: tasks, Edges: edges}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("序列化请求体失败: %w", err)
	}
	return t.order("/api/v1/orderings", "application/json", bytes.NewReader(data))
}

// OrderText 以文本格式提交排序请求
func (t *TaskOrder) OrderText(text string) (*dto.OrderingResponse, error) {
	return t.order("/api/v1/orderings/text", "text/plain", strings.NewReader(text))
}

func (t *TaskOrder) order(path, contentType string, body io.Reader) (*dto.OrderingResponse, error) {
	var resp dto.APIResponse[dto.OrderingResponse]
	if err := t.post(path, contentType, body, &resp); err != nil {
		return nil, err
	}
	if resp.Code == http.StatusConflict && resp.Data.Cycle {
		return &resp.Data, nil
	}
	if resp.Code != 0 {
		return nil, &APIError{Code: resp.Code, Message: resp.Message}
	}
	return &resp.Data, nil
}

// ListOrderings 查询排序历史
func (t *TaskOrder) ListOrderings(limit, offset int) (*dto.ListResponse[dto.OrderingRecord], error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}

	path := "/api/v1/orderings"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var resp dto.APIResponse[dto.ListResponse[dto.OrderingRecord]]
	if err := t.get(path, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, &APIError{Code: resp.Code, Message: resp.Message}
	}
	return &resp.Data, nil
}

// GetOrdering 查询单条排序历史
func (t *TaskOrder) GetOrdering(id string) (*dto.OrderingRecord, error) {
	var resp dto.APIResponse[dto.OrderingRecord]
	if err := t.get("/api/v1/orderings/"+url.PathEscape(id), &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, &APIError{Code: resp.Code, Message: resp.Message}
	}
	return &resp.Data, nil
}

// ========== Health API ==========

// Health 健康检查
func (t *TaskOrder) Health() (*dto.HealthResponse, error) {
	var resp dto.APIResponse[dto.HealthResponse]
	if err := t.get("/health", &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, &APIError{Code: resp.Code, Message: resp.Message}
	}
	return &resp.Data, nil
}

func (t *TaskOrder) get(path string, result interface{}) error {
	resp, err := t.httpClient.Get(t.baseURL + path)
	if err != nil {
		return fmt.Errorf("HTTP请求失败: %w", err)
	}
	defer resp.Body.Close()

	return t.parseResponse(resp, result)
}

func (t *TaskOrder) post(path, contentType string, body io.Reader, result interface{}) error {
	resp, err := t.httpClient.Post(t.baseURL+path, contentType, body)
	if err != nil {
		return fmt.Errorf("HTTP请求失败: %w", err)
	}
	defer resp.Body.Close()

	return t.parseResponse(resp, result)
}

func (t *TaskOrder) parseResponse(resp *http.Response, result interface{}) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取响应体失败: %w", err)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("解析响应失败: %w, body: %s", err, string(body))
	}

	return nil
}
