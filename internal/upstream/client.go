package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"opsdeck/internal/domain"
)

// Client is the typed HTTP client for the remote inventory backend. It owns
// no data: every call fetches or mutates backend-owned state.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

/* ---------- LIST ENDPOINTS ---------- */

func (c *Client) ListEquipment(ctx context.Context) ([]domain.EquipmentItem, int, error) {
	return listOf[domain.EquipmentItem](ctx, c, "/equipment")
}

func (c *Client) ListLowStock(ctx context.Context) ([]domain.LowStockAlert, int, error) {
	return listOf[domain.LowStockAlert](ctx, c, "/low-stock-alert")
}

func (c *Client) ListOverstock(ctx context.Context) ([]domain.OverstockAlert, int, error) {
	return listOf[domain.OverstockAlert](ctx, c, "/overstock-alert")
}

func (c *Client) ListIssues(ctx context.Context) ([]domain.Issue, int, error) {
	return listOf[domain.Issue](ctx, c, "/equipment-issues")
}

func listOf[T any](ctx context.Context, c *Client, path string) ([]T, int, error) {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, 0, err
	}
	list := DecodeList[T](body)
	return list.Items, list.Total, nil
}

/* ---------- MUTATIONS ---------- */

func (c *Client) CreateRestockRequest(ctx context.Context, req domain.RestockRequest) error {
	_, err := c.do(ctx, http.MethodPost, "/lowstock-requests", req)
	return err
}

func (c *Client) CreateIssue(ctx context.Context, report domain.IssueReport) (*domain.Issue, error) {
	body, err := c.do(ctx, http.MethodPost, "/equipment-issues", report)
	if err != nil {
		return nil, err
	}

	var issue domain.Issue
	if err := json.Unmarshal(body, &issue); err != nil {
		return nil, &Error{Kind: KindDecode, Message: "unexpected response from backend", Err: err}
	}
	return &issue, nil
}

func (c *Client) ArchiveCategory(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/equipment-category/archive/%d", id), nil)
	return err
}

func (c *Client) ArchiveLocation(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/storage-location/archive/%d", id), nil)
	return err
}

/* ---------- TRANSPORT ---------- */

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, &Error{Kind: KindDecode, Message: "failed to encode request", Err: err}
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "failed to build request", Err: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend unreachable", zap.String("path", path), zap.Error(err))
		return nil, &Error{Kind: KindTransport, Message: "backend is unreachable", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "failed to read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp.StatusCode, body)
	}

	return body, nil
}

// decodeAPIError prefers the backend's structured {message} body and falls
// back to the raw text, then the status text.
func decodeAPIError(statusCode int, body []byte) *Error {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return &Error{Kind: KindAPI, StatusCode: statusCode, Message: payload.Message}
	}

	message := strings.TrimSpace(string(body))
	if message == "" {
		message = http.StatusText(statusCode)
	}
	return &Error{Kind: KindHTTP, StatusCode: statusCode, Message: message}
}
