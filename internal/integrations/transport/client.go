package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/m04kA/SAV-InterventionService/pkg/authctx"
)

const maxErrorBody = 512

// Client общий исходящий HTTP клиент для JSON API соседних сервисов
// Bearer-токен входящего запроса пробрасывается без изменений
type Client struct {
	baseURL     string
	httpClient  *http.Client
	staticToken string
}

// Option настройка клиента
type Option func(*Client)

// WithStaticToken токен, который используется, если в контексте нет токена пользователя
// (фоновые задачи без входящего запроса)
func WithStaticToken(token string) Option {
	return func(c *Client) {
		c.staticToken = token
	}
}

// WithHTTPClient подменяет http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New создает клиент для baseURL с таймаутом на весь запрос
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetJSON выполняет GET и декодирует JSON ответа в out
func (c *Client) GetJSON(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, nil, out)
}

// PostJSON выполняет POST с JSON телом; out может быть nil
func (c *Client) PostJSON(ctx context.Context, path string, headers map[string]string, body interface{}, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, headers, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, headers map[string]string, body interface{}, out interface{}) error {
	url := c.baseURL + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: failed to encode body: %v", ErrInternal, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := authctx.Bearer(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	} else if c.staticToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.staticToken)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: %s %s: %v", ErrTimeout, method, path, err)
		}
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// Продолжаем обработку
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
	case resp.StatusCode == http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s %s: status %d", ErrTimeout, method, path, resp.StatusCode)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrUnavailable, method, path, resp.StatusCode, readSnippet(resp.Body))
	default:
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrInvalidResponse, method, path, resp.StatusCode, readSnippet(resp.Body))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: %s %s: reading body: %v", ErrTimeout, method, path, err)
		}
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}

func readSnippet(r io.Reader) string {
	body, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	return strings.TrimSpace(string(body))
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
