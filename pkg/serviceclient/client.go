// Package serviceclient HTTP клиент для вызовов между сервисами.
// Ответы с ошибкой переводятся обратно в apperror, поэтому вызывающий
// сервис видит тот же класс ошибки, что и владелец данных.
package serviceclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"staybnb/pkg/apperror"
	"staybnb/pkg/logger"
	"staybnb/pkg/tracing"
)

// Client клиент одного соседнего сервиса
type Client struct {
	name       string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type Option func(*Client)

// WithTimeout таймаут одного запроса
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRateLimit ограничивает частоту исходящих запросов
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithHTTPClient подменяет транспорт, используется в тестах с httptest
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func New(name, baseURL string, opts ...Option) *Client {
	c := &Client{
		name:    name,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// errorBody формат ошибок сервисов: {"error", "code"} или конверт {"message", "success"}
type errorBody struct {
	Error   string `json:"error"`
	Code    any    `json:"code"` // имя класса ошибки, в конверте число
	Message string `json:"message"`
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

// Do выполняет запрос и декодирует JSON ответ в out (если out не nil)
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) (err error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s: rate limiter: %w", c.name, err)
		}
	}

	ctx, span := tracing.Tracer("staybnb/serviceclient").Start(ctx, c.name+" "+method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("peer.service", c.name),
		),
	)
	defer func() { tracing.Finish(span, err) }()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	tracing.Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: failed to send request: %w", c.name, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode >= http.StatusBadRequest {
		return c.decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", c.name, err)
	}
	return nil
}

func (c *Client) decodeError(resp *http.Response) error {
	var body errorBody
	_ = json.NewDecoder(resp.Body).Decode(&body)

	message := body.Error
	if message == "" {
		message = body.Message
	}

	code, _ := body.Code.(string)
	kind := apperror.ParseKind(code)
	if kind == apperror.KindInternal {
		kind = kindFromStatus(resp.StatusCode)
	}
	if kind == apperror.KindInternal {
		logger.Warn().
			Str("peer", c.name).
			Int("status", resp.StatusCode).
			Str("error", message).
			Msg("Unexpected response from service")
		return fmt.Errorf("%s: unexpected status code: %d", c.name, resp.StatusCode)
	}

	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	return apperror.New(kind, message)
}

func kindFromStatus(status int) apperror.Kind {
	switch status {
	case http.StatusUnauthorized:
		return apperror.KindAuthentication
	case http.StatusForbidden:
		return apperror.KindForbidden
	case http.StatusNotFound:
		return apperror.KindNotFound
	case http.StatusPaymentRequired:
		return apperror.KindInsufficientFunds
	case http.StatusConflict:
		return apperror.KindOverlap
	case http.StatusUnprocessableEntity:
		return apperror.KindInvalidState
	default:
		return apperror.KindInternal
	}
}
