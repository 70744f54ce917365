package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	errorvalues "journal-dashboard/internal/error_values"
	"journal-dashboard/internal/models"
	"journal-dashboard/internal/query"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const maxErrorBody = 1 << 20

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func responseValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// APIError is a transport failure: the request never completed, or the
// server answered with a non-2xx status or an unusable body.
type APIError struct {
	Status  int // 0 when no response was received
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// JournalClient calls the journal REST API. It never retries; retrying is
// the caller's decision.
type JournalClient struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	token   string
}

// NewJournalClient creates an unauthenticated client.
func NewJournalClient(baseURL string, timeout time.Duration) *JournalClient {
	return &JournalClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

// WithToken returns a copy of c that sends token as a bearer credential.
func (c *JournalClient) WithToken(token string) *JournalClient {
	if token == "" {
		return NewJournalClient(c.baseURL, c.timeout)
	}
	base := &http.Client{Timeout: c.timeout}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	authed := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
	authed.Timeout = c.timeout

	return &JournalClient{
		baseURL: c.baseURL,
		timeout: c.timeout,
		client:  authed,
		token:   token,
	}
}

// Call performs one request. Empty query values are omitted. When out is
// non-nil the body is decoded into it and validated.
func (c *JournalClient) Call(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if encoded := encodeQuery(query); encoded != "" {
		u += "?" + encoded
	}

	var reader io.Reader
	if body != nil {
		b, err := sonic.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &APIError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorFromResponse(resp)
	}
	if out == nil {
		return nil
	}

	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(out); err != nil {
		return malformed(resp.StatusCode, path, err)
	}
	if err := responseValidator().Struct(out); err != nil {
		return malformed(resp.StatusCode, path, err)
	}
	return nil
}

func malformed(status int, path string, err error) *APIError {
	return &APIError{
		Status:  status,
		Message: "malformed response from " + path,
		Err:     fmt.Errorf("%w: %v", errorvalues.ErrMalformedResponse, err),
	}
}

// errorFromResponse prefers the JSON "error" field and falls back to the
// status text.
func errorFromResponse(resp *http.Response) *APIError {
	msg := http.StatusText(resp.StatusCode)
	if msg == "" {
		msg = resp.Status
	}

	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if len(bytes.TrimSpace(b)) > 0 {
		var parsed models.ErrorResponse
		if err := sonic.Unmarshal(b, &parsed); err == nil && parsed.Error != "" {
			msg = parsed.Error
		}
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

func encodeQuery(query url.Values) string {
	if len(query) == 0 {
		return ""
	}
	clean := url.Values{}
	for k, vs := range query {
		for _, v := range vs {
			if v != "" {
				clean.Add(k, v)
			}
		}
	}
	return clean.Encode()
}

func (c *JournalClient) Profile(ctx context.Context) (*models.ProfileResponse, error) {
	var out models.ProfileResponse
	if err := c.Call(ctx, http.MethodGet, "/api/profile", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *JournalClient) Stats(ctx context.Context, days int) (*models.StatsSnapshot, error) {
	var out models.StatsSnapshot
	q := url.Values{"days": {strconv.Itoa(days)}}
	if err := c.Call(ctx, http.MethodGet, "/api/stats", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *JournalClient) Entries(ctx context.Context, p query.Params) (*models.EntriesResponse, error) {
	var out models.EntriesResponse
	q := url.Values{
		"limit":      {strconv.Itoa(p.Limit)},
		"offset":     {strconv.Itoa(p.Offset)},
		"start_date": {p.StartDate},
		"end_date":   {p.EndDate},
	}
	if err := c.Call(ctx, http.MethodGet, "/api/entries", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *JournalClient) CreateEntry(ctx context.Context, content string) (*models.EntryRecord, error) {
	var out models.EntryRecord
	body := models.CreateEntryRequest{Content: content}
	if err := c.Call(ctx, http.MethodPost, "/api/entries", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *JournalClient) ChangePlan(ctx context.Context, tier models.PlanTier) (*models.UpgradeResponse, error) {
	var out models.UpgradeResponse
	body := models.UpgradeRequest{Plan: tier}
	if err := c.Call(ctx, http.MethodPost, "/api/subscription/upgrade", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *JournalClient) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var out models.AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.Call(ctx, http.MethodPost, "/api/login", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *JournalClient) Register(ctx context.Context, name, email, password string) (*models.AuthResponse, error) {
	var out models.AuthResponse
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.Call(ctx, http.MethodPost, "/api/register", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
