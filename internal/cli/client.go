package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// DigestResponse — digest из API.
type DigestResponse struct {
	ID            string `json:"id"`
	UserID        int64  `json:"user_id"`
	ChatID        int64  `json:"chat_id"`
	Status        string `json:"status"`
	DocumentCount int    `json:"document_count"`
	SummaryCount  int    `json:"summary_count"`
	SummaryText   string `json:"summary_text,omitempty"`
	Error         string `json:"error,omitempty"`
	StartedAt     string `json:"started_at,omitempty"`
	FinishedAt    string `json:"finished_at,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// SessionResponse — сессия из API.
type SessionResponse struct {
	UserID          int64  `json:"user_id"`
	Phase           string `json:"phase"`
	PendingCount    int    `json:"pending_count"`
	Processing      bool   `json:"processing"`
	OldestPendingAt string `json:"oldest_pending_at,omitempty"`
}

// ListDigestsOpts — параметры фильтрации digests.
type ListDigestsOpts struct {
	UserID int64
	Status string
	Limit  int
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для Briefly API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Digests ---

// ListDigests возвращает историю дайджестов с фильтрацией.
func (c *Client) ListDigests(opts ListDigestsOpts) ([]DigestResponse, error) {
	params := url.Values{}
	if opts.UserID != 0 {
		params.Set("user_id", fmt.Sprintf("%d", opts.UserID))
	}
	if opts.Status != "" {
		params.Set("status", opts.Status)
	}
	if opts.Limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", opts.Limit))
	}

	var digests []DigestResponse
	err := c.list("/api/v1/digests", params, &digests)
	return digests, err
}

// GetDigest возвращает digest по ID.
func (c *Client) GetDigest(id string) (*DigestResponse, error) {
	var digest DigestResponse
	err := c.get("/api/v1/digests/"+id, &digest)
	return &digest, err
}

// --- Sessions ---

// ListSessions возвращает все сессии накопления.
func (c *Client) ListSessions() ([]SessionResponse, error) {
	var sessions []SessionResponse
	err := c.list("/api/v1/sessions", nil, &sessions)
	return sessions, err
}

// GetSession возвращает сессию пользователя.
func (c *Client) GetSession(userID int64) (*SessionResponse, error) {
	var session SessionResponse
	err := c.get(fmt.Sprintf("/api/v1/sessions/%d", userID), &session)
	return &session, err
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	resp, err := c.do(http.MethodGet, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) list(path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(http.MethodGet, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) do(method, path string) (*http.Response, error) {
	req, err := http.NewRequest(method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
