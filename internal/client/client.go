// Package client talks to the practice server over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	practicesession "github.com/drillroom/backend/internal/domain/practice_session"
	"github.com/drillroom/backend/internal/domain/questionbank"
)

// TransportError means the server could not be reached or its reply could
// not be understood.
type TransportError struct {
	Op     string
	Status int // 0 when no response arrived
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RejectedError is a well-formed reply with success=false.
type RejectedError struct {
	Op      string
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: rejected: %s", e.Op, e.Message)
}

func (e *RejectedError) Unwrap() error { return practicesession.ErrRejected }

// Payload is everything a practice session starts from.
type Payload struct {
	ProjectName string                               `json:"projectName"`
	DisplayName string                               `json:"displayName"`
	Mode        practicesession.Mode                 `json:"mode"`
	Questions   []questionbank.Question              `json:"questions"`
	UserAnswers map[int]practicesession.AnswerRecord `json:"userAnswers"`
	Total       int                                  `json:"total"`
}

// Config turns the payload into a session config.
func (p *Payload) Config() practicesession.Config {
	return practicesession.Config{
		Project:      p.ProjectName,
		Mode:         p.Mode,
		Questions:    p.Questions,
		PriorAnswers: p.UserAnswers,
		Total:        p.Total,
	}
}

type Project struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Total       int    `json:"total"`
	Answered    int    `json:"answered"`
	Correct     int    `json:"correct"`
}

type Folder struct {
	Name     string    `json:"name"`
	Projects []Project `json:"projects"`
}

type ProjectList struct {
	Folders  []Folder  `json:"folders"`
	Projects []Project `json:"projects"`
}

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

var _ practicesession.Backend = (*Client)(nil)

// New creates a Client for the server at baseURL. A zero timeout waits for
// replies indefinitely.
func New(baseURL, token string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// LoadPractice fetches the initial payload for project in mode.
func (c *Client) LoadPractice(ctx context.Context, project string, mode practicesession.Mode) (*Payload, error) {
	var p Payload
	path := "/api/practice/" + url.PathEscape(project) + "/" + url.PathEscape(string(mode))
	if err := c.do(ctx, "load practice", http.MethodGet, path, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Projects lists the projects available to the token with their progress.
func (c *Client) Projects(ctx context.Context) (*ProjectList, error) {
	var l ProjectList
	if err := c.do(ctx, "list projects", http.MethodGet, "/api/projects", nil, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *Client) SubmitAnswer(ctx context.Context, project string, index int, answer string) (practicesession.SubmitResult, error) {
	body := map[string]any{"project": project, "index": index, "answer": answer}
	var resp struct {
		Correct       bool   `json:"correct"`
		CorrectAnswer string `json:"correct_answer"`
	}
	if err := c.do(ctx, "submit answer", http.MethodPost, "/api/submit_answer", body, &resp); err != nil {
		return practicesession.SubmitResult{}, err
	}
	return practicesession.SubmitResult{Correct: resp.Correct, CorrectAnswer: resp.CorrectAnswer}, nil
}

func (c *Client) ResetProgress(ctx context.Context, project string) error {
	body := map[string]any{"project": project}
	return c.do(ctx, "reset progress", http.MethodPost, "/api/reset_progress", body, nil)
}

// envelope is the part of a reply that says whether the call succeeded.
// Success is nil for replies that carry no flag, like the practice payload.
type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &TransportError{Op: op, Err: err}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	reqID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Request-ID", reqID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Status: resp.StatusCode, Err: err}
	}
	c.logger.Debug("api call",
		"op", op,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", reqID,
	)

	var env envelope
	envErr := json.Unmarshal(data, &env)
	if envErr == nil && env.Success != nil && !*env.Success {
		return &RejectedError{Op: op, Status: resp.StatusCode, Message: env.Message}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Op: op, Status: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}
	if envErr != nil {
		return &TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode reply: %w", envErr)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode reply: %w", err)}
	}
	return nil
}
