package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Behrad-Mahdavi/NexusOs/internal/dashboard"
	"github.com/Behrad-Mahdavi/NexusOs/internal/events"
	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
	"github.com/Behrad-Mahdavi/NexusOs/internal/timer"
)

// Client is a Go SDK for the nexus-server API
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithToken starts the client with an existing access token
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// NewClient creates a new nexus-server client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Token returns the current access token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken replaces the access token
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// APIError is an error envelope returned by the server
type APIError struct {
	StatusCode int               `json:"-"`
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Fields     map[string]string `json:"fields,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %s - %s", e.Code, e.Message)
}

// IsUnauthorized reports whether err means the session is gone
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == "unauthorized"
}

// IsValidation reports whether err carries field errors
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == "validation_error"
}

// IsNotFound reports whether the record does not exist
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == "not_found"
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
}

// Auth

// SignUp registers a new account
func (c *Client) SignUp(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	if err := c.call(ctx, http.MethodPost, "/api/v1/auth/signup", models.CredentialsRequest{Email: email, Password: password}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SignIn authenticates and keeps the issued token for later calls
func (c *Client) SignIn(ctx context.Context, email, password string) (*models.SessionResponse, error) {
	var session models.SessionResponse
	if err := c.call(ctx, http.MethodPost, "/api/v1/auth/signin", models.CredentialsRequest{Email: email, Password: password}, &session); err != nil {
		return nil, err
	}
	c.SetToken(session.AccessToken)
	return &session, nil
}

// SignOut revokes the current token
func (c *Client) SignOut(ctx context.Context) error {
	if err := c.call(ctx, http.MethodPost, "/api/v1/auth/signout", nil, nil); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}

// Session returns the signed-in user
func (c *Client) Session(ctx context.Context) (*models.User, error) {
	var result struct {
		User *models.User `json:"user"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/v1/auth/session", nil, &result); err != nil {
		return nil, err
	}
	return result.User, nil
}

// Tasks

// ListTasks retrieves the user's tasks
func (c *Client) ListTasks(ctx context.Context, filters models.TaskFilters) ([]models.Task, error) {
	q := url.Values{}
	if filters.Context != "" {
		q.Set("context", string(filters.Context))
	}
	if filters.Status != "" {
		q.Set("status", string(filters.Status))
	}
	if filters.Type != "" {
		q.Set("type", string(filters.Type))
	}

	path := "/api/v1/tasks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var result struct {
		Tasks []models.Task `json:"tasks"`
	}
	if err := c.call(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Tasks, nil
}

// SaveTask upserts a task and returns it with its server id
func (c *Client) SaveTask(ctx context.Context, t models.Task) (*models.Task, error) {
	var saved models.Task
	if err := c.call(ctx, http.MethodPut, "/api/v1/tasks", t, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// DeleteTask removes a task
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/api/v1/tasks/"+url.PathEscape(id), nil, nil)
}

// SetTaskStatus moves a task to another column
func (c *Client) SetTaskStatus(ctx context.Context, id string, status models.TaskStatus) (*models.Task, error) {
	var task models.Task
	if err := c.call(ctx, http.MethodPost, "/api/v1/tasks/"+url.PathEscape(id)+"/status", models.StatusRequest{Status: status}, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// SaveReadingProgress records the page a book is at
func (c *Client) SaveReadingProgress(ctx context.Context, id string, currentPage int) (*models.ProgressResponse, error) {
	var resp models.ProgressResponse
	if err := c.call(ctx, http.MethodPost, "/api/v1/tasks/"+url.PathEscape(id)+"/progress", models.ProgressRequest{CurrentPage: &currentPage}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// University

// ListCourses retrieves the weekly schedule
func (c *Client) ListCourses(ctx context.Context) ([]models.Course, error) {
	var result struct {
		Courses []models.Course `json:"courses"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/v1/courses", nil, &result); err != nil {
		return nil, err
	}
	return result.Courses, nil
}

// SaveCourse upserts a course
func (c *Client) SaveCourse(ctx context.Context, course models.Course) (*models.Course, error) {
	var saved models.Course
	if err := c.call(ctx, http.MethodPut, "/api/v1/courses", course, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// DeleteCourse removes a course with its assignments
func (c *Client) DeleteCourse(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/api/v1/courses/"+url.PathEscape(id), nil, nil)
}

// ListAssignments retrieves assignments, soonest due first
func (c *Client) ListAssignments(ctx context.Context) ([]models.Assignment, error) {
	var result struct {
		Assignments []models.Assignment `json:"assignments"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/v1/assignments", nil, &result); err != nil {
		return nil, err
	}
	return result.Assignments, nil
}

// SaveAssignment upserts an assignment
func (c *Client) SaveAssignment(ctx context.Context, a models.Assignment) (*models.Assignment, error) {
	var saved models.Assignment
	if err := c.call(ctx, http.MethodPut, "/api/v1/assignments", a, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// ToggleAssignment flips completion
func (c *Client) ToggleAssignment(ctx context.Context, id string) (*models.Assignment, error) {
	var a models.Assignment
	if err := c.call(ctx, http.MethodPost, "/api/v1/assignments/"+url.PathEscape(id)+"/toggle", nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// DeleteAssignment removes an assignment
func (c *Client) DeleteAssignment(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/api/v1/assignments/"+url.PathEscape(id), nil, nil)
}

// Graph

// Graph retrieves the knowledge graph
func (c *Client) Graph(ctx context.Context) (*models.Graph, error) {
	var g models.Graph
	if err := c.call(ctx, http.MethodGet, "/api/v1/graph", nil, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// SaveNode upserts a node and links it to the connected ids
func (c *Client) SaveNode(ctx context.Context, req models.SaveNodeRequest) (*models.Node, error) {
	var n models.Node
	if err := c.call(ctx, http.MethodPut, "/api/v1/graph/nodes", req, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// DeleteNode removes a node and its links
func (c *Client) DeleteNode(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/api/v1/graph/nodes/"+url.PathEscape(id), nil, nil)
}

// Focus

// ListFocusSessions retrieves recent focus sessions
func (c *Client) ListFocusSessions(ctx context.Context) ([]models.FocusSession, error) {
	var result struct {
		Sessions []models.FocusSession `json:"sessions"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/v1/focus/sessions", nil, &result); err != nil {
		return nil, err
	}
	return result.Sessions, nil
}

// RecordFocusSession appends a focus session
func (c *Client) RecordFocusSession(ctx context.Context, s models.FocusSession) (*models.FocusSession, error) {
	var saved models.FocusSession
	if err := c.call(ctx, http.MethodPost, "/api/v1/focus/sessions", s, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// Timer

// Timer retrieves the countdown
func (c *Client) Timer(ctx context.Context) (*timer.View, error) {
	return c.timerCall(ctx, http.MethodGet, "/api/v1/timer", nil)
}

// StartTimer starts a countdown; zero minutes uses the server default
func (c *Client) StartTimer(ctx context.Context, minutes int, taskID string) (*timer.View, error) {
	body := map[string]interface{}{"duration_minutes": minutes}
	if taskID != "" {
		body["task_id"] = taskID
	}
	return c.timerCall(ctx, http.MethodPost, "/api/v1/timer/start", body)
}

// PauseTimer freezes the countdown
func (c *Client) PauseTimer(ctx context.Context) (*timer.View, error) {
	return c.timerCall(ctx, http.MethodPost, "/api/v1/timer/pause", nil)
}

// ResumeTimer continues a paused countdown
func (c *Client) ResumeTimer(ctx context.Context) (*timer.View, error) {
	return c.timerCall(ctx, http.MethodPost, "/api/v1/timer/resume", nil)
}

// ResetTimer abandons the countdown
func (c *Client) ResetTimer(ctx context.Context) (*timer.View, error) {
	return c.timerCall(ctx, http.MethodPost, "/api/v1/timer/reset", nil)
}

// CompleteTimer finishes the countdown and returns the recorded session
func (c *Client) CompleteTimer(ctx context.Context) (*timer.View, *models.FocusSession, error) {
	var result struct {
		Timer   timer.View           `json:"timer"`
		Session *models.FocusSession `json:"session"`
	}
	if err := c.call(ctx, http.MethodPost, "/api/v1/timer/complete", nil, &result); err != nil {
		return nil, nil, err
	}
	return &result.Timer, result.Session, nil
}

func (c *Client) timerCall(ctx context.Context, method, path string, body interface{}) (*timer.View, error) {
	var view timer.View
	if err := c.call(ctx, method, path, body, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Dashboard

// Overview retrieves the home screen
func (c *Client) Overview(ctx context.Context) (*dashboard.Overview, error) {
	var o dashboard.Overview
	if err := c.call(ctx, http.MethodGet, "/api/v1/dashboard", nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Finance retrieves the finance view
func (c *Client) Finance(ctx context.Context) (*dashboard.FinanceSummary, error) {
	var f dashboard.FinanceSummary
	if err := c.call(ctx, http.MethodGet, "/api/v1/dashboard/finance", nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Health checks if the service is healthy
func (c *Client) Health(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/health", nil, nil)
}

// call sends body as JSON and decodes the envelope's data into out
func (c *Client) call(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	status, resp, err := c.doRequest(ctx, method, path, reader)
	if err != nil {
		return err
	}

	var result envelope
	if err := json.Unmarshal(resp, &result); err != nil {
		return fmt.Errorf("failed to unmarshal response (HTTP %d): %w", status, err)
	}

	if !result.Success {
		if result.Error == nil {
			return &APIError{StatusCode: status, Code: "unknown", Message: http.StatusText(status)}
		}
		result.Error.StatusCode = status
		return result.Error
	}

	if out == nil || len(result.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(result.Data, out); err != nil {
		return fmt.Errorf("failed to unmarshal response data: %w", err)
	}
	return nil
}

// doRequest performs an HTTP request
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, respBody, nil
}

// Events streams the user's change notifications until ctx is done, the
// server closes the stream, or fn returns false
func (c *Client) Events(ctx context.Context, fn func(events.Event) bool) error {
	u, err := url.Parse(c.baseURL + "/api/v1/events")
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	q := u.Query()
	q.Set("access_token", c.Token())
	u.RawQuery = q.Encode()

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return &APIError{StatusCode: resp.StatusCode, Code: "unauthorized", Message: "no active session"}
		}
		return fmt.Errorf("failed to connect to event stream: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	for {
		var e events.Event
		if err := conn.ReadJSON(&e); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("event stream: %w", err)
		}
		if !fn(e) {
			return nil
		}
	}
}
