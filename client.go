// Package shazam is a client for the shazam config API.
package shazam

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/emrgen/shazam/internal/server"
	"github.com/google/uuid"
)

type (
	ConfigResponse      = server.ConfigResponse
	ActivationsResponse = server.ActivationsResponse
	BackupsResponse     = server.BackupsResponse
	EditorsResponse     = server.EditorsResponse
	SubmitFieldRequest  = server.SubmitFieldRequest
)

// APIError is returned for non 2xx responses.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shazam: %d %s", e.StatusCode, e.Message)
}

// Client calls the API as one user.
type Client struct {
	baseURL    string
	token      string
	username   string
	privileged bool
	http       *http.Client
}

type ClientOption func(*Client)

// WithToken sets the bearer token sent with every request.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithPrivileges marks the client user as a super user.
func WithPrivileges(privileged bool) ClientOption {
	return func(c *Client) {
		c.privileged = privileged
	}
}

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.http = client
	}
}

func NewClient(baseURL, username string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		http:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) GetConfig(ctx context.Context, projectID uuid.UUID) (*ConfigResponse, error) {
	return call[ConfigResponse](ctx, c, http.MethodGet, projectPath(projectID, "config"), nil)
}

func (c *Client) Activations(ctx context.Context, projectID uuid.UUID, form string) (*ActivationsResponse, error) {
	return call[ActivationsResponse](ctx, c, http.MethodGet, projectPath(projectID, "forms", form, "activations"), nil)
}

func (c *Client) Backups(ctx context.Context, projectID uuid.UUID) (*BackupsResponse, error) {
	return call[BackupsResponse](ctx, c, http.MethodGet, projectPath(projectID, "backups"), nil)
}

func (c *Client) Restore(ctx context.Context, projectID uuid.UUID, ts int64) (*ConfigResponse, error) {
	return call[ConfigResponse](ctx, c, http.MethodPost, projectPath(projectID, "backups", strconv.FormatInt(ts, 10), "restore"), nil)
}

func (c *Client) CreateField(ctx context.Context, projectID uuid.UUID, field string) (*ConfigResponse, error) {
	return call[ConfigResponse](ctx, c, http.MethodPost, projectPath(projectID, "fields", field), nil)
}

func (c *Client) SubmitField(ctx context.Context, projectID uuid.UUID, field string, req *SubmitFieldRequest) (*ConfigResponse, error) {
	return call[ConfigResponse](ctx, c, http.MethodPut, projectPath(projectID, "fields", field), req)
}

func (c *Client) DeleteField(ctx context.Context, projectID uuid.UUID, field string) (*ConfigResponse, error) {
	return call[ConfigResponse](ctx, c, http.MethodDelete, projectPath(projectID, "fields", field), nil)
}

func (c *Client) ActivateField(ctx context.Context, projectID uuid.UUID, field string) (*ConfigResponse, error) {
	return call[ConfigResponse](ctx, c, http.MethodPost, projectPath(projectID, "fields", field, "activate"), nil)
}

func (c *Client) DeactivateField(ctx context.Context, projectID uuid.UUID, field string) (*ConfigResponse, error) {
	return call[ConfigResponse](ctx, c, http.MethodPost, projectPath(projectID, "fields", field, "deactivate"), nil)
}

func (c *Client) JavascriptEditors(ctx context.Context, projectID uuid.UUID) (*EditorsResponse, error) {
	return call[EditorsResponse](ctx, c, http.MethodGet, projectPath(projectID, "js-editors"), nil)
}

func (c *Client) GrantJavascript(ctx context.Context, projectID uuid.UUID, username string) (*EditorsResponse, error) {
	return call[EditorsResponse](ctx, c, http.MethodPost, projectPath(projectID, "js-editors", username), nil)
}

func (c *Client) RevokeJavascript(ctx context.Context, projectID uuid.UUID, username string) (*EditorsResponse, error) {
	return call[EditorsResponse](ctx, c, http.MethodDelete, projectPath(projectID, "js-editors", username), nil)
}

func call[T any](ctx context.Context, c *Client, method, path string, body any) (*T, error) {
	var res T
	if err := c.do(ctx, method, path, body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func projectPath(projectID uuid.UUID, segments ...string) string {
	path := "/v1/projects/" + projectID.String()
	for _, s := range segments {
		path += "/" + url.PathEscape(s)
	}
	return path
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set(server.HeaderUser, c.username)
	req.Header.Set(server.HeaderSuperUser, strconv.FormatBool(c.privileged))

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(res.Body).Decode(&e); err != nil || e.Error == "" {
			e.Error = http.StatusText(res.StatusCode)
		}
		return &APIError{StatusCode: res.StatusCode, Message: e.Error}
	}

	return json.NewDecoder(res.Body).Decode(out)
}
