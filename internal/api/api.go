// Package api provides typed wrappers for every operation of the Research
// Assistant backend. Each method maps to exactly one endpoint; all calls
// flow through the shared transport client, which handles auth stamping and
// global failure handling.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ViFerX/research-assistant/internal/domain/document"
	"github.com/ViFerX/research-assistant/internal/domain/project"
	"github.com/ViFerX/research-assistant/internal/domain/user"
	"github.com/ViFerX/research-assistant/internal/transport"
)

// Client exposes the backend's HTTP surface as typed methods.
type Client struct {
	t *transport.Client
}

// NewClient wraps a transport client.
func NewClient(t *transport.Client) *Client {
	return &Client{t: t}
}

// Register creates a new user account.
func (c *Client) Register(ctx context.Context, req user.RegisterRequest) (*user.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	var u user.User
	if err := c.t.DoJSON(ctx, http.MethodPost, "/auth/register", req, &u); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &u, nil
}

// Login exchanges credentials for a bearer token and profile. Installing
// the result into the session store is the caller's job.
func (c *Client) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	var resp user.LoginResponse
	if err := c.t.DoJSON(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &resp, nil
}

// Me returns the profile of the authenticated user.
func (c *Client) Me(ctx context.Context) (*user.User, error) {
	var u user.User
	if err := c.t.DoJSON(ctx, http.MethodGet, "/auth/me", nil, &u); err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	return &u, nil
}

// ListProjects returns all projects owned by the authenticated user.
// The list is fetched fresh on every call; there is no incremental sync.
func (c *Client) ListProjects(ctx context.Context) ([]project.Project, error) {
	var projects []project.Project
	if err := c.t.DoJSON(ctx, http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// CreateProject creates a new research project.
func (c *Client) CreateProject(ctx context.Context, req project.CreateRequest) (*project.Project, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	var p project.Project
	if err := c.t.DoJSON(ctx, http.MethodPost, "/projects", req, &p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return &p, nil
}

// GetProject returns a single project by ID.
func (c *Client) GetProject(ctx context.Context, id int) (*project.Project, error) {
	var p project.Project
	if err := c.t.DoJSON(ctx, http.MethodGet, "/projects/"+strconv.Itoa(id), nil, &p); err != nil {
		return nil, fmt.Errorf("get project %d: %w", id, err)
	}
	return &p, nil
}

// DeleteProject deletes a project by ID.
func (c *Client) DeleteProject(ctx context.Context, id int) error {
	if err := c.t.DoJSON(ctx, http.MethodDelete, "/projects/"+strconv.Itoa(id), nil, nil); err != nil {
		return fmt.Errorf("delete project %d: %w", id, err)
	}
	return nil
}

// UploadDocument uploads a source document into a project. The backend
// issues the document identifier; filenames are never deduplicated.
func (c *Client) UploadDocument(ctx context.Context, projectID int, filename string, file io.Reader) (*document.Document, error) {
	q := url.Values{"project_id": {strconv.Itoa(projectID)}}
	var doc document.Document
	if err := c.t.DoMultipart(ctx, "/upload?"+q.Encode(), filename, file, &doc); err != nil {
		return nil, fmt.Errorf("upload %s: %w", filename, err)
	}
	return &doc, nil
}
