package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/scenemap/scenemap/pkg/course"
	"github.com/scenemap/scenemap/pkg/place"
)

// httpClient is the shared HTTP client with timeout.
var httpClient = &http.Client{Timeout: 15 * time.Second}

// HTTP talks to a scenemap-compatible backend. Responses use the
// {ok, items|course|id, error} envelope.
type HTTP struct {
	Base  string // e.g. http://localhost:8844
	Token string // bearer token from /api/auth/login

	// Client overrides the shared client, mainly for tests.
	Client *http.Client
}

var _ Client = (*HTTP)(nil)

type envelope struct {
	OK     bool            `json:"ok"`
	Dup    bool            `json:"dup,omitempty"`
	Error  string          `json:"error,omitempty"`
	ID     string          `json:"id,omitempty"`
	Items  json.RawMessage `json:"items,omitempty"`
	Course json.RawMessage `json:"course,omitempty"`
}

func (h *HTTP) ListFavorites(ctx context.Context) ([]place.Record, error) {
	env, err := h.do(ctx, http.MethodGet, "/api/user/favorites", nil)
	if err != nil {
		return nil, err
	}
	var items []place.Record
	if len(env.Items) > 0 {
		if err := json.Unmarshal(env.Items, &items); err != nil {
			return nil, fmt.Errorf("api: decode favorites: %w", err)
		}
	}
	return items, nil
}

func (h *HTTP) AddFavorite(ctx context.Context, r place.Record) error {
	_, err := h.do(ctx, http.MethodPost, "/api/user/favorites", r)
	return err
}

func (h *HTTP) RemoveFavorite(ctx context.Context, id string) error {
	_, err := h.do(ctx, http.MethodDelete, "/api/user/favorites/"+url.PathEscape(id), nil)
	return err
}

func (h *HTTP) ReorderFavorites(ctx context.Context, ids []string) error {
	_, err := h.do(ctx, http.MethodPost, "/api/user/favorites/reorder", map[string][]string{"ids": ids})
	return err
}

func (h *HTTP) ListCourses(ctx context.Context) ([]course.Course, error) {
	env, err := h.do(ctx, http.MethodGet, "/api/user/courses", nil)
	if err != nil {
		return nil, err
	}
	var items []course.Course
	if len(env.Items) > 0 {
		if err := json.Unmarshal(env.Items, &items); err != nil {
			return nil, fmt.Errorf("api: decode courses: %w", err)
		}
	}
	return items, nil
}

func (h *HTTP) SaveCourse(ctx context.Context, c course.Course) (course.Course, error) {
	env, err := h.do(ctx, http.MethodPost, "/api/user/courses", c)
	if err != nil {
		return course.Course{}, err
	}
	if len(env.Course) > 0 {
		var saved course.Course
		if err := json.Unmarshal(env.Course, &saved); err != nil {
			return course.Course{}, fmt.Errorf("api: decode course: %w", err)
		}
		return saved, nil
	}
	// Older backends only return the assigned id.
	saved := c.Clone()
	if env.ID != "" {
		saved.ID = env.ID
	}
	return saved, nil
}

func (h *HTTP) DeleteCourse(ctx context.Context, id string) error {
	_, err := h.do(ctx, http.MethodDelete, "/api/user/courses/"+url.PathEscape(id), nil)
	return err
}

func (h *HTTP) do(ctx context.Context, method, path string, payload any) (*envelope, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("api: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(h.Base, "/")+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if h.Token != "" {
		req.Header.Set("Authorization", "Bearer "+h.Token)
	}

	client := h.Client
	if client == nil {
		client = httpClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthenticated
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusMethodNotAllowed, http.StatusNotImplemented:
		return nil, ErrUnsupported
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("api: read response: %w", err)
	}

	env := &envelope{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, env); err != nil {
			return nil, fmt.Errorf("api: %s %s: status %d: %w", method, path, resp.StatusCode, err)
		}
	}

	if resp.StatusCode >= 400 || !env.OK {
		return nil, remoteError(resp.StatusCode, env.Error)
	}
	return env, nil
}

func remoteError(status int, code string) error {
	switch code {
	case "not_found":
		return ErrNotFound
	case "unsupported", "method_not_allowed":
		return ErrUnsupported
	case "unauthenticated", "unauthorized":
		return ErrUnauthenticated
	}
	if code == "" {
		return fmt.Errorf("api: server returned status %d", status)
	}
	return fmt.Errorf("api: server error %q (status %d)", code, status)
}
