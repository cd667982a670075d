// Package api defines the remote collection contract and its HTTP client.
package api

import (
	"context"
	"errors"

	"github.com/scenemap/scenemap/pkg/course"
	"github.com/scenemap/scenemap/pkg/place"
)

var (
	// ErrUnauthenticated means the request carried no valid session.
	ErrUnauthenticated = errors.New("api: not signed in")

	// ErrNotFound means the target collection or item does not exist
	// remotely. Mutations treat this as already satisfied.
	ErrNotFound = errors.New("api: not found")

	// ErrUnsupported means the server declined the operation outright
	// (HTTP 405 or an explicit unsupported error). Callers must treat it
	// as a permanent per-session capability signal, not a transient
	// failure.
	ErrUnsupported = errors.New("api: operation not supported")
)

// Client is the remote store for a signed-in account. All calls are
// blocking and honor ctx cancellation.
type Client interface {
	ListFavorites(ctx context.Context) ([]place.Record, error)
	AddFavorite(ctx context.Context, r place.Record) error
	RemoveFavorite(ctx context.Context, id string) error

	// ReorderFavorites persists a display order server-side. Servers may
	// not support it; expect ErrUnsupported.
	ReorderFavorites(ctx context.Context, ids []string) error

	ListCourses(ctx context.Context) ([]course.Course, error)

	// SaveCourse creates the course when its ID is empty, updates it
	// otherwise, and returns the persisted course. Servers that only
	// return the assigned id yield the submitted payload merged with
	// that id.
	SaveCourse(ctx context.Context, c course.Course) (course.Course, error)

	DeleteCourse(ctx context.Context, id string) error
}
