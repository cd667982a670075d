// Package server implements the scenemap backend the CLI and TUI talk
// to. State lives in a diskv store on disk, one favorites and one
// courses document per account. The reorder endpoint is disabled by
// default so clients exercise their local-order fallback; --allow-reorder
// turns it on.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/scenemap/scenemap/pkg/course"
	"github.com/scenemap/scenemap/pkg/place"
)

// Options configures a Server.
type Options struct {
	// Path is the diskv base path for account documents.
	Path string

	// Secret signs session tokens. Required.
	Secret string

	// AllowReorder enables POST /api/user/favorites/reorder. When false
	// the endpoint answers 405 like backends without order support.
	AllowReorder bool

	// Users maps username to password. Defaults to guest/guest.
	Users map[string]string
}

// Server hosts the collection API.
type Server struct {
	store        *storage
	secret       []byte
	allowReorder bool
	users        map[string]string
}

// New builds a server over the given options.
func New(opts Options) *Server {
	users := opts.Users
	if len(users) == 0 {
		users = map[string]string{"guest": "guest"}
	}
	return &Server{
		store:        openStorage(opts.Path),
		secret:       []byte(opts.Secret),
		allowReorder: opts.AllowReorder,
		users:        users,
	}
}

// Router wires the gin engine.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	api := r.Group("/api")
	api.POST("/auth/login", s.handleLogin)

	user := api.Group("/user", s.authRequired())
	user.GET("/favorites", s.handleListFavorites)
	user.POST("/favorites", s.handleAddFavorite)
	user.DELETE("/favorites/:id", s.handleRemoveFavorite)
	user.POST("/favorites/reorder", s.handleReorderFavorites)
	user.GET("/courses", s.handleListCourses)
	user.POST("/courses", s.handleSaveCourse)
	user.DELETE("/courses/:id", s.handleDeleteCourse)

	return r
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}

func (s *Server) handleListFavorites(c *gin.Context) {
	items := s.store.favorites(account(c))
	if items == nil {
		items = []place.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "items": items})
}

func (s *Server) handleAddFavorite(c *gin.Context) {
	var r place.Record
	if err := c.ShouldBindJSON(&r); err != nil || r.ID == "" {
		fail(c, http.StatusBadRequest, "bad_request")
		return
	}

	acct := account(c)
	items := s.store.favorites(acct)
	for _, have := range items {
		if have.ID == r.ID {
			c.JSON(http.StatusOK, gin.H{"ok": true, "dup": true})
			return
		}
	}
	if err := s.store.setFavorites(acct, append(items, r)); err != nil {
		fail(c, http.StatusInternalServerError, "storage_error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) handleRemoveFavorite(c *gin.Context) {
	acct := account(c)
	id := c.Param("id")
	items := s.store.favorites(acct)
	kept := make([]place.Record, 0, len(items))
	for _, have := range items {
		if have.ID != id {
			kept = append(kept, have)
		}
	}
	if err := s.store.setFavorites(acct, kept); err != nil {
		fail(c, http.StatusInternalServerError, "storage_error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) handleReorderFavorites(c *gin.Context) {
	if !s.allowReorder {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"ok": false, "error": "method_not_allowed"})
		return
	}

	var req struct {
		IDs []string `json:"ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad_request")
		return
	}

	acct := account(c)
	items := s.store.favorites(acct)
	pos := make(map[string]int, len(req.IDs))
	for i, id := range req.IDs {
		pos[id] = i
	}
	// Mentioned items take the requested order, the rest keep theirs.
	ordered := place.Clone(items)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && orderedBefore(pos, ordered[j], ordered[j-1]); j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}
	if err := s.store.setFavorites(acct, ordered); err != nil {
		fail(c, http.StatusInternalServerError, "storage_error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func orderedBefore(pos map[string]int, a, b place.Record) bool {
	ai, aok := pos[a.ID]
	bi, bok := pos[b.ID]
	switch {
	case aok && bok:
		return ai < bi
	case aok:
		return true
	default:
		return false
	}
}

func (s *Server) handleListCourses(c *gin.Context) {
	items := s.store.courses(account(c))
	if items == nil {
		items = []course.Course{}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "items": items})
}

func (s *Server) handleSaveCourse(c *gin.Context) {
	var in course.Course
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "bad_request")
		return
	}
	if in.Title == "" {
		fail(c, http.StatusBadRequest, "title_required")
		return
	}

	acct := account(c)
	items := s.store.courses(acct)
	now := time.Now().UTC().Format(time.RFC3339)

	if in.ID == "" {
		in.ID = uuid.NewString()
		in.Created = now
		in.Updated = now
		items = append(items, in)
	} else {
		found := false
		for i, have := range items {
			if have.ID == in.ID {
				in.Created = have.Created
				in.Updated = now
				items[i] = in
				found = true
				break
			}
		}
		if !found {
			fail(c, http.StatusNotFound, "not_found")
			return
		}
	}

	if err := s.store.setCourses(acct, items); err != nil {
		fail(c, http.StatusInternalServerError, "storage_error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": in.ID, "course": in})
}

func (s *Server) handleDeleteCourse(c *gin.Context) {
	acct := account(c)
	id := c.Param("id")
	items := s.store.courses(acct)
	kept := make([]course.Course, 0, len(items))
	for _, have := range items {
		if have.ID != id {
			kept = append(kept, have)
		}
	}
	if err := s.store.setCourses(acct, kept); err != nil {
		fail(c, http.StatusInternalServerError, "storage_error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func fail(c *gin.Context, status int, code string) {
	c.JSON(status, gin.H{"ok": false, "error": code})
}
