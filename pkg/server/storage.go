package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/peterbourgon/diskv/v3"

	"github.com/scenemap/scenemap/pkg/course"
	"github.com/scenemap/scenemap/pkg/place"
)

// storage keeps per-account documents on disk. Each account has one
// favorites document and one courses document, read and written whole;
// the lists are small enough that this beats row-level bookkeeping.
type storage struct {
	mu sync.Mutex
	d  *diskv.Diskv
}

func openStorage(basePath string) *storage {
	return &storage{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: docToPathTransform,
			InverseTransform:  pathToDocTransform,
			CacheSizeMax:      1024 * 1024, // 1MB
		}),
	}
}

func (s *storage) favorites(account string) []place.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []place.Record
	s.read(account+"/favorites", &items)
	return items
}

func (s *storage) setFavorites(account string, items []place.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(account+"/favorites", items)
}

func (s *storage) courses(account string) []course.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []course.Course
	s.read(account+"/courses", &items)
	return items
}

func (s *storage) setCourses(account string, items []course.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(account+"/courses", items)
}

func (s *storage) read(doc string, out any) {
	val, err := s.d.Read(doc)
	if err != nil {
		return
	}
	if err := json.Unmarshal(val, out); err != nil {
		fmt.Fprintf(os.Stderr, "server: corrupt document %s: %v\n", doc, err)
	}
}

func (s *storage) write(doc string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.d.Write(doc, data)
}

func docToPathTransform(s string) *diskv.PathKey {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) == 1 {
		return &diskv.PathKey{FileName: encodeDoc(parts[0])}
	}
	return &diskv.PathKey{
		Path:     []string{encodeDoc(parts[0])},
		FileName: encodeDoc(parts[1]),
	}
}

func pathToDocTransform(pathKey *diskv.PathKey) string {
	segs := make([]string, 0, len(pathKey.Path)+1)
	for _, p := range pathKey.Path {
		segs = append(segs, decodeDoc(p))
	}
	segs = append(segs, decodeDoc(pathKey.FileName))
	return strings.Join(segs, "/")
}

func encodeDoc(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func decodeDoc(s string) string {
	b, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return fmt.Sprintf("decodeDoc: %s", err)
	}
	return string(b)
}
