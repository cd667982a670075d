// Package order persists user-chosen display orders independently of the
// server, with a local fallback store that always works even when the
// backend rejects order persistence.
package order

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/peterbourgon/diskv/v3"

	"github.com/scenemap/scenemap/pkg/api"
	"github.com/scenemap/scenemap/pkg/place"
)

// Favorites is the collection key for the favorites set. Course keys are
// built with course.Key.
const Favorites = "favorites"

// RemotePersister is the best-effort server-side half of Set. An
// api.ErrUnsupported return permanently downgrades that key to local-only
// for the session.
type RemotePersister interface {
	PersistOrder(ctx context.Context, key string, ids []string) error
}

// Overlay records display orders per {account, collection key}. The local
// diskv copy is the tie-breaker source of truth for rendering; a recorded
// order wins over any server-side order until explicitly cleared.
type Overlay struct {
	d       *diskv.Diskv
	base    string
	account string
	remote  RemotePersister

	mu          sync.Mutex
	unsupported map[string]bool
}

// Open creates an overlay rooted at basePath for the given account. remote
// may be nil for local-only operation.
func Open(basePath, account string, remote RemotePersister) *Overlay {
	return &Overlay{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      1024 * 1024, // 1MB
		}),
		base:        basePath,
		account:     account,
		remote:      remote,
		unsupported: make(map[string]bool),
	}
}

// Get returns the last recorded order for key, empty if none.
func (o *Overlay) Get(key string) []string {
	val, err := o.d.Read(o.storeKey(key))
	if err != nil {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(val, &ids); err != nil {
		fmt.Fprintf(os.Stderr, "order: corrupt record for %s: %v\n", key, err)
		return nil
	}
	return ids
}

// Set records the order locally, then makes one best-effort remote
// persistence attempt. Local persistence never fails from the caller's
// point of view; write errors are logged and the in-flight request keeps
// going. The first api.ErrUnsupported marks the key remote-unsupported for
// the rest of the session and stops further remote calls for it.
func (o *Overlay) Set(ctx context.Context, key string, ids []string) {
	o.writeLocal(key, ids)

	if o.remote == nil {
		return
	}
	o.mu.Lock()
	down := o.unsupported[key]
	o.mu.Unlock()
	if down {
		return
	}

	if err := o.remote.PersistOrder(ctx, key, ids); err != nil {
		if errors.Is(err, api.ErrUnsupported) {
			o.mu.Lock()
			o.unsupported[key] = true
			o.mu.Unlock()
			return
		}
		// Transient remote failure; the local copy already holds the
		// order, so nothing else to do.
		fmt.Fprintf(os.Stderr, "order: remote persist %s: %v\n", key, err)
	}
}

// RemoteSupported reports whether remote persistence is still attempted
// for key this session.
func (o *Overlay) RemoteSupported(key string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return !o.unsupported[key]
}

// Apply stable-sorts items by their position in the recorded order. Items
// not mentioned keep their relative order after all mentioned ones. Ids no
// longer present in items are pruned from the local record, but only when
// items is non-empty.
func (o *Overlay) Apply(key string, items []place.Record) []place.Record {
	if len(items) == 0 {
		// An empty items list can also mean the collection has not loaded
		// yet; never prune on it.
		return place.Clone(items)
	}
	recorded := o.Get(key)
	if len(recorded) == 0 {
		return place.Clone(items)
	}

	present := make(map[string]bool, len(items))
	for _, r := range items {
		present[r.ID] = true
	}
	pos := make(map[string]int, len(recorded))
	kept := make([]string, 0, len(recorded))
	for _, id := range recorded {
		if present[id] {
			pos[id] = len(kept)
			kept = append(kept, id)
		}
	}
	if len(kept) != len(recorded) {
		// Lazy pruning: rewrite the local record without vanished ids.
		o.writeLocal(key, kept)
	}

	out := place.Clone(items)
	// Insertion sort keeps the pass stable and the lists are small.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && less(pos, out[j], out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func less(pos map[string]int, a, b place.Record) bool {
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

// Rename moves a recorded order to a new key, local-only. Used when a
// course is re-created under a fresh server id.
func (o *Overlay) Rename(oldKey, newKey string) {
	ids := o.Get(oldKey)
	if len(ids) == 0 {
		return
	}
	o.writeLocal(newKey, ids)
	o.Clear(oldKey)
}

// Clear drops the local record for key.
func (o *Overlay) Clear(key string) {
	if err := o.d.Erase(o.storeKey(key)); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "order: clear %s: %v\n", key, err)
	}
}

func (o *Overlay) writeLocal(key string, ids []string) {
	data, err := json.Marshal(ids)
	if err != nil {
		fmt.Fprintf(os.Stderr, "order: encode %s: %v\n", key, err)
		return
	}
	if err := o.d.Write(o.storeKey(key), data); err != nil {
		fmt.Fprintf(os.Stderr, "order: write %s: %v\n", key, err)
	}
}

// storeKey makes `account/collectionKey`.
func (o *Overlay) storeKey(key string) string {
	return o.account + "/" + key
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) == 1 {
		return &diskv.PathKey{FileName: encodeKey(parts[0])}
	}
	return &diskv.PathKey{
		Path:     []string{encodeKey(parts[0])},
		FileName: encodeKey(parts[1]),
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	segs := make([]string, 0, len(pathKey.Path)+1)
	for _, p := range pathKey.Path {
		segs = append(segs, decodeKey(p))
	}
	segs = append(segs, decodeKey(pathKey.FileName))
	return strings.Join(segs, "/")
}

func encodeKey(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func decodeKey(s string) string {
	b, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return fmt.Sprintf("decodeKey: %s", err)
	}
	return string(b)
}
