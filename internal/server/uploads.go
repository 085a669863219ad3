package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	processor "github.com/joseph-ayodele/label-tracker/internal/pipeline"
)

// Upload is one extracted document awaiting an explicit save.
type Upload struct {
	ID        string           `json:"upload_id"`
	Filename  string           `json:"filename"`
	CreatedAt time.Time        `json:"created_at"`
	Saves     int              `json:"saves"`
	Result    processor.Result `json:"-"`
}

// UploadCache keeps the most recent uploads in memory so a preview can be saved
// later. The oldest entries are evicted once the cache is full.
type UploadCache struct {
	mu    sync.Mutex
	cache *lru.Cache[string, *Upload]
}

func NewUploadCache(size int) (*UploadCache, error) {
	c, err := lru.New[string, *Upload](size)
	if err != nil {
		return nil, fmt.Errorf("upload cache: %w", err)
	}
	return &UploadCache{cache: c}, nil
}

// Put stores res under a fresh upload id.
func (u *UploadCache) Put(filename string, res processor.Result) *Upload {
	up := &Upload{
		ID:        uuid.NewString(),
		Filename:  filename,
		CreatedAt: time.Now().UTC(),
		Result:    res,
	}
	u.cache.Add(up.ID, up)
	return up
}

// Get returns a copy of the upload so callers cannot race on it.
func (u *UploadCache) Get(id string) (Upload, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	up, ok := u.cache.Get(id)
	if !ok {
		return Upload{}, false
	}
	return *up, true
}

// MarkSaved counts a successful save of the upload, if it is still cached.
func (u *UploadCache) MarkSaved(id string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if up, ok := u.cache.Peek(id); ok {
		up.Saves++
	}
}

func (u *UploadCache) Len() int { return u.cache.Len() }
