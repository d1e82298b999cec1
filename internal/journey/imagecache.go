package journey

import (
	"sync"
	"time"

	"github.com/adermis/adermis/internal/errors"
	"github.com/adermis/adermis/internal/random"
)

const (
	imageTokenLength uint = 32

	// maxImageEntries bounds the memory the cache can hold. With the 10 MiB
	// upload cap this keeps the worst case under a gigabyte.
	maxImageEntries = 64
)

// ImageCache holds uploaded image bytes server-side for the duration of a
// journey. The session only carries the token, keeping the cookie small while
// page reloads keep the preview without re-uploading.
type ImageCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]imageEntry
}

type imageEntry struct {
	data        []byte
	contentType string
	expires     time.Time
}

func NewImageCache(ttl time.Duration) *ImageCache {
	return &ImageCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]imageEntry),
	}
}

// Put stores the image and returns the token to hold in the session. Expired
// entries are pruned on the way, and when the cache is full the entry closest
// to expiry makes room for the new one.
func (c *ImageCache) Put(data []byte, contentType string) (string, error) {
	token, err := random.Letters(imageTokenLength)
	if err != nil {
		return "", errors.Wrap(err, "generate image token")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, entry := range c.entries {
		if entry.expires.Before(now) {
			delete(c.entries, k)
		}
	}
	for len(c.entries) >= maxImageEntries {
		c.evictOldestLocked()
	}
	c.entries[token] = imageEntry{
		data:        data,
		contentType: contentType,
		expires:     now.Add(c.ttl),
	}
	return token, nil
}

// evictOldestLocked drops the entry closest to expiry. Callers hold c.mu.
func (c *ImageCache) evictOldestLocked() {
	var (
		oldest  string
		expires time.Time
	)
	for k, entry := range c.entries {
		if oldest == "" || entry.expires.Before(expires) {
			oldest = k
			expires = entry.expires
		}
	}
	delete(c.entries, oldest)
}

// Get returns the image stored under token if it has not expired.
func (c *ImageCache) Get(token string) ([]byte, string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[token]
	if !ok || entry.expires.Before(c.now()) {
		return nil, "", false
	}
	return entry.data, entry.contentType, true
}

// Remove drops the image stored under token, if any.
func (c *ImageCache) Remove(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, token)
}
