// Package recording keeps identified audio clips in memory and knows enough
// about their formats to probe and transcode them.
package recording

import (
	"container/list"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ewilliams-labs/songradar/internal/core/ports"
)

// DefaultCapacity is used when a Store is built with a non-positive size.
const DefaultCapacity = 64

// ErrEmptyClip is returned when Put receives no bytes.
var ErrEmptyClip = errors.New("recording: empty clip")

// Clip is one stored recording. Info is zero when the format could not be
// probed.
type Clip struct {
	ID          string
	Data        []byte
	ContentType string
	Info        Info
	StoredAt    time.Time
}

// Store is a bounded in-memory clip store. When full, the oldest clip is
// evicted. It is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	clips    map[string]*list.Element
	now      func() time.Time
}

// compile-time interface assertion
var _ ports.ClipStore = (*Store)(nil)

func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		order:    list.New(),
		clips:    make(map[string]*list.Element, capacity),
		now:      time.Now,
	}
}

// Put stores a copy of data and returns its id. WAV and MP3 clips are probed
// for their duration and sample format.
func (s *Store) Put(data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyClip
	}
	info, err := Probe(data)
	if err == nil {
		contentType = info.ContentType
	}
	if contentType == "" {
		contentType = DetectContentType(data)
	}
	clip := &Clip{
		ID:          uuid.NewString(),
		Data:        append([]byte(nil), data...),
		ContentType: contentType,
		Info:        info,
		StoredAt:    s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for s.order.Len() >= s.capacity {
		oldest := s.order.Back()
		s.order.Remove(oldest)
		delete(s.clips, oldest.Value.(*Clip).ID)
	}
	s.clips[clip.ID] = s.order.PushFront(clip)
	return clip.ID, nil
}

// Get returns the clip with id. The returned data must not be modified.
func (s *Store) Get(id string) (Clip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.clips[id]
	if !ok {
		return Clip{}, false
	}
	return *el.Value.(*Clip), true
}

// Len reports how many clips are held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}
