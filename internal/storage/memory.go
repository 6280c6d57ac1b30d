package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps objects in process memory. It also serves the presigned
// URLs it hands out, so mounting it under its base URL gives a working
// upload target for development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	baseURL string
	expiry  time.Duration
	now     func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore serves objects under baseURL, e.g. "http://localhost:8080/blobs".
func NewMemoryStore(baseURL string, expiry time.Duration) *MemoryStore {
	if expiry <= 0 {
		expiry = 5 * time.Minute
	}
	return &MemoryStore{
		objects: make(map[string][]byte),
		baseURL: strings.TrimSuffix(baseURL, "/"),
		expiry:  expiry,
		now:     time.Now,
	}
}

func (s *MemoryStore) PresignPut(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty key")
	}
	exp := s.now().Add(s.expiry).Unix()
	return s.ObjectURL(key) + "?expires=" + strconv.FormatInt(exp, 10), nil
}

func (s *MemoryStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read object %q: %w", key, err)
	}
	s.mu.Lock()
	s.objects[key] = b
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// Get returns a copy of the stored object.
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.objects[key]
	if !ok {
		return nil, false
	}
	return bytes.Clone(b), true
}

// Len is the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

func (s *MemoryStore) ObjectURL(key string) string {
	return joinURL(s.baseURL, key)
}

func (s *MemoryStore) KeyFromURL(rawURL string) (string, bool) {
	return keyFromURL(s.baseURL, rawURL)
}

// ServeHTTP accepts PUT on a presigned URL and GET on an object URL.
func (s *MemoryStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key, ok := s.KeyFromURL(s.requestURL(r))
	if !ok {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodPut:
		exp, err := strconv.ParseInt(r.URL.Query().Get("expires"), 10, 64)
		if err != nil || s.now().Unix() > exp {
			http.Error(w, "Request has expired", http.StatusForbidden)
			return
		}
		if err := s.Put(r.Context(), key, r.Body, r.ContentLength, r.Header.Get("Content-Type")); err != nil {
			http.Error(w, "Upload failed", http.StatusInternalServerError)
			return
		}
		logger.Info("object stored", slog.String("key", key))
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		b, ok := s.Get(key)
		if !ok {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(b)))
		_, _ = w.Write(b)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// requestURL rebuilds the absolute URL of r against the base URL's origin so
// the same key derivation applies to requests and stored URLs.
func (s *MemoryStore) requestURL(r *http.Request) string {
	b, err := url.Parse(s.baseURL)
	if err != nil {
		return r.URL.String()
	}
	u := *r.URL
	u.Scheme = b.Scheme
	u.Host = b.Host
	return u.String()
}
