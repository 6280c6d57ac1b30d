// Package storage keeps uploaded documents in an object store. Browsers
// upload straight to the store with a presigned PUT URL; the server only
// signs URLs and removes objects.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// package-level logger; can be set via SetLogger from caller
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger installs a logger for the storage package. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// Document kinds used as the second key segment.
const (
	DocCV          = "cv"
	DocCoverLetter = "cl"
)

// Store is an object store holding one blob per key.
type Store interface {
	// PresignPut returns a URL the caller can PUT the object body to.
	PresignPut(ctx context.Context, key string) (string, error)
	// Put uploads an object from the server side.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Remove deletes the object. A missing object is not an error.
	Remove(ctx context.Context, key string) error
	// ObjectURL is the stable, unsigned URL of key.
	ObjectURL(key string) string
	// KeyFromURL is the inverse of ObjectURL. It reports false for URLs
	// that do not point into this store.
	KeyFromURL(rawURL string) (string, bool)
}

// ValidDocType reports whether docType is a known document kind.
func ValidDocType(docType string) bool {
	return docType == DocCV || docType == DocCoverLetter
}

// ObjectKey builds "{userId}/{docType}/{uuid}-{basename}". Only the base
// name of filename is kept and characters outside [A-Za-z0-9._-] become '-'.
func ObjectKey(userID int64, docType, filename string) (string, error) {
	if userID <= 0 {
		return "", fmt.Errorf("invalid user id %d", userID)
	}
	if !ValidDocType(docType) {
		return "", fmt.Errorf("unknown document type %q", docType)
	}
	name := sanitize(path.Base(strings.ReplaceAll(filename, `\`, "/")))
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("invalid file name %q", filename)
	}

	return fmt.Sprintf("%d/%s/%s-%s", userID, docType, uuid.NewString(), name), nil
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}

// OwnedKey derives the object key from a stored file URL and checks that it
// sits under the user's prefix. It reports false when the URL does not parse
// into a key of this user; callers then skip blob deletion.
func OwnedKey(s Store, userID int64, rawURL string) (string, bool) {
	key, ok := s.KeyFromURL(rawURL)
	if !ok {
		return "", false
	}
	if !strings.HasPrefix(key, strconv.FormatInt(userID, 10)+"/") {
		return "", false
	}
	return key, true
}

// StripQuery drops the signature part of a presigned URL, leaving the
// object's unsigned URL.
func StripQuery(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		if i := strings.IndexByte(rawURL, '?'); i >= 0 {
			return rawURL[:i]
		}
		return rawURL
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

func joinURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + key
}

func keyFromURL(base, rawURL string) (string, bool) {
	b, err := url.Parse(base)
	if err != nil {
		return "", false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	if u.Host != b.Host {
		return "", false
	}
	prefix := strings.TrimSuffix(b.Path, "/") + "/"
	if !strings.HasPrefix(u.Path, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(u.Path, prefix)
	if key == "" {
		return "", false
	}
	// ownership is a prefix check, so every segment must be literal
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", false
		}
	}
	return key, true
}
