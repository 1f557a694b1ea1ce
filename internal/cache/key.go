// Package cache stores computed results on disk under content-derived
// keys, with an in-memory fast path in front.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrInvalidKey = errors.New("invalid cache key")

// Key addresses one entry. It doubles as the entry's directory name.
type Key string

func (k Key) String() string { return string(k) }

// Fingerprint derives the key for a source file from its name,
// modification time and content digest. Any edit to the file yields a
// different key, so stale entries are never read back.
func Fingerprint(path string) (Key, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", path, err)
	}
	content := sha256.New()
	if _, err := io.Copy(content, f); err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", path, err)
	}

	name := filepath.Base(path)
	sum := sha256.New()
	fmt.Fprintf(sum, "%s|%d|%x", name, info.ModTime().UnixNano(), content.Sum(nil))
	return Key(sanitize(name) + "-" + hex.EncodeToString(sum.Sum(nil))[:16]), nil
}

func sanitize(name string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "entry"
	}
	return b.String()
}

func (k Key) validate() error {
	s := string(k)
	if s == "" || strings.HasPrefix(s, ".") || strings.ContainsAny(s, `/\`) || s != filepath.Base(s) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	return nil
}
