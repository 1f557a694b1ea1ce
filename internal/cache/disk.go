package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/asp616848/live-call-insight/internal/logger"
)

const (
	resultFile   = "result.json"
	manifestFile = "manifest.json"

	tmpPrefix = ".tmp-"
	oldPrefix = ".old-"
)

// Entry is one cached computation: the serialized result plus optional
// side artifacts such as rendered visualizations.
type Entry struct {
	Result    []byte
	Artifacts map[string][]byte
	CreatedAt time.Time
}

type manifest struct {
	Key       string            `json:"key"`
	CreatedAt time.Time         `json:"created_at"`
	Result    string            `json:"result_sha256"`
	Artifacts map[string]string `json:"artifacts,omitempty"`
}

// Status summarizes a namespace for the status surface.
type Status struct {
	Namespace  string   `json:"namespace"`
	Dir        string   `json:"dir"`
	Entries    int      `json:"entries"`
	TotalBytes int64    `json:"total_bytes"`
	Keys       []string `json:"keys"`
}

// DiskCache keeps one directory per entry below <root>/<namespace>.
// Entries are written to a hidden temp directory and published with a
// rename, so readers see either the old entry, no entry, or the complete
// new one.
type DiskCache struct {
	namespace string
	dir       string
	now       func() time.Time
	log       *logrus.Entry

	// guards publish and discard against each other
	mu sync.Mutex
}

type DiskOption func(*DiskCache)

// WithClock overrides time.Now for entry timestamps and sweeps.
func WithClock(now func() time.Time) DiskOption {
	return func(c *DiskCache) { c.now = now }
}

func NewDiskCache(root, namespace string, opts ...DiskOption) (*DiskCache, error) {
	if namespace == "" || strings.ContainsAny(namespace, `/\`) || strings.HasPrefix(namespace, ".") {
		return nil, fmt.Errorf("invalid cache namespace %q", namespace)
	}
	c := &DiskCache{
		namespace: namespace,
		dir:       filepath.Join(root, namespace),
		now:       time.Now,
		log:       logger.New().Component("cache").WithField("namespace", namespace),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return c, nil
}

func (c *DiskCache) Namespace() string { return c.namespace }

// Path is the directory an entry for key lives in once published.
func (c *DiskCache) Path(key Key) string {
	return filepath.Join(c.dir, string(key))
}

// Get returns the entry for key. Missing, partial or corrupt entries are
// reported as a miss; corrupt ones are removed so the next Put starts
// clean.
func (c *DiskCache) Get(key Key) (*Entry, bool) {
	if key.validate() != nil {
		return nil, false
	}
	dir := c.Path(key)
	rawManifest, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if errors.Is(err, os.ErrNotExist) {
		if _, statErr := os.Stat(dir); statErr == nil {
			c.discard(key, nil, "missing manifest")
		}
		return nil, false
	}
	if err != nil {
		return nil, false
	}

	entry, err := readEntry(dir, key, rawManifest)
	if err != nil {
		c.discard(key, rawManifest, err.Error())
		return nil, false
	}
	return entry, true
}

func readEntry(dir string, key Key, rawManifest []byte) (*Entry, error) {
	var m manifest
	if err := json.Unmarshal(rawManifest, &m); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	if m.Key != string(key) {
		return nil, fmt.Errorf("manifest key %q does not match", m.Key)
	}

	result, err := readVerified(filepath.Join(dir, resultFile), m.Result)
	if err != nil {
		return nil, err
	}
	entry := &Entry{Result: result, CreatedAt: m.CreatedAt}
	for name, digest := range m.Artifacts {
		data, err := readVerified(filepath.Join(dir, name), digest)
		if err != nil {
			return nil, err
		}
		if entry.Artifacts == nil {
			entry.Artifacts = make(map[string][]byte, len(m.Artifacts))
		}
		entry.Artifacts[name] = data
	}
	return entry, nil
}

func readVerified(path, digest string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if sha(data) != digest {
		return nil, fmt.Errorf("%s: digest mismatch", filepath.Base(path))
	}
	return data, nil
}

// discard removes a broken entry unless a Put replaced it after we read.
func (c *DiskCache) discard(key Key, seenManifest []byte, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	dir := c.Path(key)
	current, _ := os.ReadFile(filepath.Join(dir, manifestFile))
	if !bytes.Equal(current, seenManifest) {
		return
	}
	c.log.WithFields(logrus.Fields{"key": key, "reason": reason}).Warn("discarding corrupt cache entry")
	if err := os.RemoveAll(dir); err != nil {
		c.log.WithField("error", err.Error()).Warn("remove corrupt cache entry")
	}
}

// Put stores e under key, replacing any existing entry.
func (c *DiskCache) Put(key Key, e *Entry) error {
	if err := key.validate(); err != nil {
		return err
	}
	if e == nil {
		return errors.New("cache put: nil entry")
	}

	tmp := filepath.Join(c.dir, tmpPrefix+uuid.NewString())
	if err := c.stage(tmp, key, e); err != nil {
		_ = os.RemoveAll(tmp)
		return fmt.Errorf("cache put %s: %w", key, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	final := c.Path(key)
	var old string
	if _, err := os.Stat(final); err == nil {
		old = filepath.Join(c.dir, oldPrefix+uuid.NewString())
		if err := os.Rename(final, old); err != nil {
			_ = os.RemoveAll(tmp)
			return fmt.Errorf("cache put %s: move old entry: %w", key, err)
		}
	}
	if err := os.Rename(tmp, final); err != nil {
		_ = os.RemoveAll(tmp)
		if old != "" {
			_ = os.Rename(old, final)
		}
		return fmt.Errorf("cache put %s: publish: %w", key, err)
	}
	if old != "" {
		_ = os.RemoveAll(old)
	}
	return nil
}

func (c *DiskCache) stage(tmp string, key Key, e *Entry) error {
	if err := os.Mkdir(tmp, 0o755); err != nil {
		return err
	}
	created := e.CreatedAt
	if created.IsZero() {
		created = c.now()
	}
	m := manifest{Key: string(key), CreatedAt: created.UTC(), Result: sha(e.Result)}

	if err := writeFile(filepath.Join(tmp, resultFile), e.Result); err != nil {
		return err
	}
	for name, data := range e.Artifacts {
		if name != filepath.Base(name) || name == resultFile || name == manifestFile || strings.HasPrefix(name, ".") {
			return fmt.Errorf("invalid artifact name %q", name)
		}
		if err := writeFile(filepath.Join(tmp, name), data); err != nil {
			return err
		}
		if m.Artifacts == nil {
			m.Artifacts = make(map[string]string, len(e.Artifacts))
		}
		m.Artifacts[name] = sha(data)
	}

	// manifest last: its presence marks the entry complete
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(tmp, manifestFile), raw)
}

func writeFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

// Sweep removes entries created more than maxAge ago, along with
// abandoned temp directories of the same age. It returns how many
// directories were removed.
func (c *DiskCache) Sweep(maxAge time.Duration) (int, error) {
	dirents, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, fmt.Errorf("sweep %s: %w", c.namespace, err)
	}
	cutoff := c.now().Add(-maxAge)

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, d := range dirents {
		if !d.IsDir() {
			continue
		}
		path := filepath.Join(c.dir, d.Name())
		created, ok := c.createdAt(path)
		if !ok || !created.Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			return removed, fmt.Errorf("sweep %s: %w", c.namespace, err)
		}
		removed++
	}
	if removed > 0 {
		c.log.WithFields(logrus.Fields{"removed": removed, "max_age": maxAge.String()}).Info("cache swept")
	}
	return removed, nil
}

// createdAt prefers the manifest timestamp and falls back to the
// directory's mtime for temp dirs and entries without a readable one.
func (c *DiskCache) createdAt(dir string) (time.Time, bool) {
	if raw, err := os.ReadFile(filepath.Join(dir, manifestFile)); err == nil {
		var m manifest
		if json.Unmarshal(raw, &m) == nil && !m.CreatedAt.IsZero() {
			return m.CreatedAt, true
		}
	}
	info, err := os.Stat(dir)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func (c *DiskCache) Status() (Status, error) {
	st := Status{Namespace: c.namespace, Dir: c.dir, Keys: []string{}}
	dirents, err := os.ReadDir(c.dir)
	if err != nil {
		return st, fmt.Errorf("status %s: %w", c.namespace, err)
	}
	for _, d := range dirents {
		if !d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			continue
		}
		st.Entries++
		st.Keys = append(st.Keys, d.Name())
		st.TotalBytes += dirSize(filepath.Join(c.dir, d.Name()))
	}
	sort.Strings(st.Keys)
	return st, nil
}

func dirSize(dir string) int64 {
	var total int64
	_ = filepath.WalkDir(dir, func(_ string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}

// Reset drops every entry in the namespace.
func (c *DiskCache) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.RemoveAll(c.dir); err != nil {
		return fmt.Errorf("reset %s: %w", c.namespace, err)
	}
	return os.MkdirAll(c.dir, 0o755)
}

func sha(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
