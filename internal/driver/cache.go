package driver

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"vela/internal/check"
	"vela/internal/diag"
	"vela/internal/project"
)

// bump when CachePayload or the diagnostic layout changes
const cacheSchema uint16 = 1

// Cache stores check verdicts keyed by a digest of the unit's inputs.
// It is safe for concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// CachePayload is one stored verdict. Diagnostic spans refer to file IDs,
// which are stable because LoadUnit assigns them in sorted path order.
type CachePayload struct {
	Schema      uint16
	OK          bool
	Diagnostics []diag.Diagnostic
}

// OpenCache opens (creating) a cache in dir. An empty dir uses
// $XDG_CACHE_HOME/vela or ~/.cache/vela.
func OpenCache(dir string) (*Cache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "vela")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// CacheKey digests the options and every file's path and content hash.
func CacheKey(unit *Unit, opts check.Options) project.Digest {
	var flags [8]byte
	flags[0] = byte(opts.BuildTarget)
	if opts.DisableTests {
		flags[1] = 1
	}
	binary.LittleEndian.PutUint16(flags[2:], cacheSchema)
	binary.LittleEndian.PutUint32(flags[4:], uint32(max(opts.MaxDiagnostics, 0))) // #nosec G115 -- clamped to non-negative
	deps := make([]project.Digest, 0, 2*unit.Files.Len())
	for _, f := range unit.Files.Files() {
		deps = append(deps, project.HashString(f.Path), f.Hash)
	}
	return project.Combine(project.HashString(string(flags[:])), deps...)
}

func (c *Cache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "check", hex.EncodeToString(key[:])+".mp")
}

// Put writes payload through a temp file and an atomic rename.
func (c *Cache) Put(key project.Digest, payload *CachePayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp) //nolint:errcheck
		}
	}()
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close() //nolint:errcheck
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// Get loads the payload for key. Entries from another schema are misses.
func (c *Cache) Get(key project.Digest, out *CachePayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("decode cache entry: %w", err)
	}
	return out.Schema == cacheSchema, nil
}

// Clear removes every stored verdict.
func (c *Cache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "check"))
}
