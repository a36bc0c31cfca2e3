package driver

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"sysyc/internal/ir"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// Digest is a SHA-256 cache key.
type Digest [32]byte

// DiskCache хранит пониженный IR по хешу исходника и опций.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cache entry.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Path string
	Fold bool
	// IR is the ir.EncodeBinary form of the lowered program.
	IR []byte
}

// OpenDiskCache initializes a disk cache under $XDG_CACHE_HOME/<app>/ir
// (falling back to ~/.cache).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app, "ir"))
}

// NewDiskCache uses dir as is.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *DiskCache) Dir() string {
	return c.dir
}

// CacheKey: H(schema || ir schema || fold || content).
func CacheKey(content []byte, fold bool) Digest {
	h := sha256.New()
	fmt.Fprintf(h, "sysyc-ir/%d/%d/fold=%t\x00", diskCacheSchemaVersion, ir.BinarySchemaVersion, fold)
	_, _ = h.Write(content)
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes a program to the disk cache.
func (c *DiskCache) Put(key Digest, path string, fold bool, p *ir.Program) error {
	if c == nil {
		return nil
	}
	blob, err := ir.MarshalBinary(p)
	if err != nil {
		return err
	}
	payload := DiskPayload{Schema: diskCacheSchemaVersion, Path: path, Fold: fold, IR: blob}
	data, err := msgpack.Marshal(&payload)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return writeFileAtomic(c.pathFor(key), data)
}

// Get reads a program from the disk cache. A missing entry, an entry written
// by another schema version or an undecodable IR blob is a miss.
func (c *DiskCache) Get(key Digest) (*ir.Program, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var payload DiskPayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != diskCacheSchemaVersion {
		return nil, false, nil
	}
	p, err := ir.DecodeBinary(bytes.NewReader(payload.IR))
	if err != nil {
		if errors.Is(err, ir.ErrSchemaMismatch) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return p, true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.RemoveAll(c.dir); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}
