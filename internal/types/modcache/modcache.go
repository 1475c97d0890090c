// Package modcache persists compiled modules on top of the tagged-record
// payload format (internal/types marshal.go), keyed by (module path,
// compiler version). It uses github.com/Masterminds/semver/v3 to decide
// whether a cached record is still compatible with the compiler that is
// about to read it, and assigns every compiled module a
// github.com/google/uuid session id, freshly generated on each Put and
// stored in the persisted record's header tuple — a concrete key for the "future parallel driver" spec.md §5/§9 anticipates
// (SPEC_FULL.md "External interfaces"). Grounded in shape on the teacher's
// internal/module.Loader (cache map[string]*Module behind a sync.RWMutex,
// search-path resolution), retargeted from "parsed AST cache" to
// "compiled-module marshal payload cache".
package modcache

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"

	"github.com/verity-lang/verity/internal/types"
)

// Record is one persisted compiled module.
type Record struct {
	ModulePath      string
	CompilerVersion *semver.Version
	SessionID       uuid.UUID
	Payload         types.MarshalValue
}

// Cache is an on-disk store of compiled Records, keyed by module path. It
// mirrors the teacher's Loader shape: an in-memory index guarded by a
// RWMutex, backed by a directory on disk.
type Cache struct {
	mu      sync.RWMutex
	dir     string
	index   map[string]*Record
	accepts *semver.Constraints
}

// NewCache opens (creating if absent) a module cache rooted at dir.
// accepts is the version constraint a cached record's CompilerVersion must
// satisfy to be considered still valid (e.g. "^1.2.0" to invalidate the
// whole cache across a major bump).
func NewCache(dir string, accepts *semver.Constraints) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("modcache: cannot create cache dir %s: %w", dir, err)
	}
	return &Cache{dir: dir, index: make(map[string]*Record), accepts: accepts}, nil
}

// Put stores a compiled module's payload under modulePath, stamping it
// with the given compiler version and a freshly generated session id.
func (c *Cache) Put(modulePath string, compilerVersion *semver.Version, payload types.MarshalValue) (*Record, error) {
	rec := &Record{
		ModulePath:      modulePath,
		CompilerVersion: compilerVersion,
		SessionID:       uuid.New(),
		Payload:         payload,
	}
	c.mu.Lock()
	c.index[modulePath] = rec
	c.mu.Unlock()
	return rec, c.writeToDisk(rec)
}

// Get returns the cached record for modulePath if present and its
// CompilerVersion still satisfies the cache's accepted constraint. A
// version-incompatible hit is treated the same as a miss: the caller must
// recompile rather than trust stale bytecode across an incompatible
// compiler change.
func (c *Cache) Get(modulePath string) (*Record, bool) {
	c.mu.RLock()
	rec, ok := c.index[modulePath]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.accepts != nil && !c.accepts.Check(rec.CompilerVersion) {
		return nil, false
	}
	return rec, true
}

// Invalidate drops a single module's cached record, in memory and on disk.
func (c *Cache) Invalidate(modulePath string) {
	c.mu.Lock()
	delete(c.index, modulePath)
	c.mu.Unlock()
	_ = os.Remove(c.pathFor(modulePath))
}

func (c *Cache) pathFor(modulePath string) string {
	return filepath.Join(c.dir, sanitizeModulePath(modulePath)+".vtc")
}

func sanitizeModulePath(modulePath string) string {
	out := make([]byte, 0, len(modulePath))
	for i := 0; i < len(modulePath); i++ {
		b := modulePath[i]
		if b == '/' || b == '\\' {
			b = '_'
		}
		out = append(out, b)
	}
	return string(out)
}

func (c *Cache) writeToDisk(rec *Record) error {
	f, err := os.Create(c.pathFor(rec.ModulePath))
	if err != nil {
		return fmt.Errorf("modcache: cannot create record file: %w", err)
	}
	defer f.Close()

	header := types.MTuple{Elems: []types.MarshalValue{
		types.MString{V: rec.ModulePath},
		types.MString{V: rec.CompilerVersion.String()},
		types.MString{V: rec.SessionID.String()},
		rec.Payload,
	}}
	return types.NewEncoder(f).Encode(header)
}

// ReadFromDisk loads a record directly from a file previously written by
// writeToDisk, without going through the in-memory index. It does not add
// the record to any Cache; NewCache starts with an empty index.
func ReadFromDisk(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("modcache: cannot read %s: %w", path, err)
	}
	v, err := types.NewDecoder(data).Decode()
	if err != nil {
		return nil, fmt.Errorf("modcache: cannot decode %s: %w", path, err)
	}
	tuple, ok := v.(types.MTuple)
	if !ok || len(tuple.Elems) != 4 {
		return nil, fmt.Errorf("modcache: %s is not a valid record", path)
	}
	modPath, ok := tuple.Elems[0].(types.MString)
	if !ok {
		return nil, fmt.Errorf("modcache: %s: malformed module path field", path)
	}
	verStr, ok := tuple.Elems[1].(types.MString)
	if !ok {
		return nil, fmt.Errorf("modcache: %s: malformed version field", path)
	}
	ver, err := semver.NewVersion(verStr.V)
	if err != nil {
		return nil, fmt.Errorf("modcache: %s: invalid compiler version %q: %w", path, verStr.V, err)
	}
	sidStr, ok := tuple.Elems[2].(types.MString)
	if !ok {
		return nil, fmt.Errorf("modcache: %s: malformed session id field", path)
	}
	sid, err := uuid.Parse(sidStr.V)
	if err != nil {
		return nil, fmt.Errorf("modcache: %s: invalid session id %q: %w", path, sidStr.V, err)
	}
	return &Record{
		ModulePath:      modPath.V,
		CompilerVersion: ver,
		SessionID:       sid,
		Payload:         tuple.Elems[3],
	}, nil
}
