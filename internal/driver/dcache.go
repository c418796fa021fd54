package driver

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"bsharp/internal/diag"
	"bsharp/internal/project"
	"bsharp/internal/source"
	"bsharp/internal/trace"
	"bsharp/internal/version"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// cacheSalt входит в ключ: новая версия CLI не читает чужие результаты.
var cacheSalt = "bsharp-diag/" + version.Version

// DiskCache хранит диагностики файла по хешу содержимого и опциям разбора.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedSpan: span без FileID: файл восстанавливается при чтении.
type CachedSpan struct {
	Start uint32 `msgpack:"s"`
	End   uint32 `msgpack:"e"`
}

type CachedNote struct {
	Span CachedSpan `msgpack:"span"`
	Msg  string     `msgpack:"msg"`
}

type CachedFix struct {
	Title string       `msgpack:"title"`
	Spans []CachedSpan `msgpack:"spans"`
	Texts []string     `msgpack:"texts"`
}

type CachedDiagnostic struct {
	Severity uint8        `msgpack:"sev"`
	Code     uint16       `msgpack:"code"`
	Message  string       `msgpack:"msg"`
	Primary  CachedSpan   `msgpack:"primary"`
	Expected []string     `msgpack:"expected,omitempty"`
	Notes    []CachedNote `msgpack:"notes,omitempty"`
	Fixes    []CachedFix  `msgpack:"fixes,omitempty"`
}

// DiskPayload: содержимое одной записи кэша.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema      uint16             `msgpack:"schema"`
	Path        string             `msgpack:"path"`
	ContentHash project.Digest     `msgpack:"content_hash"`
	Diagnostics []CachedDiagnostic `msgpack:"diagnostics"`
	StoredAt    time.Time          `msgpack:"stored_at"`
}

// OpenDiskCache creates dir if needed and returns a cache rooted there.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if dir == "" {
		return nil, errors.New("empty cache directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// OpenUserCache открывает кэш в $XDG_CACHE_HOME/app (или ~/.cache/app).
func OpenUserCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCache(filepath.Join(base, app))
}

// Dir returns the cache root directory.
func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог по первому байту, чтобы не держать тысячи файлов в одном
	return filepath.Join(c.dir, "diag", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) (err error) {
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
	defer func() {
		// после Rename временного файла уже нет
		if removeErr := os.Remove(f.Name()); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) && err == nil {
			err = removeErr
		}
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (ok bool, err error) {
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
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// Lookup: Get с проверкой схемы; сбои чтения считаются промахом и уходят в trace.
func (c *DiskCache) Lookup(ctx context.Context, key project.Digest) (*DiskPayload, bool) {
	var payload DiskPayload
	ok, err := c.Get(key, &payload)
	switch {
	case err != nil:
		trace.PointCtx(ctx, trace.OpCacheError, err.Error())
		return nil, false
	case !ok:
		trace.PointCtx(ctx, trace.OpCacheMiss, hex.EncodeToString(key[:4]))
		return nil, false
	case payload.Schema != diskCacheSchemaVersion:
		trace.PointCtx(ctx, trace.OpCacheStale, fmt.Sprintf("schema %d", payload.Schema))
		return nil, false
	case !payload.wellFormed():
		trace.PointCtx(ctx, trace.OpCacheStale, "unknown severity")
		return nil, false
	}
	trace.PointCtx(ctx, trace.OpCacheHit, hex.EncodeToString(key[:4]))
	return &payload, true
}

// Store: Put, ошибки которого только трассируются: кэш не ломает прогон.
func (c *DiskCache) Store(ctx context.Context, key project.Digest, payload *DiskPayload) {
	if err := c.Put(key, payload); err != nil {
		trace.PointCtx(ctx, trace.OpCacheError, err.Error())
	}
}

// DropAll empties the cache directory (diag --clear-cache).
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// NewPayload converts diagnostics of file into a cache entry.
// Диагностики других файлов (их не бывает при разборе одного файла) пропускаются.
func NewPayload(file *source.File, diags []diag.Diagnostic) *DiskPayload {
	payload := &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Path:        file.Path,
		ContentHash: project.Digest(file.Hash),
		Diagnostics: make([]CachedDiagnostic, 0, len(diags)),
		StoredAt:    time.Now().UTC(),
	}
	for _, d := range diags {
		if d.Primary.File != file.ID {
			continue
		}
		cd := CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Primary:  toCachedSpan(d.Primary),
			Expected: d.Expected,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Span: toCachedSpan(n.Span), Msg: n.Msg})
		}
		for _, fix := range d.Fixes {
			cf := CachedFix{Title: fix.Title}
			for _, e := range fix.Edits {
				cf.Spans = append(cf.Spans, toCachedSpan(e.Span))
				cf.Texts = append(cf.Texts, e.NewText)
			}
			cd.Fixes = append(cd.Fixes, cf)
		}
		payload.Diagnostics = append(payload.Diagnostics, cd)
	}
	return payload
}

func (p *DiskPayload) wellFormed() bool {
	for _, cd := range p.Diagnostics {
		if !diag.Severity(cd.Severity).Valid() {
			return false
		}
	}
	return true
}

// Restore rebuilds diagnostics for the file with the given id.
func (p *DiskPayload) Restore(id source.FileID) []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(p.Diagnostics))
	for _, cd := range p.Diagnostics {
		d := diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  cd.Message,
			Primary:  cd.Primary.span(id),
			Expected: cd.Expected,
		}
		for _, n := range cd.Notes {
			d.Notes = append(d.Notes, diag.Note{Span: n.Span.span(id), Msg: n.Msg})
		}
		for _, cf := range cd.Fixes {
			fix := diag.Fix{Title: cf.Title}
			for i, sp := range cf.Spans {
				text := ""
				if i < len(cf.Texts) {
					text = cf.Texts[i]
				}
				fix.Edits = append(fix.Edits, diag.FixEdit{Span: sp.span(id), NewText: text})
			}
			d.Fixes = append(d.Fixes, fix)
		}
		out = append(out, d)
	}
	return out
}

func toCachedSpan(sp source.Span) CachedSpan {
	return CachedSpan{Start: sp.Start, End: sp.End}
}

func (s CachedSpan) span(id source.FileID) source.Span {
	return source.Span{File: id, Start: s.Start, End: s.End}
}
