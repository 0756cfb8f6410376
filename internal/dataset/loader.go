// Package dataset loads a listing file into a cleaned dataset and memoizes the
// result per file identity.
package dataset

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"compboard/internal/listing"
	"compboard/internal/sheet"
)

// DefaultCacheSize is how many file identities a Loader remembers.
const DefaultCacheSize = 8

// Identity is the cache key of a data file: a change to either the
// modification time or the size of the file makes a new identity.
type Identity struct {
	Path    string
	ModTime int64
	Size    int64
}

// Result is a cleaned dataset together with what was learned while loading it.
type Result struct {
	Identity Identity
	Dataset  *listing.Dataset
	Stats    listing.CleanStats
	LoadedAt time.Time
}

// Loader reads and cleans data files, reusing the cleaned dataset for as long
// as the underlying file is unchanged. It is safe for concurrent use.
type Loader struct {
	logger *slog.Logger
	cache  *lru.Cache[Identity, *Result]

	mu      sync.Mutex
	current map[string]Identity

	// Swappable for tests.
	stat func(string) (fs.FileInfo, error)
	read func(string) (*sheet.Table, error)
}

// NewLoader creates a Loader remembering up to size file identities.
func NewLoader(size int, logger *slog.Logger) (*Loader, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := lru.New[Identity, *Result](size)
	if err != nil {
		return nil, err
	}
	return &Loader{
		logger:  logger,
		cache:   cache,
		current: map[string]Identity{},
		stat:    os.Stat,
		read:    sheet.Read,
	}, nil
}

// Load returns the cleaned dataset for path, reading the file only when its
// identity changed since the last call.
func (l *Loader) Load(path string) (*Result, error) {
	path = filepath.Clean(path)
	info, err := l.stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Path: path, Kind: ErrMissingFile, Err: err}
		}
		return nil, &LoadError{Path: path, Kind: ErrUnreadable, Err: err}
	}
	if info.IsDir() {
		return nil, &LoadError{Path: path, Kind: ErrUnreadable, Err: errors.New("is a directory")}
	}
	id := Identity{Path: path, ModTime: info.ModTime().UnixNano(), Size: info.Size()}

	l.mu.Lock()
	defer l.mu.Unlock()

	if res, ok := l.cache.Get(id); ok {
		return res, nil
	}

	start := time.Now()
	tbl, err := l.read(path)
	if err != nil {
		return nil, &LoadError{Path: path, Kind: ErrUnreadable, Err: err}
	}
	if missing := tbl.MissingColumns(listing.RequiredColumns...); len(missing) > 0 {
		return nil, &LoadError{Path: path, Kind: ErrMissingColumns, Missing: missing}
	}

	ds, stats := listing.Clean(Records(tbl))
	if stats.RowsKept == 0 {
		return nil, &LoadError{Path: path, Kind: ErrNoRows}
	}
	res := &Result{Identity: id, Dataset: ds, Stats: stats, LoadedAt: time.Now()}

	if prev, ok := l.current[path]; ok && prev != id {
		l.cache.Remove(prev)
	}
	l.current[path] = id
	l.cache.Add(id, res)

	l.logger.Info("dataset loaded",
		"path", path,
		"rows_read", stats.RowsRead,
		"rows_kept", stats.RowsKept,
		"dropped_no_rating", stats.DroppedNoRating,
		"duration", time.Since(start))
	return res, nil
}

// Records maps sheet rows onto product records. Row numbers are 1-based with
// the header as row 1.
func Records(tbl *sheet.Table) []listing.ProductRecord {
	out := make([]listing.ProductRecord, 0, len(tbl.Rows))
	for i, row := range tbl.Rows {
		out = append(out, listing.ProductRecord{
			Row:            i + 2,
			Title:          row[listing.ColumnTitle],
			RatingRaw:      row[listing.ColumnRating],
			ReviewCountRaw: row[listing.ColumnReviewCount],
		})
	}
	return out
}
