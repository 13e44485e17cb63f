package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"shotpath/internal/config"
	"shotpath/internal/logging"
)

// ErrNotFound is returned when no record exists for a reference path.
var ErrNotFound = errors.New("catalog record not found")

// ErrLockTimeout is returned when the write lock could not be taken in time.
var ErrLockTimeout = errors.New("timed out waiting for catalog write lock")

// Record is one indexed entity.
type Record struct {
	Ref            string    `json:"reference_path"`
	Kind           string    `json:"kind"`
	Basename       string    `json:"basename"`
	Label          string    `json:"label,omitempty"`
	Online         bool      `json:"online"`
	HasRange       bool      `json:"has_range"`
	StartFrame     int       `json:"start_frame"`
	EndFrame       int       `json:"end_frame"`
	AvailableCount int       `json:"nb_frames_available"`
	MissingFrames  []int     `json:"missing_frames,omitempty"`
	SizeBytes      int64     `json:"size_bytes"`
	Owner          string    `json:"owner,omitempty"`
	Version        int       `json:"version"`
	Take           int       `json:"take"`
	HasTake        bool      `json:"has_take"`
	User           string    `json:"user,omitempty"`
	Shot           string    `json:"shot,omitempty"`
	IndexedAt      time.Time `json:"indexed_at"`
}

// Filter narrows List results. Zero fields match everything.
type Filter struct {
	Kind       string
	Shot       string
	Prefix     string
	OnlineOnly bool
	Limit      int
}

// Store manages catalog persistence backed by SQLite.
type Store struct {
	db          *sql.DB
	path        string
	lock        *flock.Flock
	lockTimeout time.Duration
	logger      *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLockTimeout bounds how long writers wait for the file lock.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Open initializes or connects to the catalog database at path.
func Open(path string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:          db,
		path:        path,
		lock:        flock.New(path + ".lock"),
		lockTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(store)
	}
	store.logger = logging.NewComponentLogger(logging.OrNop(store.logger), "catalog")

	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// OpenFromConfig opens the catalog configured in cfg.
func OpenFromConfig(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if !cfg.Catalog.Enabled {
		return nil, errors.New("catalog is disabled (set catalog.enabled = true)")
	}
	return Open(cfg.Catalog.Path,
		WithLockTimeout(time.Duration(cfg.Catalog.LockTimeoutSeconds)*time.Second),
		WithLogger(logger),
	)
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// withWriteLock runs fn while holding the cross-process write lock.
func (s *Store) withWriteLock(ctx context.Context, fn func() error) error {
	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	ok, err := s.lock.TryLockContext(lockCtx, 50*time.Millisecond)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return fmt.Errorf("%w: %s", ErrLockTimeout, s.lock.Path())
		}
		return fmt.Errorf("acquire catalog lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrLockTimeout, s.lock.Path())
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("failed to release catalog lock", logging.Error(err))
		}
	}()
	return fn()
}

const recordColumns = "ref, kind, basename, label, online, start_frame, end_frame, available_count, missing_frames_json, size_bytes, owner, version, take, user_initials, shot, indexed_at"

const upsertSQL = `INSERT INTO entities (` + recordColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(ref) DO UPDATE SET
    kind = excluded.kind,
    basename = excluded.basename,
    label = excluded.label,
    online = excluded.online,
    start_frame = excluded.start_frame,
    end_frame = excluded.end_frame,
    available_count = excluded.available_count,
    missing_frames_json = excluded.missing_frames_json,
    size_bytes = excluded.size_bytes,
    owner = excluded.owner,
    version = excluded.version,
    take = excluded.take,
    user_initials = excluded.user_initials,
    shot = excluded.shot,
    indexed_at = excluded.indexed_at`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Upsert inserts or replaces the record for rec.Ref.
func (s *Store) Upsert(ctx context.Context, rec Record) error {
	return s.withWriteLock(ctx, func() error {
		return upsert(ctx, s.db, rec)
	})
}

// UpsertAll writes every record in one transaction.
func (s *Store) UpsertAll(ctx context.Context, recs []Record) error {
	return s.withWriteLock(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin upsert tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()
		for _, rec := range recs {
			if err := upsert(ctx, tx, rec); err != nil {
				return err
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit upsert: %w", err)
		}
		return nil
	})
}

func upsert(ctx context.Context, db execer, rec Record) error {
	if strings.TrimSpace(rec.Ref) == "" {
		return errors.New("record reference path is required")
	}
	var missing any
	if len(rec.MissingFrames) > 0 {
		data, err := json.Marshal(rec.MissingFrames)
		if err != nil {
			return fmt.Errorf("marshal missing frames: %w", err)
		}
		missing = string(data)
	}
	indexedAt := rec.IndexedAt
	if indexedAt.IsZero() {
		indexedAt = time.Now()
	}

	_, err := db.ExecContext(ctx, upsertSQL,
		rec.Ref,
		rec.Kind,
		rec.Basename,
		nullableString(rec.Label),
		boolToInt(rec.Online),
		nullableInt(rec.StartFrame, rec.HasRange),
		nullableInt(rec.EndFrame, rec.HasRange),
		rec.AvailableCount,
		missing,
		rec.SizeBytes,
		nullableString(rec.Owner),
		rec.Version,
		nullableInt(rec.Take, rec.HasTake),
		nullableString(rec.User),
		nullableString(rec.Shot),
		indexedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", rec.Ref, err)
	}
	return nil
}

// Get returns the record for ref.
func (s *Store) Get(ctx context.Context, ref string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+recordColumns+" FROM entities WHERE ref = ?", ref)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", ref, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", ref, err)
	}
	return rec, nil
}

// List returns records matching filter, ordered by reference path.
func (s *Store) List(ctx context.Context, filter Filter) ([]*Record, error) {
	var (
		where []string
		args  []any
	)
	if filter.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, filter.Kind)
	}
	if filter.Shot != "" {
		where = append(where, "shot = ?")
		args = append(args, filter.Shot)
	}
	if filter.Prefix != "" {
		// Match the path itself or anything below it. SQLite counts TEXT
		// length in characters, so both sides use length() rather than a
		// Go byte count.
		self := strings.TrimRight(filter.Prefix, "/")
		under := self + "/"
		where = append(where, "(ref = ? OR substr(ref, 1, length(?)) = ?)")
		args = append(args, self, under, under)
	}
	if filter.OnlineOnly {
		where = append(where, "online = 1")
	}

	query := "SELECT " + recordColumns + " FROM entities"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY ref"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Delete removes the record for ref.
func (s *Store) Delete(ctx context.Context, ref string) error {
	return s.withWriteLock(ctx, func() error {
		res, err := s.db.ExecContext(ctx, "DELETE FROM entities WHERE ref = ?", ref)
		if err != nil {
			return fmt.Errorf("delete %s: %w", ref, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete %s: %w", ref, err)
		}
		if n == 0 {
			return fmt.Errorf("%s: %w", ref, ErrNotFound)
		}
		return nil
	})
}
