package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/galerie/internal/domain"
	"github.com/bnema/galerie/internal/port"
	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Store struct {
	db *sql.DB
}

var hookOnce sync.Once

func registerHook() {
	hookOnce.Do(func() {
		sqlite.RegisterConnectionHook(func(conn sqlite.ExecQuerierContext, dsn string) error {
			pragmas := []string{
				"PRAGMA journal_mode = WAL",
				"PRAGMA busy_timeout = 5000",
				"PRAGMA synchronous = NORMAL",
				"PRAGMA foreign_keys = ON",
				"PRAGMA cache_size = -8000",    // 8MB
				"PRAGMA mmap_size = 268435456", // 256MB
			}
			for _, p := range pragmas {
				if _, err := conn.ExecContext(context.Background(), p, nil); err != nil {
					return fmt.Errorf("execute %s: %w", p, err)
				}
			}
			return nil
		})
	})
}

var migrateMu sync.Mutex

func NewStore(dataDir string) (*Store, error) {
	registerHook()

	dbPath := filepath.Join(dataDir, "galerie.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single connection for SQLite (WAL allows concurrent reads but only one writer)
	db.SetMaxOpenConns(1)

	// goose keeps its base FS and dialect in package globals
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) DB() *sql.DB {
	return s.db
}

const mediaColumns = `id, kind, file_name, mime_type, file_size, width, height, duration,
	processing, original_path, full_path, thumb_path, web_path, lqip, created_at`

// CreateMedia inserts a new media row. An existing id is left untouched and
// reported as domain.ErrConflict.
func (s *Store) CreateMedia(ctx context.Context, m *domain.Media) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO media (`+mediaColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		m.ID, string(m.Kind), m.FileName, m.MimeType, m.FileSize, m.Width, m.Height, m.Duration,
		int(m.Processing), m.OriginalPath, m.FullPath, m.ThumbPath, m.WebPath, m.LQIP,
		toMillis(m.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create media %s: %w", m.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create media %s: %w", m.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrConflict, m.ID)
	}
	return nil
}

func (s *Store) GetMedia(ctx context.Context, id string) (*domain.Media, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM media WHERE id = ?`, id)

	var (
		m          domain.Media
		kind       string
		processing int
		createdAt  int64
	)
	err := row.Scan(&m.ID, &kind, &m.FileName, &m.MimeType, &m.FileSize, &m.Width, &m.Height,
		&m.Duration, &processing, &m.OriginalPath, &m.FullPath, &m.ThumbPath, &m.WebPath,
		&m.LQIP, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get media %s: %w", id, err)
	}
	m.Kind = domain.MediaKind(kind)
	m.Processing = domain.ProcessingState(processing)
	m.CreatedAt = fromMillis(createdAt)
	return &m, nil
}

func (s *Store) DeleteMedia(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM media WHERE id = ?`, id)
	return err
}

// MarkReady flips a media item to ready and records where its web rendition lives.
func (s *Store) MarkReady(ctx context.Context, id string, webPath string) error {
	return s.updateMedia(ctx, `UPDATE media SET processing = ?, web_path = ? WHERE id = ?`,
		int(domain.ProcessingReady), webPath, id)
}

func (s *Store) SetProcessing(ctx context.Context, id string, state domain.ProcessingState) error {
	return s.updateMedia(ctx, `UPDATE media SET processing = ? WHERE id = ?`, int(state), id)
}

func (s *Store) updateMedia(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update media: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update media: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func timePtr(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := fromMillis(n.Int64)
	return &t
}

var _ port.MediaStore = (*Store)(nil)
