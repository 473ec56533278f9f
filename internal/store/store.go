// Package store provides SQLite persistence for the catalogd corpus.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/abelbrown/arcade/internal/catalog"
)

// Store holds the game corpus. NOT an interface - concrete type.
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex // Protects all database operations
}

// Open creates a new Store with the given database path.
// Creates tables if they don't exist.
// Uses WAL mode for file-based databases.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so every pooled connection sees the same database.
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

// createTables creates the games table. rowid is the insertion order
// used as the final tiebreak of every search.
func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS games (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		summary TEXT NOT NULL DEFAULT '',
		cover TEXT NOT NULL DEFAULT '',
		rating REAL,
		release_date TEXT,
		added_at TEXT,
		genres TEXT NOT NULL DEFAULT '',
		themes TEXT NOT NULL DEFAULT '',
		platforms TEXT NOT NULL DEFAULT '',
		game_modes TEXT NOT NULL DEFAULT '',
		perspectives TEXT NOT NULL DEFAULT '',
		content_type TEXT NOT NULL DEFAULT '',
		developers TEXT NOT NULL DEFAULT '',
		keywords TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_games_name ON games(name COLLATE NOCASE);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// SaveItems inserts items, or updates them in place when the id exists.
// Updated rows keep their original position. Returns the number of new rows.
func (s *Store) SaveItems(ctx context.Context, items []catalog.Item) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(items) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var before int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&before); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO games (
			id, name, summary, cover, rating, release_date, added_at,
			genres, themes, platforms, game_modes, perspectives, content_type,
			developers, keywords
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, summary = excluded.summary, cover = excluded.cover,
			rating = excluded.rating, release_date = excluded.release_date,
			added_at = excluded.added_at, genres = excluded.genres, themes = excluded.themes,
			platforms = excluded.platforms, game_modes = excluded.game_modes,
			perspectives = excluded.perspectives, content_type = excluded.content_type,
			developers = excluded.developers, keywords = excluded.keywords
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, it := range items {
		if it.ID == "" || strings.TrimSpace(it.Name) == "" {
			return 0, fmt.Errorf("item %q: id and name are required", it.ID)
		}
		_, err := stmt.ExecContext(ctx,
			it.ID, strings.TrimSpace(it.Name), it.Summary, it.Cover,
			nullRating(it.Rating), nullTime(it.ReleaseDate, dateLayout), nullTime(it.AddedAt, time.RFC3339),
			joinValues(it.Genres), joinValues(it.Themes), joinValues(it.Platforms),
			joinValues(it.GameModes), joinValues(it.Perspectives), it.ContentType,
			joinValues(it.Developers), joinValues(it.Keywords),
		)
		if err != nil {
			return 0, fmt.Errorf("save %s: %w", it.ID, err)
		}
	}

	var after int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&after); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return after - before, nil
}

// Search returns one page of games matching query in category. Exact name
// matches come first, then name prefix matches, then insertion order.
// An empty query matches everything.
func (s *Store) Search(ctx context.Context, query string, category catalog.Category, limit, offset int) ([]catalog.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	where, args := matchClause(query, category)
	q := strings.ToLower(strings.TrimSpace(query))

	sqlText := `
		SELECT id, name, summary, cover, rating, release_date, added_at,
			genres, themes, platforms, game_modes, perspectives, content_type,
			developers, keywords
		FROM games` + where + `
		ORDER BY
			CASE WHEN lower(name) = ? THEN 0
			     WHEN lower(name) LIKE ? ESCAPE '\' THEN 1
			     ELSE 2 END,
			seq
		LIMIT ? OFFSET ?`
	args = append(args, q, escapeLike(q)+"%", limit, offset)

	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	items := []catalog.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Count returns how many games match query in category.
func (s *Store) Count(ctx context.Context, query string, category catalog.Category) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	where, args := matchClause(query, category)
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// categoryColumns maps a category to the columns its query searches.
var categoryColumns = map[catalog.Category][]string{
	catalog.CategoryTitles:     {"name"},
	catalog.CategoryDevelopers: {"developers"},
	catalog.CategoryPlatforms:  {"platforms"},
	catalog.CategoryKeywords:   {"keywords"},
	catalog.CategoryAll:        {"name", "developers", "platforms", "keywords"},
}

// matchClause builds a case-insensitive substring WHERE clause.
func matchClause(query string, category catalog.Category) (string, []any) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "", nil
	}
	cols, ok := categoryColumns[category]
	if !ok {
		cols = categoryColumns[catalog.CategoryAll]
	}

	pattern := "%" + escapeLike(q) + "%"
	conds := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		conds[i] = "lower(" + col + `) LIKE ? ESCAPE '\'`
		args[i] = pattern
	}
	return " WHERE " + strings.Join(conds, " OR "), args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

const dateLayout = "2006-01-02"

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (catalog.Item, error) {
	var (
		it                                                       catalog.Item
		rating                                                   sql.NullFloat64
		release, added                                           sql.NullString
		genres, themes, platforms, modes, perspectives, devs, kw string
	)
	err := row.Scan(&it.ID, &it.Name, &it.Summary, &it.Cover, &rating, &release, &added,
		&genres, &themes, &platforms, &modes, &perspectives, &it.ContentType, &devs, &kw)
	if err != nil {
		return catalog.Item{}, fmt.Errorf("scan: %w", err)
	}

	if rating.Valid {
		it.Rating = catalog.Score(rating.Float64)
	}
	if release.Valid {
		it.ReleaseDate, _ = time.Parse(dateLayout, release.String)
	}
	if added.Valid {
		it.AddedAt, _ = time.Parse(time.RFC3339, added.String)
	}
	it.Genres = catalog.SplitValues(genres)
	it.Themes = catalog.SplitValues(themes)
	it.Platforms = catalog.SplitValues(platforms)
	it.GameModes = catalog.SplitValues(modes)
	it.Perspectives = catalog.SplitValues(perspectives)
	it.Developers = catalog.SplitValues(devs)
	it.Keywords = catalog.SplitValues(kw)
	return it, nil
}

func nullRating(r catalog.Rating) sql.NullFloat64 {
	return sql.NullFloat64{Float64: r.Value, Valid: r.Valid}
}

func nullTime(t time.Time, layout string) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(layout), Valid: true}
}

// joinValues stores a value list as one comma-delimited column.
func joinValues(v catalog.Values) string {
	return strings.Join(v, ",")
}
