package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/campus-assistant/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/campus-assistant/internal/core/domain"
	"github.com/custodia-labs/campus-assistant/internal/core/ports/driven"
	"github.com/custodia-labs/campus-assistant/internal/logger"
)

// IndexFileName is the database file created inside the cache directory.
const IndexFileName = "index.db"

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore keeps one vector index snapshot in a SQLite file.
type IndexStore struct {
	path string
}

// NewIndexStore creates a store rooted at cacheDir, creating the directory if needed.
func NewIndexStore(cacheDir string) (*IndexStore, error) {
	if cacheDir == "" {
		cacheDir = domain.DefaultCacheDir
	}
	if err := os.MkdirAll(cacheDir, 0700); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &IndexStore{path: filepath.Join(cacheDir, IndexFileName)}, nil
}

// Location returns the database file path.
func (s *IndexStore) Location() string {
	return s.path
}

// Exists reports whether an index file is present.
// It does not check that the file is readable.
func (s *IndexStore) Exists(_ context.Context) (bool, error) {
	_, err := os.Stat(s.path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat index: %w", err)
	}
}

// Save writes idx to a temporary database and renames it over the current one.
func (s *IndexStore) Save(ctx context.Context, idx driven.VectorIndex) error {
	tmp := s.path + ".tmp"
	if err := os.Remove(tmp); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing stale snapshot: %w", err)
	}

	if err := writeSnapshot(ctx, tmp, idx); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing index: %w", err)
	}

	logger.Debug("saved %d chunks to %s", idx.Len(), s.path)
	return nil
}

func writeSnapshot(ctx context.Context, path string, idx driven.VectorIndex) error {
	db, err := open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrate(db, migrations.FS); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	meta := idx.Metadata()
	chunks := idx.Chunks()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO index_meta (id, schema_version, dimension, model, chunk_count, created_at)
		VALUES (1, ?, ?, ?, ?, ?)
	`, meta.SchemaVersion, meta.Dimension, meta.Model, len(chunks),
		meta.CreatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (seq, id, document_id, source, content, position, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, c := range chunks {
		if _, err := stmt.ExecContext(ctx, i, c.ID, c.DocumentID, c.Source, c.Content,
			c.Position, float32SliceToBytes(c.Embedding)); err != nil {
			return fmt.Errorf("writing chunk %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

// Load reads the persisted index.
func (s *IndexStore) Load(ctx context.Context) (domain.IndexMetadata, []domain.Chunk, error) {
	var meta domain.IndexMetadata

	exists, err := s.Exists(ctx)
	if err != nil {
		return meta, nil, err
	}
	if !exists {
		return meta, nil, domain.ErrIndexNotFound
	}

	db, err := open(s.path)
	if err != nil {
		return meta, nil, fmt.Errorf("%w: %w", domain.ErrCorruptIndex, err)
	}
	defer db.Close()

	var version int
	if err := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").
		Scan(&version); err != nil {
		return meta, nil, fmt.Errorf("%w: reading schema version: %w", domain.ErrCorruptIndex, err)
	}
	if version == 0 || version > domain.IndexSchemaVersion {
		return meta, nil, fmt.Errorf("%w: unsupported schema version %d", domain.ErrCorruptIndex, version)
	}

	var createdAt string
	err = db.QueryRowContext(ctx, `
		SELECT schema_version, dimension, model, chunk_count, created_at
		FROM index_meta WHERE id = 1
	`).Scan(&meta.SchemaVersion, &meta.Dimension, &meta.Model, &meta.ChunkCount, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return meta, nil, fmt.Errorf("%w: missing metadata", domain.ErrCorruptIndex)
		}
		return meta, nil, fmt.Errorf("%w: reading metadata: %w", domain.ErrCorruptIndex, err)
	}
	meta.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return meta, nil, fmt.Errorf("%w: bad created_at %q", domain.ErrCorruptIndex, createdAt)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, document_id, source, content, position, embedding
		FROM chunks ORDER BY seq
	`)
	if err != nil {
		return meta, nil, fmt.Errorf("%w: querying chunks: %w", domain.ErrCorruptIndex, err)
	}
	defer rows.Close()

	chunks := make([]domain.Chunk, 0, meta.ChunkCount)
	for rows.Next() {
		var c domain.Chunk
		var blob []byte
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.Source, &c.Content, &c.Position, &blob); err != nil {
			return meta, nil, fmt.Errorf("%w: scanning chunk: %w", domain.ErrCorruptIndex, err)
		}
		if len(blob)%4 != 0 {
			return meta, nil, fmt.Errorf("%w: chunk %s has a truncated embedding", domain.ErrCorruptIndex, c.ID)
		}
		c.Embedding = bytesToFloat32Slice(blob)
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return meta, nil, fmt.Errorf("%w: iterating chunks: %w", domain.ErrCorruptIndex, err)
	}

	return meta, chunks, nil
}

// open opens a database file. The snapshot is written once and renamed, so
// it uses the default rollback journal rather than WAL sidecar files.
func open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// migrate runs all pending migrations.
func migrate(db *sql.DB, fsys fs.FS) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_index.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// float32SliceToBytes encodes a vector as little-endian float32s.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
