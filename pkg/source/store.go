// pkg/source/store.go
package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/tastelab/recipe-ingress/pkg/config"
	"github.com/tastelab/recipe-ingress/pkg/model"
)

// Store implements DocumentSource over a relational engine holding one
// documents table: (collection, doc_id, body). The body column is JSON text
// on SQLite and JSONB on PostgreSQL; the read path is identical.
type Store struct {
	db     *sqlx.DB
	driver string
	logger *zap.Logger
}

// Open creates the document source selected by the configuration.
func Open(ctx context.Context, cfg config.SourceConfig) (*Store, error) {
	switch cfg.Driver {
	case "sqlite":
		return NewSQLiteStore(ctx, cfg.DSN)
	case "postgres":
		return NewPostgresStore(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported source driver %q", cfg.Driver)
	}
}

// NewSQLiteStore opens a local SQLite document store.
func NewSQLiteStore(ctx context.Context, dsn string) (*Store, error) {
	logger := zap.L().Named("sqlite-source")
	logger.Info("Opening SQLite document store", zap.String("dsn", dsn))

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite connection: %w", err)
	}

	// sqlite3 does not tolerate concurrent writers on one file
	ApplyConnectionSettings(db.DB, 1, 1, 0)

	if err := PingWithTimeout(ctx, db, 5*time.Second); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open SQLite store: %w", err)
	}

	return &Store{db: db, driver: "sqlite", logger: logger}, nil
}

// NewPostgresStore connects to a PostgreSQL document store.
func NewPostgresStore(ctx context.Context, dsn string) (*Store, error) {
	logger := zap.L().Named("postgres-source")
	logger.Info("Connecting to PostgreSQL document store")

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL connection: %w", err)
	}

	ApplyConnectionSettings(db.DB, 5, 2, 30*time.Minute)

	if err := PingWithTimeout(ctx, db, 5*time.Second); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	LogConnectionStats(logger, "documents", db.DB)
	return &Store{db: db, driver: "postgres", logger: logger}, nil
}

// DB returns the underlying database handle.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Validate verifies the connection and that the documents table exists.
func (s *Store) Validate() error {
	if err := s.db.Ping(); err != nil {
		return fmt.Errorf("document store unreachable: %w", err)
	}

	var one int
	query := s.db.Rebind("SELECT 1 FROM documents LIMIT 1")
	if err := s.db.QueryRow(query).Scan(&one); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("documents table not provisioned: %w", err)
	}

	s.logger.Info("Document store validated", zap.String("driver", s.driver))
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.logger.Info("Closing document store")
	return s.db.Close()
}

// Provision creates the documents table if it does not exist. Idempotent.
func (s *Store) Provision(ctx context.Context) error {
	bodyType := "TEXT"
	if s.driver == "postgres" {
		bodyType = "JSONB"
	}

	createSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			doc_id     TEXT NOT NULL,
			body       %s NOT NULL,
			PRIMARY KEY (collection, doc_id)
		)
	`, bodyType)

	if _, err := s.db.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("failed to create documents table: %w", err)
	}

	s.logger.Info("Ensured documents table exists")
	return nil
}

// FetchCollection returns every document in a collection, ordered by id.
// Documents whose body cannot be decoded are skipped with a warning; only
// total inability to read the collection is an error.
func (s *Store) FetchCollection(ctx context.Context, collection string) ([]model.Document, error) {
	query := s.db.Rebind("SELECT doc_id, body FROM documents WHERE collection = ? ORDER BY doc_id")

	rows, err := s.db.QueryxContext(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		var docID string
		var body []byte
		if err := rows.Scan(&docID, &body); err != nil {
			return nil, fmt.Errorf("failed to scan document in %s: %w", collection, err)
		}

		var payload map[string]interface{}
		if err := json.Unmarshal(body, &payload); err != nil {
			s.logger.Warn("Skipping undecodable document",
				zap.String("collection", collection),
				zap.String("doc_id", docID),
				zap.Error(err))
			continue
		}

		docs = append(docs, model.Document{ID: docID, Body: payload})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate collection %s: %w", collection, err)
	}

	s.logger.Info("Fetched collection",
		zap.String("collection", collection),
		zap.Int("documents", len(docs)))
	return docs, nil
}

// PutDocument upserts one document. Used by the seeder.
func (s *Store) PutDocument(ctx context.Context, collection, docID string, body map[string]interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode document %s/%s: %w", collection, docID, err)
	}

	var query string
	if s.driver == "postgres" {
		query = `INSERT INTO documents (collection, doc_id, body) VALUES ($1, $2, $3)
			ON CONFLICT (collection, doc_id) DO UPDATE SET body = EXCLUDED.body`
	} else {
		query = `INSERT OR REPLACE INTO documents (collection, doc_id, body) VALUES (?, ?, ?)`
	}

	if _, err := s.db.ExecContext(ctx, query, collection, docID, string(data)); err != nil {
		return fmt.Errorf("failed to upsert document %s/%s: %w", collection, docID, err)
	}
	return nil
}

// Clear removes every document in a collection.
func (s *Store) Clear(ctx context.Context, collection string) error {
	query := s.db.Rebind("DELETE FROM documents WHERE collection = ?")
	if _, err := s.db.ExecContext(ctx, query, collection); err != nil {
		return fmt.Errorf("failed to clear collection %s: %w", collection, err)
	}
	return nil
}
