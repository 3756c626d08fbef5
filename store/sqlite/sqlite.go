/*
Package sqlite provides the SQLite-backed snapshot store.

PURPOSE:
  The analytics engine is a pure function over in-memory arrays; something
  still has to hand it those arrays. This store holds the raw upstream
  JSON documents (policies and clients) exactly as fetched, and implements
  ingest.Source so a refresh can re-normalize the whole snapshot at any
  time. It is deliberately dumb: documents in, documents out, no schema
  knowledge beyond an ID column for upserts.

KEY TABLES:
  policy_documents: one row per raw policy JSON document
  client_documents: one row per raw client JSON document

SNAPSHOT SEMANTICS:
  ReplacePolicyDocuments/ReplaceClientDocuments swap the full snapshot in one
  transaction, so a concurrent reader sees either the old set or the new set,
  never a mix. SavePolicyDocument upserts a single record for incremental
  syncs.

WAL MODE:
  SQLite is opened with WAL for better concurrency: multiple readers don't
  block, single writer at a time.

USAGE:
  store, err := sqlite.New("./data/polizas.db")   // ":memory:" for tests
  ...
  policies, err := ingest.Load(ctx, store)
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"
)

// Store persists raw upstream documents.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a store at the given database path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Each in-memory connection is its own database; a second pooled
	// connection would see none of the migrated tables.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS policy_documents (
		id TEXT PRIMARY KEY,
		doc TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS client_documents (
		id TEXT PRIMARY KEY,
		doc TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// DOCUMENT ACCESS (implements ingest.Source)
// =============================================================================

// ListPolicyDocuments returns every raw policy document.
func (s *Store) ListPolicyDocuments(ctx context.Context) ([][]byte, error) {
	return s.listDocuments(ctx, "policy_documents")
}

// ListClientDocuments returns every raw client document.
func (s *Store) ListClientDocuments(ctx context.Context) ([][]byte, error) {
	return s.listDocuments(ctx, "client_documents")
}

func (s *Store) listDocuments(ctx context.Context, table string) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT doc FROM "+table+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	var docs [][]byte
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		docs = append(docs, []byte(doc))
	}
	return docs, rows.Err()
}

// SavePolicyDocument upserts a single raw policy document.
func (s *Store) SavePolicyDocument(ctx context.Context, id string, doc []byte) error {
	return s.saveDocument(ctx, "policy_documents", id, doc)
}

// SaveClientDocument upserts a single raw client document.
func (s *Store) SaveClientDocument(ctx context.Context, id string, doc []byte) error {
	return s.saveDocument(ctx, "client_documents", id, doc)
}

func (s *Store) saveDocument(ctx context.Context, table, id string, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO "+table+" (id, doc, updated_at) VALUES (?, ?, ?) "+
			"ON CONFLICT(id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at",
		id, string(doc), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save document %s into %s: %w", id, table, err)
	}
	return nil
}

// ReplacePolicyDocuments swaps the full policy snapshot in one transaction.
func (s *Store) ReplacePolicyDocuments(ctx context.Context, docs [][]byte) error {
	return s.replaceDocuments(ctx, "policy_documents", docs)
}

// ReplaceClientDocuments swaps the full client snapshot in one transaction.
func (s *Store) ReplaceClientDocuments(ctx context.Context, docs [][]byte) error {
	return s.replaceDocuments(ctx, "client_documents", docs)
}

func (s *Store) replaceDocuments(ctx context.Context, table string, docs [][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for i, doc := range docs {
		id := documentID(doc)
		if id == "" {
			id = fmt.Sprintf("_anon-%d", i)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO "+table+" (id, doc, updated_at) VALUES (?, ?, ?) "+
				"ON CONFLICT(id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at",
			id, string(doc), now); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}

	return tx.Commit()
}

// CountDocuments returns (policies, clients) document counts.
func (s *Store) CountDocuments(ctx context.Context) (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var policies, clients int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM policy_documents").Scan(&policies); err != nil {
		return 0, 0, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM client_documents").Scan(&clients); err != nil {
		return 0, 0, err
	}
	return policies, clients, nil
}

// =============================================================================
// SNAPSHOT IMPORTS
// =============================================================================

// snapshotFile is the on-disk snapshot shape: the arrays an upstream fetch
// would return, captured to a file.
type snapshotFile struct {
	Policies []json.RawMessage `json:"policies"`
	Clients  []json.RawMessage `json:"clients"`
}

// ImportFile loads a JSON snapshot file ({"policies": [...], "clients":
// [...]}) and replaces both document sets.
func (s *Store) ImportFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot %s: %w", path, err)
	}
	return s.ImportSnapshot(ctx, data)
}

// ImportSnapshot replaces both document sets from a serialized snapshot.
func (s *Store) ImportSnapshot(ctx context.Context, data []byte) error {
	var snap snapshotFile
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	policyDocs := make([][]byte, len(snap.Policies))
	for i, m := range snap.Policies {
		policyDocs[i] = []byte(m)
	}
	clientDocs := make([][]byte, len(snap.Clients))
	for i, m := range snap.Clients {
		clientDocs[i] = []byte(m)
	}

	if err := s.ReplacePolicyDocuments(ctx, policyDocs); err != nil {
		return err
	}
	return s.ReplaceClientDocuments(ctx, clientDocs)
}

// documentID pulls the record identifier out of a raw document for use as
// the row key. IDs arrive as numbers or strings; json.Number tolerates both
// only for numbers, so fall back to a string probe.
func documentID(doc []byte) string {
	var numProbe struct {
		ID  json.Number `json:"id"`
		UID json.Number `json:"uid"`
	}
	if err := json.Unmarshal(doc, &numProbe); err == nil {
		if numProbe.ID.String() != "" {
			return numProbe.ID.String()
		}
		if numProbe.UID.String() != "" {
			return numProbe.UID.String()
		}
		return ""
	}
	var strProbe struct {
		ID  string `json:"id"`
		UID string `json:"uid"`
	}
	if err := json.Unmarshal(doc, &strProbe); err != nil {
		return ""
	}
	if strProbe.ID != "" {
		return strProbe.ID
	}
	return strProbe.UID
}
