// Package storage keeps the persistent state of the bot in a sql database.
// Each table is represented by a struct with methods implementing the business
// logic for this data type, on top of the engine wrapper handling the
// differences between sqlite and postgres.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tg-censor/tg-censor/app/storage/engine"
)

// Suppressions is a storage for suppressed messages, the audit trail of deletions
type Suppressions struct {
	*engine.SQL
	engine.RWLocker
}

// Suppression represents a single deleted message with the phrases that caused it
type Suppression struct {
	ID          int64     `db:"id" json:"id"`
	GID         string    `db:"gid" json:"gid"`
	Timestamp   time.Time `db:"timestamp" json:"timestamp"`
	UserID      int64     `db:"user_id" json:"user_id"`
	UserName    string    `db:"user_name" json:"user_name"`
	Message     string    `db:"message" json:"message"`
	MatchesJSON string    `db:"matches" json:"-"` // store as JSON
	Matches     []string  `db:"-" json:"matches"` // don't store in DB
}

// suppressions-related command constants
const (
	CmdCreateSuppressionsTable engine.DBCmd = iota + 100
	CmdCreateSuppressionsIndexes
	CmdAddSuppression
	CmdGetSuppressions
	CmdCountSuppressions
)

// suppressionsQueries holds all suppressions-related queries
var suppressionsQueries = engine.NewQueryMap().
	Add(CmdCreateSuppressionsTable, engine.Query{
		Sqlite: `CREATE TABLE IF NOT EXISTS suppressions (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            gid TEXT NOT NULL DEFAULT '',
            timestamp TIMESTAMP,
            user_id INTEGER,
            user_name TEXT,
            message TEXT,
            matches TEXT DEFAULT '[]'
        )`,
		Postgres: `CREATE TABLE IF NOT EXISTS suppressions (
            id SERIAL PRIMARY KEY,
            gid TEXT NOT NULL DEFAULT '',
            timestamp TIMESTAMP,
            user_id BIGINT,
            user_name TEXT,
            message TEXT,
            matches TEXT DEFAULT '[]'
        )`,
	}).
	AddSame(CmdCreateSuppressionsIndexes, `
        CREATE INDEX IF NOT EXISTS idx_suppressions_gid_time ON suppressions(gid, timestamp);
        CREATE INDEX IF NOT EXISTS idx_suppressions_user ON suppressions(user_id);
    `).
	AddSame(CmdAddSuppression, "INSERT INTO suppressions (gid, timestamp, user_id, user_name, message, matches) "+
		"VALUES (:gid, :timestamp, :user_id, :user_name, :message, :matches)").
	AddSame(CmdGetSuppressions, "SELECT * FROM suppressions WHERE gid = ? ORDER BY timestamp DESC, id DESC LIMIT ?").
	AddSame(CmdCountSuppressions, "SELECT COUNT(*) FROM suppressions WHERE gid = ?")

// NewSuppressions creates a new Suppressions storage
func NewSuppressions(ctx context.Context, db *engine.SQL) (*Suppressions, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection is nil")
	}
	res := &Suppressions{SQL: db, RWLocker: db.MakeLock()}
	cfg := engine.TableConfig{
		Name:          "suppressions",
		CreateTable:   CmdCreateSuppressionsTable,
		CreateIndexes: CmdCreateSuppressionsIndexes,
		MigrateFunc:   res.migrate,
		QueriesMap:    suppressionsQueries,
	}
	if err := engine.InitTable(ctx, db, cfg); err != nil {
		return nil, fmt.Errorf("failed to init suppressions storage: %w", err)
	}
	return res, nil
}

// migrate is a no-op migration function, suppressions is a new table with no previous layout
func (s *Suppressions) migrate(_ context.Context, _ *sqlx.Tx, _ string) error {
	return nil
}

// Write adds a new suppression record. GID and timestamp are filled in if not set.
func (s *Suppressions) Write(ctx context.Context, sup Suppression) error {
	s.Lock()
	defer s.Unlock()

	sup.GID = s.GID()
	if sup.Timestamp.IsZero() {
		sup.Timestamp = time.Now()
	}
	matches, err := json.Marshal(sup.Matches)
	if err != nil {
		return fmt.Errorf("failed to marshal matches: %w", err)
	}
	sup.MatchesJSON = string(matches)

	query, err := suppressionsQueries.Pick(s.Type(), CmdAddSuppression)
	if err != nil {
		return fmt.Errorf("failed to get insert query: %w", err)
	}

	if _, err := s.NamedExecContext(ctx, query, sup); err != nil {
		return fmt.Errorf("failed to insert suppression: %w", err)
	}

	log.Printf("[INFO] suppression recorded for user_id:%d, name:%s, matches:%v", sup.UserID, sup.UserName, sup.Matches)
	return nil
}

// Read returns the latest suppression records, newest first, up to the given limit
func (s *Suppressions) Read(ctx context.Context, limit int) ([]Suppression, error) {
	s.RLock()
	defer s.RUnlock()

	query, err := suppressionsQueries.Pick(s.Type(), CmdGetSuppressions)
	if err != nil {
		return nil, fmt.Errorf("failed to get query: %w", err)
	}
	query = s.Adopt(query)

	var res []Suppression
	if err := s.SelectContext(ctx, &res, query, s.GID(), limit); err != nil {
		return nil, fmt.Errorf("failed to get suppressions: %w", err)
	}

	for i, sup := range res {
		var matches []string
		if err := json.Unmarshal([]byte(sup.MatchesJSON), &matches); err != nil {
			return nil, fmt.Errorf("failed to unmarshal matches for entry %d: %w", i, err)
		}
		res[i].Matches = matches
		res[i].Timestamp = sup.Timestamp.Local()
	}
	return res, nil
}

// Count returns the total number of suppression records for the group
func (s *Suppressions) Count(ctx context.Context) (int, error) {
	s.RLock()
	defer s.RUnlock()

	query, err := suppressionsQueries.Pick(s.Type(), CmdCountSuppressions)
	if err != nil {
		return 0, fmt.Errorf("failed to get query: %w", err)
	}
	query = s.Adopt(query)

	var count int
	if err := s.GetContext(ctx, &count, query, s.GID()); err != nil {
		return 0, fmt.Errorf("failed to count suppressions: %w", err)
	}
	return count, nil
}
