package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	sqlite3 "modernc.org/sqlite"

	"github.com/kiwinews/feedstore/internal/storage"
	"github.com/kiwinews/feedstore/pkg/href"
	"github.com/kiwinews/feedstore/pkg/types"
)

// SQLite extended result codes for the two uniqueness constraints the
// schema carries (id primary keys and the submissions.href unique index).
const (
	sqliteConstraintPrimaryKey = 1555 // SQLITE_CONSTRAINT_PRIMARYKEY
	sqliteConstraintUnique     = 2067 // SQLITE_CONSTRAINT_UNIQUE
)

// newestLimit caps the ListNewest result set.
const newestLimit = 30

// Store implements storage.Store using SQLite.
type Store struct {
	db        *sql.DB
	namespace string

	// now supplies the reference time for window boundaries; overridden in
	// tests to pin the boundary.
	now func() time.Time
}

// NewStore opens a SQLite database, configures WAL mode, and bootstraps the
// schema. Schema creation is skipped when all three relations already exist;
// otherwise tables and indexes are created together. The namespace prefixes
// every identifier this store mints (e.g. "kiwi" -> "kiwi:0x1").
func NewStore(dsn, namespace string) (*Store, error) {
	if namespace == "" {
		return nil, fmt.Errorf("%w: namespace is required", storage.ErrInvalidInput)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one concurrent writer. A single open connection
	// serialises writes and avoids SQLITE_BUSY errors under concurrent load;
	// WAL mode lets readers proceed without blocking the writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := bootstrapSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, namespace: namespace, now: time.Now}, nil
}

// bootstrapSchema creates the three relations unless they are all already
// present.
func bootstrapSchema(db *sql.DB) error {
	var n int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'table' AND name IN ('submissions', 'upvotes', 'comments')
	`).Scan(&n)
	if err != nil {
		return fmt.Errorf("sqlite: failed to inspect schema: %w", err)
	}

	if n == 3 {
		return nil
	}

	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("sqlite: failed to create schema: %w", err)
	}

	return nil
}

// InsertMessage classifies msg and persists exactly one row. See
// storage.Ingestor for the contract.
func (s *Store) InsertMessage(ctx context.Context, msg *types.Message) error {
	if msg == nil {
		return storage.ErrInvalidInput
	}

	if msg.Index == "" {
		return fmt.Errorf("%w: message index is required", storage.ErrInvalidInput)
	}

	if msg.Href == "" {
		return fmt.Errorf("%w: message href is required", storage.ErrInvalidInput)
	}

	id := types.NewID(s.namespace, msg.Index).String()

	switch msg.Type {
	case types.TypeAmplify:
		return s.insertAmplify(ctx, id, msg)
	case types.TypeComment:
		return s.insertComment(ctx, id, msg)
	default:
		return fmt.Errorf("%w: %q", storage.ErrUnsupportedType, msg.Type)
	}
}

// insertAmplify resolves an amplify message to exactly one of
// {submission, upvote}. The submission insert is a single conditional
// statement guarded on href absence, so two concurrent amplifies for the
// same new href cannot both create a submission; the loser of the insert
// observes zero affected rows and records an upvote instead.
func (s *Store) insertAmplify(ctx context.Context, id string, msg *types.Message) error {
	normalized, err := href.Normalize(msg.Href)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrInvalidInput, err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions (id, href, title, timestamp, signer, identity)
		SELECT ?, ?, ?, ?, ?, ?
		WHERE NOT EXISTS (SELECT 1 FROM submissions WHERE href = ?)
	`, id, normalized, msg.Title, msg.Timestamp, msg.Signer, msg.Identity, normalized)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sqlite: submission %s: %w", id, storage.ErrDuplicate)
		}
		return fmt.Errorf("sqlite: failed to insert submission: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: failed to check rows affected: %w", err)
	}

	if n > 0 {
		return nil
	}

	// The href has already been submitted; this amplify is an upvote.
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO upvotes (id, href, timestamp, title, signer, identity)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, normalized, msg.Timestamp, msg.Title, msg.Signer, msg.Identity)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sqlite: upvote %s: %w", id, storage.ErrDuplicate)
		}
		return fmt.Errorf("sqlite: failed to insert upvote: %w", err)
	}

	return nil
}

// insertComment persists a comment row. The message href field carries the
// target submission's id.
func (s *Store) insertComment(ctx context.Context, id string, msg *types.Message) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (id, submission_id, timestamp, title, signer, identity)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, msg.Href, msg.Timestamp, msg.Title, msg.Signer, msg.Identity)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sqlite: comment %s: %w", id, storage.ErrDuplicate)
		}
		return fmt.Errorf("sqlite: failed to insert comment: %w", err)
	}

	return nil
}

// GetUpvotes returns the upvotes on submissions authored by identity whose
// submission falls inside the window.
func (s *Store) GetUpvotes(ctx context.Context, identity string) ([]types.UpvoteView, error) {
	if identity == "" {
		return nil, fmt.Errorf("%w: identity is required", storage.ErrInvalidInput)
	}

	windowStart := storage.WindowStart(s.now())

	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.href, u.timestamp, u.title, u.signer, u.identity
		FROM upvotes u
		JOIN submissions s ON s.href = u.href
		WHERE s.identity = ? AND s.timestamp >= ?
	`, identity, windowStart)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to query upvotes: %w", err)
	}
	defer rows.Close()

	var views []types.UpvoteView
	for rows.Next() {
		var v types.UpvoteView
		if err := rows.Scan(&v.ID, &v.Href, &v.Timestamp, &v.Title, &v.Signer, &v.Identity); err != nil {
			return nil, fmt.Errorf("sqlite: failed to scan upvote: %w", err)
		}

		id, err := types.ParseID(v.ID)
		if err != nil {
			return nil, fmt.Errorf("sqlite: upvote row: %w", err)
		}
		v.Index = id.Index

		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: error iterating upvotes: %w", err)
	}

	return views, nil
}

// GetComments unions two windowed sets, deduplicated by id and sorted
// ascending by timestamp: comments by others on identity's submissions, and
// comments by others on submissions identity has itself commented on.
//
// The window in the second set is applied to the triggering comment by
// identity and to each candidate's own timestamp, nothing more. That
// asymmetry is observable behavior and is kept as is.
func (s *Store) GetComments(ctx context.Context, identity string) ([]types.CommentView, error) {
	if identity == "" {
		return nil, fmt.Errorf("%w: identity is required", storage.ErrInvalidInput)
	}

	windowStart := storage.WindowStart(s.now())
	seen := make(map[string]bool)
	var views []types.CommentView

	collect := func(rows *sql.Rows) error {
		defer rows.Close()

		for rows.Next() {
			var c types.Comment
			if err := rows.Scan(&c.ID, &c.SubmissionID, &c.Timestamp, &c.Title, &c.Signer, &c.Identity); err != nil {
				return fmt.Errorf("sqlite: failed to scan comment: %w", err)
			}

			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true

			id, err := types.ParseID(c.ID)
			if err != nil {
				return fmt.Errorf("sqlite: comment row: %w", err)
			}

			views = append(views, types.CommentView{
				ID:        c.ID,
				Href:      c.SubmissionID,
				Timestamp: c.Timestamp,
				Title:     c.Title,
				Signer:    c.Signer,
				Identity:  c.Identity,
				Index:     id.Index,
			})
		}

		return rows.Err()
	}

	// Comments by others on submissions authored by identity.
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.submission_id, c.timestamp, c.title, c.signer, c.identity
		FROM comments c
		JOIN submissions s ON s.id = c.submission_id
		WHERE s.identity = ? AND c.identity != ? AND c.timestamp >= ?
	`, identity, identity, windowStart)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to query authored comments: %w", err)
	}
	if err := collect(rows); err != nil {
		return nil, err
	}

	// Comments by others on submissions identity has commented on.
	rows, err = s.db.QueryContext(ctx, `
		SELECT c.id, c.submission_id, c.timestamp, c.title, c.signer, c.identity
		FROM comments c
		WHERE c.submission_id IN (
			SELECT DISTINCT submission_id FROM comments
			WHERE identity = ? AND timestamp >= ?
		)
		AND c.identity != ?
		AND c.timestamp >= ?
	`, identity, windowStart, identity, windowStart)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to query involved comments: %w", err)
	}
	if err := collect(rows); err != nil {
		return nil, err
	}

	sort.SliceStable(views, func(i, j int) bool {
		if views[i].Timestamp != views[j].Timestamp {
			return views[i].Timestamp < views[j].Timestamp
		}
		return views[i].ID < views[j].ID
	})

	return views, nil
}

// GetSubmission returns the full aggregate view of the submission with the
// given derived index. The author counts as the implicit first upvoter, so
// the upvote count is always one more than the number of upvote rows.
func (s *Store) GetSubmission(ctx context.Context, index string) (*types.SubmissionView, error) {
	if index == "" {
		return nil, fmt.Errorf("%w: index is required", storage.ErrInvalidInput)
	}

	id := types.NewID(s.namespace, index).String()

	var sub types.Submission
	err := s.db.QueryRowContext(ctx, `
		SELECT id, href, title, timestamp, signer, identity
		FROM submissions WHERE id = ?
	`, id).Scan(&sub.ID, &sub.Href, &sub.Title, &sub.Timestamp, &sub.Signer, &sub.Identity)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to get submission: %w", err)
	}

	upvoters, err := s.upvoters(ctx, sub.Href)
	if err != nil {
		return nil, err
	}

	view := &types.SubmissionView{
		Index:     index,
		Href:      sub.Href,
		Title:     sub.Title,
		Timestamp: sub.Timestamp,
		Signer:    sub.Signer,
		Identity:  sub.Identity,
		Upvotes:   len(upvoters) + 1,
		Upvoters:  append([]types.Upvoter{{Identity: sub.Identity, Timestamp: sub.Timestamp}}, upvoters...),
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, title, signer, identity
		FROM comments
		WHERE submission_id = ?
		ORDER BY timestamp ASC
	`, sub.ID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to query comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c types.Comment
		if err := rows.Scan(&c.ID, &c.Timestamp, &c.Title, &c.Signer, &c.Identity); err != nil {
			return nil, fmt.Errorf("sqlite: failed to scan comment: %w", err)
		}

		cid, err := types.ParseID(c.ID)
		if err != nil {
			return nil, fmt.Errorf("sqlite: comment row: %w", err)
		}

		view.Comments = append(view.Comments, types.SubmissionComment{
			Type:      "comment",
			Index:     cid.Index,
			Timestamp: c.Timestamp,
			Title:     c.Title,
			Signer:    c.Signer,
			Identity:  c.Identity,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: error iterating comments: %w", err)
	}

	return view, nil
}

// ListNewest returns the most recent in-window submissions by timestamp
// descending, capped at 30, each annotated with its upvote aggregates.
func (s *Store) ListNewest(ctx context.Context) ([]types.SubmissionSummary, error) {
	windowStart := storage.WindowStart(s.now())

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, href, title, timestamp, signer, identity
		FROM submissions
		WHERE timestamp >= ?
		ORDER BY timestamp DESC
		LIMIT ?
	`, windowStart, newestLimit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to query newest submissions: %w", err)
	}
	defer rows.Close()

	var subs []types.Submission
	for rows.Next() {
		var sub types.Submission
		if err := rows.Scan(&sub.ID, &sub.Href, &sub.Title, &sub.Timestamp, &sub.Signer, &sub.Identity); err != nil {
			return nil, fmt.Errorf("sqlite: failed to scan submission: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: error iterating submissions: %w", err)
	}

	// Per-row follow-up queries, outside any transaction. A concurrently
	// inserted upvote may or may not be counted; callers tolerate
	// eventually-consistent aggregates.
	summaries := make([]types.SubmissionSummary, 0, len(subs))
	for _, sub := range subs {
		id, err := types.ParseID(sub.ID)
		if err != nil {
			return nil, fmt.Errorf("sqlite: submission row: %w", err)
		}

		upvoters, err := s.upvoters(ctx, sub.Href)
		if err != nil {
			return nil, err
		}

		identities := make([]string, 0, len(upvoters)+1)
		identities = append(identities, sub.Identity)
		for _, u := range upvoters {
			identities = append(identities, u.Identity)
		}

		summaries = append(summaries, types.SubmissionSummary{
			Index:     id.Index,
			Href:      sub.Href,
			Title:     sub.Title,
			Timestamp: sub.Timestamp,
			Signer:    sub.Signer,
			Identity:  sub.Identity,
			Upvotes:   len(upvoters) + 1,
			Upvoters:  identities,
		})
	}

	return summaries, nil
}

// upvoters returns the explicit upvoters of the given href in storage order.
// The relation is append-only, so rowid order is insertion order.
func (s *Store) upvoters(ctx context.Context, submissionHref string) ([]types.Upvoter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT identity, timestamp FROM upvotes
		WHERE href = ?
		ORDER BY rowid
	`, submissionHref)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to query upvoters: %w", err)
	}
	defer rows.Close()

	var upvoters []types.Upvoter
	for rows.Next() {
		var u types.Upvoter
		if err := rows.Scan(&u.Identity, &u.Timestamp); err != nil {
			return nil, fmt.Errorf("sqlite: failed to scan upvoter: %w", err)
		}
		upvoters = append(upvoters, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: error iterating upvoters: %w", err)
	}

	return upvoters, nil
}

// Close flushes the WAL into the main database file and releases resources.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}

	if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		log.Printf("sqlite: WAL checkpoint on close failed (non-fatal): %v", err)
	}

	return s.db.Close()
}

// isUniqueViolation reports whether err is a primary-key or unique-index
// constraint failure.
func isUniqueViolation(err error) bool {
	var se *sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqliteConstraintPrimaryKey || se.Code() == sqliteConstraintUnique
}
