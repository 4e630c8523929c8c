// Package sqlite provides the SQLite implementation of the feedstore
// storage interfaces. It is the primary backend.
package sqlite

// Schema contains the SQL statements that create the three relations and
// their indexes. Relations are append-only: no update or delete statement
// exists anywhere in this package.
const Schema = `
-- Submissions: first-time content submissions, deduplicated by normalized href
CREATE TABLE IF NOT EXISTS submissions (
    id TEXT PRIMARY KEY,
    href TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    timestamp INTEGER NOT NULL,
    signer TEXT NOT NULL,
    identity TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_submissions_href ON submissions(href);
CREATE INDEX IF NOT EXISTS idx_submissions_timestamp ON submissions(timestamp);
CREATE INDEX IF NOT EXISTS idx_submissions_identity ON submissions(identity);

-- Upvotes: subsequent amplifies of an already-submitted href
CREATE TABLE IF NOT EXISTS upvotes (
    id TEXT PRIMARY KEY,
    href TEXT NOT NULL REFERENCES submissions(href),
    timestamp INTEGER NOT NULL,
    title TEXT NOT NULL,
    signer TEXT NOT NULL,
    identity TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_upvotes_href ON upvotes(href);
CREATE INDEX IF NOT EXISTS idx_upvotes_timestamp ON upvotes(timestamp);
CREATE INDEX IF NOT EXISTS idx_upvotes_identity ON upvotes(identity);

-- Comments: threaded on a submission id
CREATE TABLE IF NOT EXISTS comments (
    id TEXT PRIMARY KEY,
    submission_id TEXT NOT NULL REFERENCES submissions(id),
    timestamp INTEGER NOT NULL,
    title TEXT NOT NULL,
    signer TEXT NOT NULL,
    identity TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_comments_submission_id ON comments(submission_id);
CREATE INDEX IF NOT EXISTS idx_comments_timestamp ON comments(timestamp);
CREATE INDEX IF NOT EXISTS idx_comments_identity ON comments(identity);
`
