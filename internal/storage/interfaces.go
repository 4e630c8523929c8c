// Package storage provides the storage interfaces for the feedstore system.
//
// The layer is split into two small interfaces: an Ingestor that classifies
// and persists verified messages, and a Reader that answers windowed
// aggregate queries. Backends implement both; callers depend only on the
// side they use. Data flows one way: Ingestor -> relations -> Reader.
package storage

import (
	"context"

	"github.com/kiwinews/feedstore/pkg/types"
)

// Ingestor consumes verified messages and performs exactly one insert per
// call, choosing the target relation.
type Ingestor interface {
	// InsertMessage classifies msg and persists exactly one row.
	//
	// An "amplify" message creates a submission when its normalized href is
	// unseen, otherwise an upvote referencing the existing submission's
	// href. A "comment" message creates a comment row whose submission_id
	// is taken from the message href field. Any other type fails with
	// ErrUnsupportedType and persists nothing.
	//
	// Reprocessing an index is not idempotent: the primary-key constraint
	// rejects the duplicate insert as ErrDuplicate. At-most-once delivery
	// is the caller's responsibility.
	InsertMessage(ctx context.Context, msg *types.Message) error
}

// Reader answers read-only aggregate queries. Every windowed operation
// evaluates its window boundary at call time; see LookbackSeconds.
//
// Aggregates are derived on every call and never persisted. Readers are not
// isolated from concurrent writers: a submission may be observed without a
// concurrently-inserted upvote referencing it, or vice versa. Callers must
// tolerate eventually-consistent counts.
type Reader interface {
	// GetUpvotes returns the upvotes on submissions authored by identity
	// whose submission timestamp falls inside the window.
	GetUpvotes(ctx context.Context, identity string) ([]types.UpvoteView, error)

	// GetComments returns the comments relevant to identity: comments by
	// others on identity's submissions, plus comments by others on any
	// submission identity has itself commented on inside the window.
	// Deduplicated by id, ascending by timestamp.
	GetComments(ctx context.Context, identity string) ([]types.CommentView, error)

	// GetSubmission returns the full aggregate view of the submission with
	// the given derived index. Returns ErrNotFound if absent.
	GetSubmission(ctx context.Context, index string) (*types.SubmissionView, error)

	// ListNewest returns the 30 most recent in-window submissions by
	// timestamp descending, each annotated with upvote aggregates.
	ListNewest(ctx context.Context) ([]types.SubmissionSummary, error)
}

// Store composes ingestion and reading over one backing database.
type Store interface {
	Ingestor
	Reader

	// Close releases any resources held by the store.
	Close() error
}
