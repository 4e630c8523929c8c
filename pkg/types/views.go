package types

// The reader operations never hand out raw rows. Each returns a typed view
// built field by field, with internal identifiers replaced by the derived
// index (and, for comments, the submission reference exposed as href).

// UpvoteView is an upvote row annotated with its derived index.
type UpvoteView struct {
	ID        string `json:"id"`
	Href      string `json:"href"`
	Timestamp int64  `json:"timestamp"`
	Title     string `json:"title"`
	Signer    string `json:"signer"`
	Identity  string `json:"identity"`
	Index     string `json:"index"` // Derived from the trailing hex of ID
}

// CommentView is a comment row shaped for the activity feed: the raw
// submission_id is removed and exposed as Href instead.
type CommentView struct {
	ID        string `json:"id"`
	Href      string `json:"href"` // The commented submission's id
	Timestamp int64  `json:"timestamp"`
	Title     string `json:"title"`
	Signer    string `json:"signer"`
	Identity  string `json:"identity"`
	Index     string `json:"index"` // Derived from the trailing hex of ID
}

// Upvoter is one entry in a submission's ordered upvoter sequence.
type Upvoter struct {
	Identity  string `json:"identity"`
	Timestamp int64  `json:"timestamp"`
}

// SubmissionComment is a comment as it appears inside a SubmissionView.
// The raw id is stripped and replaced by the derived index.
type SubmissionComment struct {
	Type      string `json:"type"` // Always "comment"
	Index     string `json:"index"`
	Timestamp int64  `json:"timestamp"`
	Title     string `json:"title"`
	Signer    string `json:"signer"`
	Identity  string `json:"identity"`
}

// SubmissionView is the full aggregate view of one submission: the row
// fields, the derived upvote aggregates, and the comment thread. The author
// counts as the implicit first upvoter.
type SubmissionView struct {
	Index     string              `json:"index"`
	Href      string              `json:"href"`
	Title     string              `json:"title"`
	Timestamp int64               `json:"timestamp"`
	Signer    string              `json:"signer"`
	Identity  string              `json:"identity"`
	Upvotes   int                 `json:"upvotes"`  // count of upvote rows + 1
	Upvoters  []Upvoter           `json:"upvoters"` // author first, then storage order
	Comments  []SubmissionComment `json:"comments"` // ascending by timestamp
}

// SubmissionSummary is one entry of the newest-submissions listing. Upvoters
// carries identities only, author first.
type SubmissionSummary struct {
	Index     string   `json:"index"`
	Href      string   `json:"href"`
	Title     string   `json:"title"`
	Timestamp int64    `json:"timestamp"`
	Signer    string   `json:"signer"`
	Identity  string   `json:"identity"`
	Upvotes   int      `json:"upvotes"`
	Upvoters  []string `json:"upvoters"`
}
