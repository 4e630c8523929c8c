// Package types defines the core data structures for the feedstore system:
// inbound messages, the persisted row shapes, the identifier codec, and the
// typed views returned by the aggregation readers.
package types

// MessageType distinguishes the supported social actions.
type MessageType string

const (
	// TypeAmplify is either a first-time content submission or an upvote of
	// already-submitted content, disambiguated by href deduplication.
	TypeAmplify MessageType = "amplify"

	// TypeComment is a comment on an existing submission. The message href
	// field carries the target submission's id.
	TypeComment MessageType = "comment"
)

// Message is a verified social action ready for ingestion. Signature
// verification happens upstream; the Signature field is carried for
// completeness but never consumed here.
type Message struct {
	Type      MessageType `json:"type"`                // "amplify" or "comment"
	Href      string      `json:"href"`                // Content URL, or submission id for comments
	Index     string      `json:"index"`               // Hex sequence number, globally unique across all actions
	Title     string      `json:"title"`               // Content title snapshot at time of action
	Timestamp int64       `json:"timestamp"`           // Seconds since epoch
	Signer    string      `json:"signer"`              // Address of the key that signed the message
	Identity  string      `json:"identity"`            // Author's persistent address
	Signature string      `json:"signature,omitempty"` // Verified upstream, ignored by the store
}

// Submission is the persisted row shape of a first-time content submission.
type Submission struct {
	ID        string `json:"id"`        // Identifier (format: <namespace>:0x<index>)
	Href      string `json:"href"`      // Normalized URL, unique across submissions
	Title     string `json:"title"`     // Title at submission time
	Timestamp int64  `json:"timestamp"` // Seconds since epoch
	Signer    string `json:"signer"`    // Signing address
	Identity  string `json:"identity"`  // Author's address
}

// Upvote is the persisted row shape of an upvote referencing an existing
// submission by href.
type Upvote struct {
	ID        string `json:"id"`
	Href      string `json:"href"` // References a Submission's href
	Timestamp int64  `json:"timestamp"`
	Title     string `json:"title"` // Title snapshot at time of the upvote
	Signer    string `json:"signer"`
	Identity  string `json:"identity"`
}

// Comment is the persisted row shape of a comment on a submission.
type Comment struct {
	ID           string `json:"id"`
	SubmissionID string `json:"submission_id"` // References a Submission's id
	Timestamp    int64  `json:"timestamp"`
	Title        string `json:"title"` // Comment body snapshot
	Signer       string `json:"signer"`
	Identity     string `json:"identity"`
}
