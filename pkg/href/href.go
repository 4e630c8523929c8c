// Package href normalizes content URLs. Normalization is the deduplication
// key that decides whether an amplify message creates a submission or an
// upvote, so two spellings of the same URL must normalize identically.
package href

import (
	"fmt"

	"github.com/PuerkitoBio/purell"
)

// flags canonicalizes scheme, host, escapes, default port, path segments, and
// query order. FlagRemoveWWW is deliberately absent: "www.example.com" and
// "example.com" may serve different content and stay distinct submissions.
const flags = purell.FlagsSafe |
	purell.FlagRemoveTrailingSlash |
	purell.FlagRemoveDotSegments |
	purell.FlagRemoveDuplicateSlashes |
	purell.FlagSortQuery

// Normalize returns the canonical form of raw. It is idempotent:
// Normalize(Normalize(h)) == Normalize(h).
func Normalize(raw string) (string, error) {
	normalized, err := purell.NormalizeURLString(raw, flags)
	if err != nil {
		return "", fmt.Errorf("href: failed to normalize %q: %w", raw, err)
	}
	return normalized, nil
}
