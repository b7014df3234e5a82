// Package identity derives stable fingerprints for discovered businesses.
// The fingerprint is the dedup key used both within a run and across runs,
// so it must be deterministic and total: any candidate with at least a name
// produces one.
package identity

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/sells-group/leadscout/internal/model"
)

var fold = cases.Fold()

// Fingerprint returns the normalized identity key for a candidate.
//
// With a website: scheme and leading "www." stripped, host segment only,
// case-folded. Two URLs differing only by scheme, "www." prefix, or path
// fingerprint identically. Without a website: case-folded name joined with
// the address, whitespace runs collapsed to a single "_".
func Fingerprint(c model.Candidate) string {
	if c.Website != "" {
		return fold.String(hostOf(c.Website))
	}
	joined := fold.String(c.Name) + " " + fold.String(c.Location())
	return strings.Join(strings.Fields(joined), "_")
}

// hostOf extracts the bare host segment from a URL-ish string without
// requiring it to parse as a URL.
func hostOf(raw string) string {
	host := strings.TrimSpace(raw)
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	host = strings.TrimPrefix(host, "www.")
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	return host
}
