package model

import "time"

// ThreadSummary is the transient per-listing-entry record produced during
// discovery. It is carried on the follow-up thread fetch so the extractor
// does not re-parse listing data; it is never persisted.
type ThreadSummary struct {
	Url     string
	Title   string
	RawDate string
	// Zero when the listing date attribute is absent or unparseable, which
	// makes the thread sort last during discovery ordering.
	PostedAt time.Time
}
