package entity

import (
	"crypto/sha256"
	"encoding/hex"
)

const untitled = "Untitled"

// FeedEntry is one item of the polled feed. Every field is optional.
// ID comes from an Atom <id>, GUID from an RSS <guid>.
type FeedEntry struct {
	ID      string
	GUID    string
	Link    string
	Title   string
	Summary string
}

func NewFeedEntry(id, guid, link, title, summary string) *FeedEntry {
	return &FeedEntry{
		ID:      id,
		GUID:    guid,
		Link:    link,
		Title:   title,
		Summary: summary,
	}
}

// DisplayTitle returns the title, or "Untitled" when the feed gave none.
func (f *FeedEntry) DisplayTitle() string {
	if f.Title == "" {
		return untitled
	}
	return f.Title
}

// StableID returns the deduplication identifier of the entry.
func (f *FeedEntry) StableID() string {
	return StableID(f.ID, f.GUID, f.Link)
}

// StableID hashes the first non-empty value among id, guid and link.
// Entries carrying none of them all share the digest of the empty string.
func StableID(id, guid, link string) string {
	base := id
	if base == "" {
		base = guid
	}
	if base == "" {
		base = link
	}
	sum := sha256.Sum256([]byte(base))
	return hex.EncodeToString(sum[:])
}
