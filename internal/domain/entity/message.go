package entity

import "fmt"

// Message is the text posted to the messaging channel for one entry.
type Message struct {
	Text               string
	DisableLinkPreview bool
}

// NewMessageFromEntry composes the title, the generated summary and the
// source link of an entry.
func NewMessageFromEntry(entry *FeedEntry, summary string) *Message {
	return NewMessage(fmt.Sprintf("%s\n\n%s\n\nSource: %s", entry.DisplayTitle(), summary, entry.Link))
}

func NewMessage(text string) *Message {
	return &Message{Text: text}
}
