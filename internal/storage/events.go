package storage

import "time"

// EventWriter is the interface for persisting scan events.
// Write() must NEVER block the caller.
type EventWriter interface {
	Write(event *ScanEvent)
	Close()
}

// ScanEvent represents a single scan verdict to be persisted.
type ScanEvent struct {
	RequestID    string
	Timestamp    time.Time
	Site         string
	PostID       int64
	IsAnswer     bool
	Username     string
	OwnerRep     int32
	Score        int32
	TitlePreview string
	BodyPreview  string // first 500 chars
	BodyHash     string // SHA256 of the full body
	BodySize     uint32
	Spam         bool
	Reasons      []string
	Why          string
	LatencyMs    float32
	Source       string // "api" or "cli"
}

// PreviewLength is the max chars stored in the preview columns.
const PreviewLength = 500

// TruncateText returns the first N characters (runes) of a text for preview
// storage. It never splits a multi-byte UTF-8 character.
func TruncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen])
}
