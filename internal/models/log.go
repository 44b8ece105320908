package models

import "time"

type LogKind string

const (
	LogInfo    LogKind = "info"
	LogSuccess LogKind = "success"
	LogError   LogKind = "error"
)

// LogEntry is one line of the session activity log. Entries are append-only.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Kind      LogKind   `json:"kind"`
}
