// Stream event types and helpers. One batch produces an ordered sequence of
// these, terminated by a complete event; nothing is replayed or corrected
// after emission.

package stream

import (
	"go-jobdb-automation/internal/models"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelSuccess Level = "success"
)

// Event is the tagged union written to the caller as one NDJSON line.
type Event struct {
	Type    string              `json:"type"`
	Message string              `json:"message,omitempty"`
	Level   Level               `json:"level,omitempty"`
	Source  string              `json:"db,omitempty"`
	Image   string              `json:"image,omitempty"`
	Job     *models.EnrichedJob `json:"job,omitempty"`
}

// EmitFunc pushes one event toward the caller.
type EmitFunc func(Event)

func Log(level Level, message string) Event {
	return Event{Type: "log", Message: message, Level: level}
}

func CaptchaRequired(source, image string) Event {
	return Event{Type: "captcha_required", Source: source, Image: image}
}

func JobFound(job models.EnrichedJob) Event {
	return Event{Type: "job", Job: &job}
}

func Complete() Event {
	return Event{Type: "complete"}
}
