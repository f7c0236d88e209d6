package sumsub

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// EventKind is a widget event name without the SDK prefix, e.g. "applicantSubmitted" for
// "idCheck.onApplicantSubmitted".
type EventKind string

const (
	EventReady                  EventKind = "ready"
	EventInitialized            EventKind = "initialized"
	EventStepInitiated          EventKind = "stepInitiated"
	EventStepCompleted          EventKind = "stepCompleted"
	EventApplicantLoaded        EventKind = "applicantLoaded"
	EventApplicantSubmitted     EventKind = "applicantSubmitted"
	EventApplicantResubmitted   EventKind = "applicantResubmitted"
	EventApplicantStatusChanged EventKind = "applicantStatusChanged"
	EventError                  EventKind = "error"
)

var knownEvents = map[EventKind]struct{}{
	EventReady: {}, EventInitialized: {}, EventStepInitiated: {}, EventStepCompleted: {},
	EventApplicantLoaded: {}, EventApplicantSubmitted: {}, EventApplicantResubmitted: {},
	EventApplicantStatusChanged: {}, EventError: {},
}

// WidgetEvent is a decoded message from the embedded verification widget.
type WidgetEvent struct {
	Kind         EventKind `json:"kind"`
	ReviewStatus string    `json:"review_status,omitempty"`
	ReviewAnswer string    `json:"review_answer,omitempty"`
	Message      string    `json:"message,omitempty"`
}

type widgetPayload struct {
	ReviewStatus string `json:"reviewStatus"`
	ReviewResult struct {
		ReviewAnswer string `json:"reviewAnswer"`
	} `json:"reviewResult"`
	Code    string `json:"code"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// NormalizeEventName strips the "idCheck." namespace and the "on" handler prefix.
func NormalizeEventName(name string) EventKind {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "idCheck.")
	if rest := strings.TrimPrefix(name, "on"); rest != name && rest != "" {
		r, size := utf8.DecodeRuneInString(rest)
		if unicode.IsUpper(r) {
			name = string(unicode.ToLower(r)) + rest[size:]
		}
	}
	return EventKind(name)
}

// ParseWidgetEvent decodes a widget event. payload may be empty.
func ParseWidgetEvent(name string, payload json.RawMessage) (WidgetEvent, error) {
	kind := NormalizeEventName(name)
	if _, ok := knownEvents[kind]; !ok {
		return WidgetEvent{}, fmt.Errorf("unknown widget event %q", name)
	}

	event := WidgetEvent{Kind: kind}
	if len(payload) == 0 || string(payload) == "null" {
		return event, nil
	}

	var p widgetPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return WidgetEvent{}, fmt.Errorf("invalid payload for widget event %q: %w", name, err)
	}

	event.ReviewStatus = p.ReviewStatus
	event.ReviewAnswer = p.ReviewResult.ReviewAnswer
	switch {
	case p.Error != "":
		event.Message = p.Error
	case p.Message != "":
		event.Message = p.Message
	default:
		event.Message = p.Code
	}
	return event, nil
}
