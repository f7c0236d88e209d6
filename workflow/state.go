/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package workflow drives a single entity through verification:
// ENTITY_CREATION -> TOKEN_PREPARATION -> DOCUMENT_VERIFICATION -> COMPLETE.
//
// Transition is the pure state function. Workflow wraps it with the side effects (entity
// creation, token request) and the one-shot latches that keep those effects from running twice.
package workflow

import (
	"fmt"
	"net/url"
	"strings"
)

type Step string

const (
	StepEntityCreation       Step = "ENTITY_CREATION"
	StepTokenPreparation     Step = "TOKEN_PREPARATION"
	StepDocumentVerification Step = "DOCUMENT_VERIFICATION"
	StepComplete             Step = "COMPLETE"
)

// ReviewCompleted is the widget review status that ends the review and sends the user to the
// entity page.
const ReviewCompleted = "COMPLETED"

// State is a snapshot of a workflow. Any step may carry an Error while it waits for a retry.
type State struct {
	CurrentStep Step   `json:"current_step"`
	EntityID    string `json:"entity_id,omitempty"`
	SDKToken    string `json:"sdk_token,omitempty"`
	Provider    string `json:"provider,omitempty"`
	WebHref     string `json:"web_href,omitempty"`
	Error       string `json:"error,omitempty"`

	// EntityCreationRequested latches once CreateEntity has been issued.
	EntityCreationRequested bool `json:"entity_creation_requested"`
	// TokenRequestedFor holds the entity id a token was requested for.
	TokenRequestedFor string `json:"token_requested_for,omitempty"`

	NavigateTo string `json:"navigate_to,omitempty"`
	AutoStart  bool   `json:"auto_start"`

	// SuppliedEntityID is the entity id the workflow was opened with, used on restart.
	SuppliedEntityID string `json:"supplied_entity_id,omitempty"`
}

// New returns the entry state: TOKEN_PREPARATION for an existing entity, ENTITY_CREATION
// otherwise.
func New(entityID string) State {
	entityID = strings.TrimSpace(entityID)
	s := State{
		CurrentStep:      StepEntityCreation,
		AutoStart:        true,
		SuppliedEntityID: entityID,
	}
	if entityID != "" {
		s.CurrentStep = StepTokenPreparation
		s.EntityID = entityID
	}
	return s
}

type EventType string

const (
	EntityCreationStarted EventType = "ENTITY_CREATION_STARTED"
	EntityCreated         EventType = "ENTITY_CREATED"
	EntityCreationFailed  EventType = "ENTITY_CREATION_FAILED"
	TokenRequested        EventType = "TOKEN_REQUESTED"
	TokenReceived         EventType = "TOKEN_RECEIVED"
	TokenFailed           EventType = "TOKEN_FAILED"
	WidgetLoaded          EventType = "WIDGET_LOADED"
	WidgetSubmitted       EventType = "WIDGET_SUBMITTED"
	WidgetStatusChanged   EventType = "WIDGET_STATUS_CHANGED"
	WidgetError           EventType = "WIDGET_ERROR"
	Retry                 EventType = "RETRY"
	AutoStartChanged      EventType = "AUTO_START_CHANGED"
)

// Event carries the payload of one transition. Only the fields relevant to Type are read.
type Event struct {
	Type         EventType
	EntityID     string
	SDKToken     string
	Provider     string
	WebHref      string
	ReviewStatus string
	Error        string
	AutoStart    bool
}

// EntityPath is where a completed review navigates to.
func EntityPath(entityID string) string {
	return fmt.Sprintf("/entities/%s", url.PathEscape(entityID))
}

// Transition applies e to s. Events that do not apply to the current step leave s unchanged.
func Transition(s State, e Event) State {
	switch e.Type {
	case EntityCreationStarted:
		if s.CurrentStep == StepEntityCreation {
			s.EntityCreationRequested = true
			s.Error = ""
		}

	case EntityCreated:
		if s.CurrentStep == StepEntityCreation && e.EntityID != "" {
			s.CurrentStep = StepTokenPreparation
			s.EntityID = e.EntityID
			s.Error = ""
		}

	case EntityCreationFailed:
		if s.CurrentStep == StepEntityCreation {
			s.Error = e.Error
		}

	case TokenRequested:
		if s.CurrentStep == StepTokenPreparation {
			s.TokenRequestedFor = s.EntityID
			s.Error = ""
		}

	case TokenReceived:
		if s.CurrentStep == StepTokenPreparation {
			s.CurrentStep = StepDocumentVerification
			s.SDKToken = e.SDKToken
			s.Provider = e.Provider
			s.WebHref = e.WebHref
			s.Error = ""
		}

	case TokenFailed:
		if s.CurrentStep == StepTokenPreparation {
			s.Error = e.Error
		}

	case WidgetLoaded:
		// informational only

	case WidgetSubmitted:
		if s.CurrentStep == StepDocumentVerification {
			s.CurrentStep = StepComplete
			s.Error = ""
		}

	case WidgetStatusChanged:
		if !strings.EqualFold(e.ReviewStatus, ReviewCompleted) {
			break
		}
		if s.CurrentStep == StepDocumentVerification || s.CurrentStep == StepComplete {
			s.CurrentStep = StepComplete
			s.NavigateTo = EntityPath(s.EntityID)
			s.Error = ""
		}

	case WidgetError:
		if s.CurrentStep == StepDocumentVerification {
			s.Error = e.Error
		}

	case Retry:
		if s.Error == "" {
			break
		}
		s.Error = ""
		switch s.CurrentStep {
		case StepEntityCreation:
			s.EntityCreationRequested = false
		case StepTokenPreparation:
			s.TokenRequestedFor = ""
		}

	case AutoStartChanged:
		if !s.AutoStart && e.AutoStart {
			return New(s.SuppliedEntityID)
		}
		s.AutoStart = e.AutoStart
	}

	return s
}

// NeedsEntity reports whether CreateEntity should be issued now.
func (s State) NeedsEntity() bool {
	return s.CurrentStep == StepEntityCreation && !s.EntityCreationRequested
}

// NeedsToken reports whether a token should be requested now.
func (s State) NeedsToken() bool {
	return s.CurrentStep == StepTokenPreparation && s.EntityID != "" && s.TokenRequestedFor != s.EntityID
}
