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

package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/reap-finance/onboarding/internal/apierror"
	"github.com/reap-finance/onboarding/model"
	"github.com/reap-finance/onboarding/sumsub"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("Verification workflow")

// Backend performs the side effects of a workflow. Neither call is retried by the workflow.
type Backend interface {
	CreateEntity(ctx context.Context) (entityID string, err error)
	RequestToken(ctx context.Context, entityID string) (*model.KycLink, error)
}

// Workflow owns one State and runs its effects. It is safe for concurrent use: effects are
// latched in the state before they are issued, so concurrent callers never duplicate them.
type Workflow struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	state   State
	backend Backend
	// epoch is bumped on restart; results of calls issued before it are dropped.
	epoch uint64
	// inflight is closed when the backend call currently running returns. A restart clears the
	// latches but not this, so the next call waits for the previous one.
	inflight chan struct{}
}

// NewWorkflow opens a workflow for entityID, or for a new entity when entityID is empty.
func NewWorkflow(entityID string, autoStart bool, backend Backend) *Workflow {
	s := New(entityID)
	s.AutoStart = autoStart
	return &Workflow{
		ID:        model.GenerateUUIDWithSuffix("wf"),
		CreatedAt: time.Now(),
		state:     s,
		backend:   backend,
	}
}

// State returns a snapshot.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Workflow) apply(e Event) State {
	w.state = Transition(w.state, e)
	return w.state
}

// Advance runs every effect the current step calls for, stopping at DOCUMENT_VERIFICATION or at
// the first failure. It does nothing while AutoStart is off. Calls that find an effect already
// in flight return the current state immediately.
func (w *Workflow) Advance(ctx context.Context) State {
	return w.run(ctx, false)
}

// Retry clears the failed stage's latch and runs it again. Without a pending error it is a no-op.
func (w *Workflow) Retry(ctx context.Context) State {
	w.mu.Lock()
	if w.state.Error == "" {
		s := w.state
		w.mu.Unlock()
		return s
	}
	w.apply(Event{Type: Retry})
	w.mu.Unlock()

	logrus.WithField("workflow_id", w.ID).Info("retrying verification workflow")
	return w.run(ctx, true)
}

// SetAutoStart toggles auto start. Switching it on after it was off restarts the workflow from
// its entry step with cleared latches, and advances it.
func (w *Workflow) SetAutoStart(ctx context.Context, autoStart bool) State {
	w.mu.Lock()
	restart := !w.state.AutoStart && autoStart
	w.apply(Event{Type: AutoStartChanged, AutoStart: autoStart})
	if restart {
		w.epoch++
	}
	w.mu.Unlock()

	if !autoStart {
		return w.State()
	}
	if restart {
		logrus.WithField("workflow_id", w.ID).Info("verification workflow restarted")
	}
	return w.run(ctx, false)
}

// HandleWidgetEvent applies an event emitted by the embedded widget. Submission completes the
// workflow; a COMPLETED review additionally sets NavigateTo.
func (w *Workflow) HandleWidgetEvent(name string, payload json.RawMessage) (State, error) {
	event, err := sumsub.ParseWidgetEvent(name, payload)
	if err != nil {
		return w.State(), apierror.InvalidArgument(err.Error())
	}

	var e Event
	switch event.Kind {
	case sumsub.EventApplicantSubmitted, sumsub.EventApplicantResubmitted:
		e = Event{Type: WidgetSubmitted}
	case sumsub.EventApplicantStatusChanged:
		e = Event{Type: WidgetStatusChanged, ReviewStatus: event.ReviewStatus}
	case sumsub.EventError:
		msg := event.Message
		if msg == "" {
			msg = "verification widget reported an error"
		}
		e = Event{Type: WidgetError, Error: msg}
	default:
		e = Event{Type: WidgetLoaded}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	before := w.state.CurrentStep
	s := w.apply(e)

	logrus.WithFields(logrus.Fields{
		"workflow_id": w.ID,
		"event":       event.Kind,
		"from":        before,
		"to":          s.CurrentStep,
	}).Info("widget event applied")
	return s, nil
}

func (w *Workflow) run(ctx context.Context, explicit bool) State {
	for {
		w.mu.Lock()
		if !explicit && !w.state.AutoStart {
			s := w.state
			w.mu.Unlock()
			return s
		}
		epoch := w.epoch

		if w.inflight != nil && (w.state.NeedsEntity() || w.state.NeedsToken()) {
			pending := w.inflight
			w.mu.Unlock()
			select {
			case <-pending:
			case <-ctx.Done():
				return w.State()
			}
			continue
		}

		switch {
		case w.state.NeedsEntity():
			w.apply(Event{Type: EntityCreationStarted})
			done := w.begin()
			w.mu.Unlock()

			entityID, err := w.createEntity(ctx)

			w.mu.Lock()
			w.finish(done)
			stale := epoch != w.epoch
			if !stale {
				if err != nil {
					w.apply(Event{Type: EntityCreationFailed, Error: errorMessage(err)})
				} else {
					w.apply(Event{Type: EntityCreated, EntityID: entityID})
				}
			}
			failed := err != nil
			w.mu.Unlock()
			if stale || failed {
				return w.State()
			}

		case w.state.NeedsToken():
			entityID := w.state.EntityID
			w.apply(Event{Type: TokenRequested})
			done := w.begin()
			w.mu.Unlock()

			link, err := w.requestToken(ctx, entityID)

			w.mu.Lock()
			w.finish(done)
			stale := epoch != w.epoch
			if !stale {
				if err != nil {
					w.apply(Event{Type: TokenFailed, Error: errorMessage(err)})
				} else {
					w.apply(Event{Type: TokenReceived, SDKToken: link.SDKToken, Provider: link.Provider, WebHref: link.WebHref})
				}
			}
			s := w.state
			w.mu.Unlock()
			return s

		default:
			s := w.state
			w.mu.Unlock()
			return s
		}
	}
}

// begin and finish bracket a backend call. Both are called with mu held.
func (w *Workflow) begin() chan struct{} {
	done := make(chan struct{})
	w.inflight = done
	return done
}

func (w *Workflow) finish(done chan struct{}) {
	if w.inflight == done {
		w.inflight = nil
	}
	close(done)
}

func (w *Workflow) createEntity(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "Creating entity", trace.WithAttributes(attribute.String("workflow.id", w.ID)))
	defer span.End()

	entityID, err := w.backend.CreateEntity(ctx)
	if err == nil && entityID == "" {
		err = apierror.RequestFailed(0, "compliance service returned an entity without id")
	}
	if err != nil {
		span.RecordError(err)
		logrus.WithField("workflow_id", w.ID).WithError(err).Error("entity creation failed")
		return "", err
	}
	span.SetAttributes(attribute.String("entity.id", entityID))
	return entityID, nil
}

func (w *Workflow) requestToken(ctx context.Context, entityID string) (*model.KycLink, error) {
	ctx, span := tracer.Start(ctx, "Requesting verification token", trace.WithAttributes(
		attribute.String("workflow.id", w.ID),
		attribute.String("entity.id", entityID),
	))
	defer span.End()

	link, err := w.backend.RequestToken(ctx, entityID)
	if err == nil && (link == nil || (link.SDKToken == "" && link.WebHref == "")) {
		err = apierror.RequestFailed(0, "compliance service returned neither a token nor a verification link")
	}
	if err != nil {
		span.RecordError(err)
		logrus.WithFields(logrus.Fields{"workflow_id": w.ID, "entity_id": entityID}).WithError(err).Error("verification token request failed")
		return nil, err
	}
	return link, nil
}

// errorMessage keeps the upstream message of typed failures and drops the code prefix.
func errorMessage(err error) string {
	var apiErr apierror.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
