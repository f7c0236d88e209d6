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

package onboarding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/reap-finance/onboarding/internal/apierror"
	"github.com/reap-finance/onboarding/model"
	"github.com/reap-finance/onboarding/sumsub"
	"github.com/reap-finance/onboarding/workflow"
	"github.com/sirupsen/logrus"
)

// VerificationRequest opens a workflow. With EntityID set the entity is reused and the workflow
// starts at token preparation; otherwise ExternalID and Type describe the entity to create.
type VerificationRequest struct {
	EntityID     string
	ExternalID   string
	Type         model.EntityType
	Requirements []model.RequirementInput
	MemberID     string
	AutoStart    bool
}

// verificationBackend runs workflow effects against the compliance service. The key is resolved
// on every call, so a key change in the session applies to the next effect.
type verificationBackend struct {
	o       *Onboarding
	session *Session
	entity  model.CreateEntity
	member  string
}

func (b *verificationBackend) CreateEntity(ctx context.Context) (string, error) {
	created, err := b.o.compliance.CreateEntity(ctx, b.o.ResolveKey(b.session), b.entity)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

func (b *verificationBackend) RequestToken(ctx context.Context, entityID string) (*model.KycLink, error) {
	if b.o.sumsub != nil {
		token, err := b.o.sumsub.AccessToken(ctx, entityID, "", 0)
		if err != nil {
			return nil, err
		}
		return &model.KycLink{Provider: sumsub.Provider, SDKToken: token.Token}, nil
	}

	return b.o.compliance.RequestVerificationToken(ctx, b.o.ResolveKey(b.session), entityID, model.KycLinkRequest{
		MemberID:   b.member,
		SuccessURL: b.o.callbackURL(entityID, "success"),
		FailureURL: b.o.callbackURL(entityID, "failure"),
	})
}

// callbackURL is where the hosted verification page sends the user back to.
func (o *Onboarding) callbackURL(entityID, outcome string) string {
	return fmt.Sprintf("%s%s?verification=%s", o.config.App.BaseURL, workflow.EntityPath(entityID), url.QueryEscape(outcome))
}

// StartVerification opens a workflow in the session and advances it when AutoStart is set. The
// effects run detached from ctx's cancellation, so a browser disconnect does not fail them.
//
// Parameters:
// - ctx context.Context: The context for the operation.
// - s *Session: The browser session that owns the workflow.
// - req VerificationRequest: The entity to verify.
//
// Returns:
// - *workflow.Workflow: The workflow, addressable by its ID within the session.
// - workflow.State: The state after advancing.
// - error: INVALID_ARGUMENT when neither an entity id nor a valid entity description is given.
func (o *Onboarding) StartVerification(ctx context.Context, s *Session, req VerificationRequest) (*workflow.Workflow, workflow.State, error) {
	entityID := strings.TrimSpace(req.EntityID)
	if entityID == "" {
		if strings.TrimSpace(req.ExternalID) == "" {
			return nil, workflow.State{}, apierror.InvalidArgument("external id is required to create an entity")
		}
		if !req.Type.Valid() {
			return nil, workflow.State{}, apierror.InvalidArgument(fmt.Sprintf("invalid entity type %q", req.Type))
		}
	}

	backend := &verificationBackend{
		o:       o,
		session: s,
		entity: model.CreateEntity{
			ExternalID:   strings.TrimSpace(req.ExternalID),
			Type:         req.Type,
			Requirements: req.Requirements,
		},
		member: req.MemberID,
	}
	w := workflow.NewWorkflow(entityID, req.AutoStart, backend)
	s.AddWorkflow(w)

	logrus.WithFields(logrus.Fields{
		"session_id":  s.ID,
		"workflow_id": w.ID,
		"entity_id":   entityID,
		"auto_start":  req.AutoStart,
	}).Info("verification workflow opened")

	state := w.Advance(context.WithoutCancel(ctx))
	return w, state, nil
}

// Verification looks up a workflow of the session.
func (o *Onboarding) Verification(s *Session, workflowID string) (*workflow.Workflow, error) {
	w, ok := s.Workflow(workflowID)
	if !ok {
		return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("verification %s not found", workflowID), nil)
	}
	return w, nil
}

// VerificationEvent forwards an event from the embedded widget to a workflow.
func (o *Onboarding) VerificationEvent(s *Session, workflowID, event string, payload json.RawMessage) (workflow.State, error) {
	w, err := o.Verification(s, workflowID)
	if err != nil {
		return workflow.State{}, err
	}
	return w.HandleWidgetEvent(event, payload)
}

// RetryVerification re-runs the failed step of a workflow.
func (o *Onboarding) RetryVerification(ctx context.Context, s *Session, workflowID string) (workflow.State, error) {
	w, err := o.Verification(s, workflowID)
	if err != nil {
		return workflow.State{}, err
	}
	return w.Retry(context.WithoutCancel(ctx)), nil
}

// SetVerificationAutoStart toggles auto start; switching it back on restarts the workflow.
func (o *Onboarding) SetVerificationAutoStart(ctx context.Context, s *Session, workflowID string, autoStart bool) (workflow.State, error) {
	w, err := o.Verification(s, workflowID)
	if err != nil {
		return workflow.State{}, err
	}
	return w.SetAutoStart(context.WithoutCancel(ctx), autoStart), nil
}

// WidgetToken issues a widget access token through the provider's signed API. It is only
// available when provider credentials are configured, and only for an entity one of the
// session's workflows is verifying.
func (o *Onboarding) WidgetToken(ctx context.Context, s *Session, userID, levelName string, ttl time.Duration) (*sumsub.AccessToken, error) {
	if o.sumsub == nil {
		return nil, apierror.NewAPIError(apierror.ErrNotFound, "widget provider credentials are not configured", nil)
	}
	if !s.HoldsEntity(userID) {
		logrus.WithFields(logrus.Fields{"session_id": s.ID, "user_id": userID}).Warn("widget token refused for entity outside the session")
		return nil, apierror.NewAPIError(apierror.ErrForbidden, "entity is not being verified in this session", nil)
	}
	return o.sumsub.AccessToken(ctx, userID, levelName, ttl)
}
