package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEntry(t *testing.T) {
	s := New("")
	assert.Equal(t, StepEntityCreation, s.CurrentStep)
	assert.True(t, s.NeedsEntity())
	assert.False(t, s.NeedsToken())

	s = New(" E1 ")
	assert.Equal(t, StepTokenPreparation, s.CurrentStep)
	assert.Equal(t, "E1", s.EntityID)
	assert.True(t, s.NeedsToken())
}

func TestTransition(t *testing.T) {
	atDocs := State{CurrentStep: StepDocumentVerification, EntityID: "E1", TokenRequestedFor: "E1", AutoStart: true}

	tests := []struct {
		name  string
		from  State
		event Event
		want  State
	}{
		{
			name:  "creation started latches",
			from:  New(""),
			event: Event{Type: EntityCreationStarted},
			want:  State{CurrentStep: StepEntityCreation, EntityCreationRequested: true, AutoStart: true},
		},
		{
			name:  "entity created moves to token preparation",
			from:  State{CurrentStep: StepEntityCreation, EntityCreationRequested: true},
			event: Event{Type: EntityCreated, EntityID: "E9"},
			want:  State{CurrentStep: StepTokenPreparation, EntityID: "E9", EntityCreationRequested: true},
		},
		{
			name:  "creation failure keeps step",
			from:  State{CurrentStep: StepEntityCreation, EntityCreationRequested: true},
			event: Event{Type: EntityCreationFailed, Error: "Invalid API key"},
			want:  State{CurrentStep: StepEntityCreation, EntityCreationRequested: true, Error: "Invalid API key"},
		},
		{
			name:  "token requested latches entity",
			from:  State{CurrentStep: StepTokenPreparation, EntityID: "E1"},
			event: Event{Type: TokenRequested},
			want:  State{CurrentStep: StepTokenPreparation, EntityID: "E1", TokenRequestedFor: "E1"},
		},
		{
			name:  "token received moves to document verification",
			from:  State{CurrentStep: StepTokenPreparation, EntityID: "E1", TokenRequestedFor: "E1"},
			event: Event{Type: TokenReceived, SDKToken: "tok", Provider: "SUMSUB"},
			want:  State{CurrentStep: StepDocumentVerification, EntityID: "E1", TokenRequestedFor: "E1", SDKToken: "tok", Provider: "SUMSUB"},
		},
		{
			name:  "token failure keeps step",
			from:  State{CurrentStep: StepTokenPreparation, EntityID: "E1", TokenRequestedFor: "E1"},
			event: Event{Type: TokenFailed, Error: "boom"},
			want:  State{CurrentStep: StepTokenPreparation, EntityID: "E1", TokenRequestedFor: "E1", Error: "boom"},
		},
		{
			name:  "submission completes",
			from:  atDocs,
			event: Event{Type: WidgetSubmitted},
			want:  State{CurrentStep: StepComplete, EntityID: "E1", TokenRequestedFor: "E1", AutoStart: true},
		},
		{
			name:  "completed review completes and navigates",
			from:  atDocs,
			event: Event{Type: WidgetStatusChanged, ReviewStatus: "completed"},
			want:  State{CurrentStep: StepComplete, EntityID: "E1", TokenRequestedFor: "E1", AutoStart: true, NavigateTo: "/entities/E1"},
		},
		{
			name:  "pending review is ignored",
			from:  atDocs,
			event: Event{Type: WidgetStatusChanged, ReviewStatus: "pending"},
			want:  atDocs,
		},
		{
			name:  "loaded is informational",
			from:  atDocs,
			event: Event{Type: WidgetLoaded},
			want:  atDocs,
		},
		{
			name:  "submission before a token is ignored",
			from:  State{CurrentStep: StepTokenPreparation, EntityID: "E1"},
			event: Event{Type: WidgetSubmitted},
			want:  State{CurrentStep: StepTokenPreparation, EntityID: "E1"},
		},
		{
			name:  "widget error keeps step",
			from:  atDocs,
			event: Event{Type: WidgetError, Error: "token expired"},
			want:  State{CurrentStep: StepDocumentVerification, EntityID: "E1", TokenRequestedFor: "E1", AutoStart: true, Error: "token expired"},
		},
		{
			name:  "retry clears creation latch",
			from:  State{CurrentStep: StepEntityCreation, EntityCreationRequested: true, Error: "x"},
			event: Event{Type: Retry},
			want:  State{CurrentStep: StepEntityCreation},
		},
		{
			name:  "retry clears token latch",
			from:  State{CurrentStep: StepTokenPreparation, EntityID: "E1", TokenRequestedFor: "E1", Error: "x"},
			event: Event{Type: Retry},
			want:  State{CurrentStep: StepTokenPreparation, EntityID: "E1"},
		},
		{
			name:  "retry without error keeps latches",
			from:  State{CurrentStep: StepEntityCreation, EntityCreationRequested: true},
			event: Event{Type: Retry},
			want:  State{CurrentStep: StepEntityCreation, EntityCreationRequested: true},
		},
		{
			name:  "auto start off",
			from:  State{CurrentStep: StepTokenPreparation, EntityID: "E1", EntityCreationRequested: true, AutoStart: true},
			event: Event{Type: AutoStartChanged, AutoStart: false},
			want:  State{CurrentStep: StepTokenPreparation, EntityID: "E1", EntityCreationRequested: true},
		},
		{
			name:  "auto start false to true restarts",
			from:  State{CurrentStep: StepTokenPreparation, EntityID: "E9", EntityCreationRequested: true, TokenRequestedFor: "E9", Error: "boom"},
			event: Event{Type: AutoStartChanged, AutoStart: true},
			want:  New(""),
		},
		{
			name:  "restart returns to the supplied entity",
			from:  State{CurrentStep: StepComplete, EntityID: "E1", SuppliedEntityID: "E1", TokenRequestedFor: "E1"},
			event: Event{Type: AutoStartChanged, AutoStart: true},
			want:  New("E1"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Transition(tt.from, tt.event))
		})
	}
}

func TestTransitionIsPure(t *testing.T) {
	s := New("")
	_ = Transition(s, Event{Type: EntityCreationStarted})
	assert.False(t, s.EntityCreationRequested)
}

func TestEntityPath(t *testing.T) {
	assert.Equal(t, "/entities/E1", EntityPath("E1"))
	assert.Equal(t, "/entities/a%2Fb", EntityPath("a/b"))
}
