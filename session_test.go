package onboarding

import (
	"testing"
	"time"

	"github.com/reap-finance/onboarding/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStoreNeverAdoptsClientIDs(t *testing.T) {
	st := NewSessionStore(time.Hour)

	s, created := st.GetOrCreate("attacker-chosen-id")
	assert.True(t, created)
	assert.NotEqual(t, "attacker-chosen-id", s.ID)

	again, created := st.GetOrCreate(s.ID)
	assert.False(t, created)
	assert.Same(t, s, again)
	assert.Equal(t, 1, st.Len())
}

func TestSessionStoreIdleExpiry(t *testing.T) {
	now := time.Now()
	st := NewSessionStore(10 * time.Minute)
	st.now = func() time.Time { return now }

	idle, _ := st.GetOrCreate("")
	active, _ := st.GetOrCreate("")

	now = now.Add(8 * time.Minute)
	_, ok := st.Get(active.ID)
	require.True(t, ok)

	now = now.Add(5 * time.Minute)
	assert.Equal(t, 1, st.Sweep())

	_, ok = st.Get(idle.ID)
	assert.False(t, ok)
	_, ok = st.Get(active.ID)
	assert.True(t, ok)

	now = now.Add(11 * time.Minute)
	_, ok = st.Get(active.ID)
	assert.False(t, ok, "expired sessions are dropped on access")
	assert.Zero(t, st.Len())
}

func TestSessionWorkflows(t *testing.T) {
	st := NewSessionStore(0)
	s, _ := st.GetOrCreate("")

	first := workflow.NewWorkflow("E1", false, nil)
	second := workflow.NewWorkflow("E2", false, nil)
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	s.AddWorkflow(second)
	s.AddWorkflow(first)

	got, ok := s.Workflow(first.ID)
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Equal(t, []*workflow.Workflow{first, second}, s.Workflows())

	st.Delete(s.ID)
	_, ok = st.Get(s.ID)
	assert.False(t, ok)
}

func TestSessionHoldsEntity(t *testing.T) {
	st := NewSessionStore(0)
	s, _ := st.GetOrCreate("")
	assert.False(t, s.HoldsEntity(""))
	assert.False(t, s.HoldsEntity("E1"))

	s.AddWorkflow(workflow.NewWorkflow("E1", false, nil))
	assert.True(t, s.HoldsEntity("E1"))
	assert.False(t, s.HoldsEntity("E2"))
}
