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
	"sort"
	"sync"
	"time"

	"github.com/reap-finance/onboarding/apikey"
	"github.com/reap-finance/onboarding/model"
	"github.com/reap-finance/onboarding/workflow"
	"github.com/sirupsen/logrus"
)

// Session is one browser session: its API key state and the workflows it opened.
// Sessions live in memory only.
type Session struct {
	ID        string
	Keys      *apikey.Resolver
	CreatedAt time.Time

	mu        sync.Mutex
	lastSeen  time.Time
	workflows map[string]*workflow.Workflow
}

func newSession(now time.Time) *Session {
	return &Session{
		ID:        model.GenerateUUIDWithSuffix("sess"),
		Keys:      apikey.NewResolver(),
		CreatedAt: now,
		lastSeen:  now,
		workflows: make(map[string]*workflow.Workflow),
	}
}

// AddWorkflow binds w to the session.
func (s *Session) AddWorkflow(w *workflow.Workflow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workflows[w.ID] = w
}

// Workflow looks up a workflow opened by this session.
func (s *Session) Workflow(id string) (*workflow.Workflow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workflows[id]
	return w, ok
}

// Workflows lists the session's workflows, oldest first.
func (s *Session) Workflows() []*workflow.Workflow {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*workflow.Workflow, 0, len(s.workflows))
	for _, w := range s.workflows {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// HoldsEntity reports whether one of the session's workflows is verifying entityID.
func (s *Session) HoldsEntity(entityID string) bool {
	if entityID == "" {
		return false
	}
	for _, w := range s.Workflows() {
		if w.State().EntityID == entityID {
			return true
		}
	}
	return false
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// SessionStore holds sessions and expires the idle ones.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	idle     time.Duration
	now      func() time.Time
}

func NewSessionStore(idle time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		idle:     idle,
		now:      time.Now,
	}
}

// Get returns a live session and marks it as seen.
func (st *SessionStore) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	now := st.now()

	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	if st.idle > 0 && s.idleSince(now) > st.idle {
		delete(st.sessions, id)
		return nil, false
	}
	s.touch(now)
	return s, true
}

// GetOrCreate returns the session for id, or a new session when id is unknown or expired.
// Ids are always generated here; an unknown id from a client is never adopted.
func (st *SessionStore) GetOrCreate(id string) (*Session, bool) {
	if s, ok := st.Get(id); ok {
		return s, false
	}

	s := newSession(st.now())
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s, true
}

func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep drops sessions idle for longer than the configured window and returns how many.
func (st *SessionStore) Sweep() int {
	if st.idle <= 0 {
		return 0
	}
	now := st.now()

	st.mu.Lock()
	defer st.mu.Unlock()
	removed := 0
	for id, s := range st.sessions {
		if s.idleSince(now) > st.idle {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// RunSweeper sweeps every interval until ctx is done.
func (st *SessionStore) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				logrus.Infof("expired %d idle sessions", n)
			}
		}
	}
}
