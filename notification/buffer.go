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

// Package notification relays webhook messages from the compliance service to open browser
// sessions. Delivery is best effort: nothing is persisted and late subscribers only see what is
// still in the buffer.
package notification

import (
	"sync"
	"time"

	"github.com/reap-finance/onboarding/model"
)

// DefaultCapacity is the number of records kept for GET /api/webhook.
const DefaultCapacity = 20

type Record struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewRecord stamps a message with an id and the current time.
func NewRecord(message string) Record {
	return Record{
		ID:        model.GenerateUUIDWithSuffix("notif"),
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}

// Buffer is a fixed-size ring of the most recent records.
type Buffer struct {
	mu      sync.RWMutex
	records []Record
	next    int
	size    int
}

func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Buffer{records: make([]Record, capacity)}
}

// Add records message and returns the stored record. Once full, the oldest record is dropped.
func (b *Buffer) Add(message string) Record {
	r := NewRecord(message)
	b.Insert(r)
	return r
}

// Insert stores an already stamped record.
func (b *Buffer) Insert(r Record) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.records[b.next] = r
	b.next = (b.next + 1) % len(b.records)
	if b.size < len(b.records) {
		b.size++
	}
}

// List returns the stored records, most recent first.
func (b *Buffer) List() []Record {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Record, 0, b.size)
	for i := 1; i <= b.size; i++ {
		idx := (b.next - i + len(b.records)) % len(b.records)
		out = append(out, b.records[idx])
	}
	return out
}

func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

func (b *Buffer) Capacity() int {
	return len(b.records)
}
