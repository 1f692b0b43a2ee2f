// Package history implements the bounded undo/redo stack. It owns immutable
// project snapshots and never mutates the live model; the session reads the
// project at commit time and applies returned snapshots itself.
package history

import "github.com/cutboard/cutboard-agent/internal/timeline"

// MaxEntries is the maximum number of retained snapshots. Committing past
// the bound evicts the oldest entry, ring-buffer style.
const MaxEntries = 100

// Snapshot is an immutable full copy of project state with a monotonically
// increasing sequence number.
type Snapshot struct {
	Seq     uint64
	Project *timeline.Project
}

// Stack is an ordered, bounded sequence of snapshots with a current pointer.
// The entry at the pointer is the state currently visible on the timeline.
type Stack struct {
	entries []Snapshot
	ptr     int // index of current entry; -1 when empty
	max     int
	nextSeq uint64
}

// NewStack returns an empty stack bounded to MaxEntries.
func NewStack() *Stack {
	return NewStackWithLimit(MaxEntries)
}

// NewStackWithLimit returns an empty stack with a custom bound (min 1).
func NewStackWithLimit(max int) *Stack {
	if max < 1 {
		max = 1
	}
	return &Stack{ptr: -1, max: max}
}

// Commit captures a snapshot of the project: entries after the pointer are
// discarded (undo-branch truncation), the clone is appended, the pointer
// advances to the new tail, and the oldest entry is evicted if the bound is
// exceeded. Commit never fails.
func (s *Stack) Commit(p *timeline.Project) {
	s.entries = s.entries[:s.ptr+1]
	s.nextSeq++
	s.entries = append(s.entries, Snapshot{Seq: s.nextSeq, Project: p.Clone()})
	s.ptr = len(s.entries) - 1

	if len(s.entries) > s.max {
		over := len(s.entries) - s.max
		s.entries = append(s.entries[:0:0], s.entries[over:]...)
		s.ptr -= over
	}
}

// Undo moves the pointer back one entry and returns a copy of that snapshot's
// project. At the start boundary it returns (nil, false) without moving.
func (s *Stack) Undo() (*timeline.Project, bool) {
	if s.ptr <= 0 {
		return nil, false
	}
	s.ptr--
	return s.entries[s.ptr].Project.Clone(), true
}

// Redo moves the pointer forward one entry and returns a copy of that
// snapshot's project. At the tail it returns (nil, false) without moving.
func (s *Stack) Redo() (*timeline.Project, bool) {
	if s.ptr >= len(s.entries)-1 {
		return nil, false
	}
	s.ptr++
	return s.entries[s.ptr].Project.Clone(), true
}

// CanUndo reports whether Undo would move the pointer.
func (s *Stack) CanUndo() bool { return s.ptr > 0 }

// CanRedo reports whether Redo would move the pointer.
func (s *Stack) CanRedo() bool { return s.ptr < len(s.entries)-1 }

// Len returns the number of retained snapshots.
func (s *Stack) Len() int { return len(s.entries) }

// Seq returns the sequence number of the current snapshot, or 0 when empty.
func (s *Stack) Seq() uint64 {
	if s.ptr < 0 {
		return 0
	}
	return s.entries[s.ptr].Seq
}
