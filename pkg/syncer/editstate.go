// Copyright (C) 2025 SkillSphere Learning (opensource@skillsphere.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package syncer

import (
	"fmt"
	"sync"
)

// Phase is the edit lifecycle state of one list item.
//
// Transitions:
//
//	Viewing -> Editing      Begin
//	Editing -> Viewing      Cancel (draft discarded)
//	Editing -> Saving       BeginSave
//	Saving  -> Viewing      CompleteSave (success)
//	Saving  -> Editing      FailSave (draft preserved)
type Phase int

const (
	// Viewing is the resting state; no draft exists.
	Viewing Phase = iota
	// Editing holds an uncommitted draft.
	Editing
	// Saving means a save request is in flight; input is frozen.
	Saving
)

// String returns the phase name for logging.
func (p Phase) String() string {
	switch p {
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	default:
		return "viewing"
	}
}

// EditTracker tracks the edit phase and draft of each item in a list view.
// It guards against applying a save result to an item that was never
// saving, and preserves the user's draft when a save fails.
type EditTracker[T any] struct {
	mu     sync.Mutex
	phases map[string]Phase
	drafts map[string]T
}

// NewEditTracker creates an empty tracker; every id starts in Viewing.
func NewEditTracker[T any]() *EditTracker[T] {
	return &EditTracker[T]{
		phases: make(map[string]Phase),
		drafts: make(map[string]T),
	}
}

// Phase returns the current phase of an item.
func (t *EditTracker[T]) Phase(id string) Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phases[id]
}

// Draft returns the uncommitted draft for an item, if one exists.
func (t *EditTracker[T]) Draft(id string) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	d, ok := t.drafts[id]
	return d, ok
}

// Begin moves an item from Viewing to Editing with an initial draft.
func (t *EditTracker[T]) Begin(id string, draft T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p := t.phases[id]; p != Viewing {
		return fmt.Errorf("cannot begin editing %s: item is %s", id, p)
	}
	t.phases[id] = Editing
	t.drafts[id] = draft
	return nil
}

// Revise replaces the draft of an item being edited.
func (t *EditTracker[T]) Revise(id string, draft T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p := t.phases[id]; p != Editing {
		return fmt.Errorf("cannot revise %s: item is %s", id, p)
	}
	t.drafts[id] = draft
	return nil
}

// Cancel discards the draft and returns the item to Viewing.
func (t *EditTracker[T]) Cancel(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p := t.phases[id]; p != Editing {
		return fmt.Errorf("cannot cancel %s: item is %s", id, p)
	}
	delete(t.phases, id)
	delete(t.drafts, id)
	return nil
}

// BeginSave freezes the item for saving and returns the draft to submit.
func (t *EditTracker[T]) BeginSave(id string) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var zero T
	if p := t.phases[id]; p != Editing {
		return zero, fmt.Errorf("cannot save %s: item is %s", id, p)
	}
	t.phases[id] = Saving
	return t.drafts[id], nil
}

// CompleteSave returns the item to Viewing after a confirmed save.
func (t *EditTracker[T]) CompleteSave(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p := t.phases[id]; p != Saving {
		return fmt.Errorf("cannot complete save of %s: item is %s", id, p)
	}
	delete(t.phases, id)
	delete(t.drafts, id)
	return nil
}

// FailSave returns the item to Editing after a failed save. The draft is
// preserved so the user's work survives the error.
func (t *EditTracker[T]) FailSave(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p := t.phases[id]; p != Saving {
		return fmt.Errorf("cannot fail save of %s: item is %s", id, p)
	}
	t.phases[id] = Editing
	return nil
}
