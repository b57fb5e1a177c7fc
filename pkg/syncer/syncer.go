// Copyright (C) 2025 SkillSphere Learning (opensource@skillsphere.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

/*
Package syncer keeps an in-memory collection consistent with server state
under create, update, delete and vote operations, without refetching the
whole list after every mutation.

One Synchronizer instance backs one list view: questions with their answers,
learning plans with their comments, the post feed, the resource library.
Each instance binds an Endpoints set that knows how to talk to the server
for its entity kind; the synchronizer itself only owns the bookkeeping.

# State rules

The server is authoritative. A mutation touches the collection only after
the corresponding call succeeded, and what gets stored is the server's echo,
never a client-side merge. Vote and like counters in particular are taken
verbatim from the response, so concurrent voters never cause displayed
counts to drift from real ones.

Collection invariants:

  - no two elements share an id
  - display order is the server's list order, with creations inserted at
    the front or back per the entity kind

# Duplicate submission

Every mutating operation runs under a per-action-key singleflight group. A
second identical submission while the first is in flight (a double-click)
joins the first call instead of issuing a second request. Keys are scoped to
the operation and entity id, so unrelated mutations never serialize each
other.

# Nested collections

LoadChildren lazily fetches the sub-collection of one parent (answers of a
question, comments of a plan) and caches it for the synchronizer's
lifetime. The cache is keyed by parent id, so concurrent loads for
different parents resolving out of order can never cross-contaminate.

# Staleness

Reset clears all state and bumps an internal generation. A response that
started before the reset is discarded instead of being applied to state it
no longer belongs to.
*/
package syncer

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/skillsphere/sphere-cli/pkg/logging"
)

// Entity is anything with a server-assigned identifier.
type Entity interface {
	EntityID() string
}

// Direction is a vote direction.
type Direction int

const (
	// Up registers an upvote.
	Up Direction = iota
	// Down registers a downvote.
	Down
)

// String returns "up" or "down".
func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "up"
}

// InsertOrder controls where a created entity lands in the collection.
type InsertOrder int

const (
	// Append places new entities at the end (questions, resources).
	Append InsertOrder = iota
	// Prepend places new entities at the front (feed posts).
	Prepend
)

// Endpoints binds an entity kind to its server operations. Vote,
// ToggleLike and Children are optional; calling the corresponding
// Synchronizer method without one is a programming error surfaced as a
// validation failure, not a panic.
type Endpoints[T Entity, C Entity] struct {
	List       func(ctx context.Context) ([]T, error)
	Create     func(ctx context.Context, payload T) (T, error)
	Update     func(ctx context.Context, id string, patch T) (T, error)
	Remove     func(ctx context.Context, id string) error
	Vote       func(ctx context.Context, id string, dir Direction) (T, error)
	ToggleLike func(ctx context.Context, id string) (T, error)
	Children   func(ctx context.Context, parentID string) ([]C, error)
}

// AuthCheck reports whether a session token is available. Load and every
// mutation consult it before issuing a request.
type AuthCheck func() bool

// ErrAuthRequired is returned when an operation runs without a session.
// It is a plain sentinel here; the sphere package carries the user-facing
// taxonomy and the CLI maps this onto it.
type authRequiredError struct{ op string }

func (e *authRequiredError) Error() string {
	return fmt.Sprintf("%s requires a signed-in session", e.op)
}

// IsAuthRequired reports whether err came from a missing session.
func IsAuthRequired(err error) bool {
	_, ok := err.(*authRequiredError)
	return ok
}

// Synchronizer keeps one Collection in sync with the server.
//
// Safe for concurrent use. All accessors return copies; internal slices
// never escape.
type Synchronizer[T Entity, C Entity] struct {
	eps    Endpoints[T, C]
	order  InsertOrder
	authed AuthCheck
	logger *logging.Logger

	mu          sync.RWMutex
	items       []T
	children    map[string][]C
	childLoaded map[string]bool
	gen         uint64

	flight      singleflight.Group
	childFlight singleflight.Group
}

// Option customizes a Synchronizer.
type Option func(*options)

type options struct {
	order  InsertOrder
	authed AuthCheck
	logger *logging.Logger
}

// WithOrder sets where created entities are inserted. Default Append.
func WithOrder(order InsertOrder) Option {
	return func(o *options) { o.order = order }
}

// WithAuthCheck installs the session check. Default: always authorized,
// which is only appropriate in tests.
func WithAuthCheck(check AuthCheck) Option {
	return func(o *options) { o.authed = check }
}

// WithLogger sets the structured logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New creates a Synchronizer over the given endpoint set.
func New[T Entity, C Entity](eps Endpoints[T, C], opts ...Option) *Synchronizer[T, C] {
	o := options{
		order:  Append,
		authed: func() bool { return true },
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Synchronizer[T, C]{
		eps:         eps,
		order:       o.order,
		authed:      o.authed,
		logger:      o.logger,
		children:    make(map[string][]C),
		childLoaded: make(map[string]bool),
	}
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// Items returns a copy of the collection in display order.
func (s *Synchronizer[T, C]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the entity with the given id, if present.
func (s *Synchronizer[T, C]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.EntityID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Len returns the collection size.
func (s *Synchronizer[T, C]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// ChildrenOf returns the cached sub-collection for a parent, and whether
// one has been loaded.
func (s *Synchronizer[T, C]) ChildrenOf(parentID string) ([]C, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.childLoaded[parentID] {
		return nil, false
	}
	cached := s.children[parentID]
	out := make([]C, len(cached))
	copy(out, cached)
	return out, true
}

// ---------------------------------------------------------------------------
// Load
// ---------------------------------------------------------------------------

// Load fetches the full collection, replacing local state. Concurrent
// calls share one request.
func (s *Synchronizer[T, C]) Load(ctx context.Context) error {
	if !s.authed() {
		return &authRequiredError{op: "load"}
	}
	gen := s.generation()
	_, err, _ := s.flight.Do("load", func() (any, error) {
		fetched, err := s.eps.List(ctx)
		if err != nil {
			return nil, err
		}
		s.applyList(gen, fetched)
		return nil, nil
	})
	return err
}

// applyList installs a fetched list, dropping duplicate ids defensively
// (first occurrence wins) and discarding the result entirely when a Reset
// happened while the fetch was in flight.
func (s *Synchronizer[T, C]) applyList(gen uint64, fetched []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		s.logger.Debug("discarding stale list response", "generation", gen)
		return
	}
	seen := make(map[string]bool, len(fetched))
	items := make([]T, 0, len(fetched))
	for _, it := range fetched {
		id := it.EntityID()
		if seen[id] {
			continue
		}
		seen[id] = true
		items = append(items, it)
	}
	s.items = items
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

// Create sends the payload and, on success, inserts the server's canonical
// entity per the configured order. On failure the collection is untouched.
func (s *Synchronizer[T, C]) Create(ctx context.Context, payload T) (T, error) {
	var zero T
	if !s.authed() {
		return zero, &authRequiredError{op: "create"}
	}
	gen := s.generation()
	v, err, _ := s.flight.Do("create:"+fingerprint(payload), func() (any, error) {
		created, err := s.eps.Create(ctx, payload)
		if err != nil {
			return nil, err
		}
		s.insert(gen, created)
		return created, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

// Update sends a partial update and, on success, replaces the local entity
// with the server's echo. A 403 from the server leaves the collection
// byte-for-byte unchanged.
func (s *Synchronizer[T, C]) Update(ctx context.Context, id string, patch T) (T, error) {
	var zero T
	if !s.authed() {
		return zero, &authRequiredError{op: "update"}
	}
	gen := s.generation()
	v, err, _ := s.flight.Do("update:"+id, func() (any, error) {
		updated, err := s.eps.Update(ctx, id, patch)
		if err != nil {
			return nil, err
		}
		s.replace(gen, id, updated)
		return updated, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

// Remove deletes the entity and cascades removal of its cached children.
// On failure the collection is untouched.
func (s *Synchronizer[T, C]) Remove(ctx context.Context, id string) error {
	if !s.authed() {
		return &authRequiredError{op: "remove"}
	}
	gen := s.generation()
	_, err, _ := s.flight.Do("remove:"+id, func() (any, error) {
		if err := s.eps.Remove(ctx, id); err != nil {
			return nil, err
		}
		s.drop(gen, id)
		return nil, nil
	})
	return err
}

// Vote registers a directional vote and replaces the entity with the
// server's echo. Counters are whatever the server returned, exactly.
func (s *Synchronizer[T, C]) Vote(ctx context.Context, id string, dir Direction) (T, error) {
	var zero T
	if s.eps.Vote == nil {
		return zero, fmt.Errorf("vote is not supported for this entity kind")
	}
	if !s.authed() {
		return zero, &authRequiredError{op: "vote"}
	}
	gen := s.generation()
	v, err, _ := s.flight.Do(fmt.Sprintf("vote:%s:%s", id, dir), func() (any, error) {
		voted, err := s.eps.Vote(ctx, id, dir)
		if err != nil {
			return nil, err
		}
		s.replace(gen, id, voted)
		return voted, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

// ToggleLike flips the caller's like and replaces the entity with the
// server's echo.
func (s *Synchronizer[T, C]) ToggleLike(ctx context.Context, id string) (T, error) {
	var zero T
	if s.eps.ToggleLike == nil {
		return zero, fmt.Errorf("like is not supported for this entity kind")
	}
	if !s.authed() {
		return zero, &authRequiredError{op: "like"}
	}
	gen := s.generation()
	v, err, _ := s.flight.Do("like:"+id, func() (any, error) {
		liked, err := s.eps.ToggleLike(ctx, id)
		if err != nil {
			return nil, err
		}
		s.replace(gen, id, liked)
		return liked, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

// ---------------------------------------------------------------------------
// Children
// ---------------------------------------------------------------------------

// LoadChildren fetches the sub-collection for one parent on first use and
// caches it. Repeated calls return the cache without a request; concurrent
// calls for the same parent share one request. Cache writes are keyed by
// parent id, so out-of-order resolution across parents is harmless.
func (s *Synchronizer[T, C]) LoadChildren(ctx context.Context, parentID string) ([]C, error) {
	if s.eps.Children == nil {
		return nil, fmt.Errorf("children are not supported for this entity kind")
	}
	if !s.authed() {
		return nil, &authRequiredError{op: "load children"}
	}
	if cached, ok := s.ChildrenOf(parentID); ok {
		return cached, nil
	}
	gen := s.generation()
	v, err, _ := s.childFlight.Do(parentID, func() (any, error) {
		fetched, err := s.eps.Children(ctx, parentID)
		if err != nil {
			return nil, err
		}
		s.storeChildren(gen, parentID, fetched)
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	children := v.([]C)
	out := make([]C, len(children))
	copy(out, children)
	return out, nil
}

// InvalidateChildren drops the cached sub-collection for a parent so the
// next LoadChildren refetches (used after creating or removing a child).
func (s *Synchronizer[T, C]) InvalidateChildren(parentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.children, parentID)
	delete(s.childLoaded, parentID)
}

// PutChild applies a confirmed child mutation to the cache: replaces the
// child when present, appends otherwise. No-op when the parent has no
// cache yet (the next LoadChildren fetches fresh state anyway).
func (s *Synchronizer[T, C]) PutChild(parentID string, child C) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.childLoaded[parentID] {
		return
	}
	cached := s.children[parentID]
	for i, c := range cached {
		if c.EntityID() == child.EntityID() {
			cached[i] = child
			return
		}
	}
	s.children[parentID] = append(cached, child)
}

// DropChild removes a confirmed-deleted child from the cache.
func (s *Synchronizer[T, C]) DropChild(parentID, childID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cached := s.children[parentID]
	for i, c := range cached {
		if c.EntityID() == childID {
			s.children[parentID] = append(cached[:i], cached[i+1:]...)
			return
		}
	}
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

// Reset clears the collection and child caches and invalidates every
// response still in flight.
func (s *Synchronizer[T, C]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.items = nil
	s.children = make(map[string][]C)
	s.childLoaded = make(map[string]bool)
}

// ---------------------------------------------------------------------------
// Internals
// ---------------------------------------------------------------------------

func (s *Synchronizer[T, C]) generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// insert adds a confirmed creation. If the id already exists (the server
// echoed an entity we somehow hold), the existing element is replaced to
// preserve id uniqueness.
func (s *Synchronizer[T, C]) insert(gen uint64, created T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		s.logger.Debug("discarding stale create response", "id", created.EntityID())
		return
	}
	id := created.EntityID()
	for i, it := range s.items {
		if it.EntityID() == id {
			s.items[i] = created
			return
		}
	}
	if s.order == Prepend {
		s.items = append([]T{created}, s.items...)
	} else {
		s.items = append(s.items, created)
	}
}

// replace swaps the entity matching id for the server's echo, in place.
// Unknown ids are ignored; the entity may belong to a collection that was
// reset while the call was in flight.
func (s *Synchronizer[T, C]) replace(gen uint64, id string, updated T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		s.logger.Debug("discarding stale update response", "id", id)
		return
	}
	for i, it := range s.items {
		if it.EntityID() == id {
			s.items[i] = updated
			return
		}
	}
}

// drop removes the entity and its cached children.
func (s *Synchronizer[T, C]) drop(gen uint64, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	for i, it := range s.items {
		if it.EntityID() == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	delete(s.children, id)
	delete(s.childLoaded, id)
}

func (s *Synchronizer[T, C]) storeChildren(gen uint64, parentID string, fetched []C) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		s.logger.Debug("discarding stale children response", "parent_id", parentID)
		return
	}
	stored := make([]C, len(fetched))
	copy(stored, fetched)
	s.children[parentID] = stored
	s.childLoaded[parentID] = true
}

// fingerprint hashes a payload so rapid duplicate creations collapse onto
// one in-flight request, while distinct payloads never share a key.
func fingerprint(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%p", &v)
	}
	h := fnv.New64a()
	_, _ = h.Write(data)
	return fmt.Sprintf("%x", h.Sum64())
}
