// Copyright (C) 2025 SkillSphere Learning (opensource@skillsphere.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package syncer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Votes int    `json:"votes"`
}

func (i item) EntityID() string { return i.ID }

type child struct {
	ID     string `json:"id"`
	Parent string `json:"parent"`
}

func (c child) EntityID() string { return c.ID }

// ids collects the id set of a collection snapshot.
func ids(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestLoadReplacesStateAndDropsDuplicateIDs(t *testing.T) {
	s := New[item, child](Endpoints[item, child]{
		List: func(ctx context.Context) ([]item, error) {
			return []item{{ID: "a"}, {ID: "b"}, {ID: "a", Label: "dup"}}, nil
		},
	})

	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, []string{"a", "b"}, ids(s.Items()))

	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Empty(t, got.Label, "first occurrence wins")
}

func TestCreateInsertsServerEcho(t *testing.T) {
	eps := Endpoints[item, child]{
		List: func(ctx context.Context) ([]item, error) {
			return []item{{ID: "a"}}, nil
		},
		Create: func(ctx context.Context, payload item) (item, error) {
			// The server assigns the id and may rewrite fields.
			payload.ID = "server-id"
			payload.Label = "canonical"
			return payload, nil
		},
	}

	t.Run("append", func(t *testing.T) {
		s := New[item, child](eps)
		require.NoError(t, s.Load(context.Background()))
		created, err := s.Create(context.Background(), item{Label: "draft"})
		require.NoError(t, err)
		assert.Equal(t, "canonical", created.Label)
		assert.Equal(t, []string{"a", "server-id"}, ids(s.Items()))
	})

	t.Run("prepend", func(t *testing.T) {
		s := New[item, child](eps, WithOrder(Prepend))
		require.NoError(t, s.Load(context.Background()))
		_, err := s.Create(context.Background(), item{Label: "draft"})
		require.NoError(t, err)
		assert.Equal(t, []string{"server-id", "a"}, ids(s.Items()))
	})
}

func TestUpdateFailureLeavesCollectionUnchanged(t *testing.T) {
	s := New[item, child](Endpoints[item, child]{
		List: func(ctx context.Context) ([]item, error) {
			return []item{{ID: "a", Label: "original", Votes: 3}}, nil
		},
		Update: func(ctx context.Context, id string, patch item) (item, error) {
			return item{}, fmt.Errorf("not allowed")
		},
	})
	require.NoError(t, s.Load(context.Background()))
	before := s.Items()

	_, err := s.Update(context.Background(), "a", item{Label: "hijacked"})
	require.Error(t, err)
	assert.Equal(t, before, s.Items(), "a rejected update must not touch local state")
}

func TestVoteAppliesServerCountersVerbatim(t *testing.T) {
	s := New[item, child](Endpoints[item, child]{
		List: func(ctx context.Context) ([]item, error) {
			return []item{{ID: "a", Votes: 5}}, nil
		},
		Vote: func(ctx context.Context, id string, dir Direction) (item, error) {
			// Another voter retracted concurrently; the echo is lower than
			// a local increment would predict.
			return item{ID: id, Votes: 4}, nil
		},
	})
	require.NoError(t, s.Load(context.Background()))

	voted, err := s.Vote(context.Background(), "a", Up)
	require.NoError(t, err)
	assert.Equal(t, 4, voted.Votes)
	got, _ := s.Get("a")
	assert.Equal(t, 4, got.Votes, "the server echo wins over local arithmetic")
}

func TestRemoveFailureKeepsEntity(t *testing.T) {
	s := New[item, child](Endpoints[item, child]{
		List: func(ctx context.Context) ([]item, error) {
			return []item{{ID: "a"}, {ID: "b"}}, nil
		},
		Remove: func(ctx context.Context, id string) error {
			return fmt.Errorf("not allowed")
		},
	})
	require.NoError(t, s.Load(context.Background()))

	require.Error(t, s.Remove(context.Background(), "a"))
	assert.Equal(t, []string{"a", "b"}, ids(s.Items()))
}

func TestRemoveCascadesChildCache(t *testing.T) {
	s := New[item, child](Endpoints[item, child]{
		List: func(ctx context.Context) ([]item, error) {
			return []item{{ID: "a"}}, nil
		},
		Remove: func(ctx context.Context, id string) error { return nil },
		Children: func(ctx context.Context, parentID string) ([]child, error) {
			return []child{{ID: "c1", Parent: parentID}}, nil
		},
	})
	require.NoError(t, s.Load(context.Background()))
	_, err := s.LoadChildren(context.Background(), "a")
	require.NoError(t, err)

	require.NoError(t, s.Remove(context.Background(), "a"))
	_, ok := s.ChildrenOf("a")
	assert.False(t, ok, "removing a parent drops its cached children")
}

func TestConcurrentChildLoadsStayIsolated(t *testing.T) {
	// planA's fetch is held until planB's has resolved, so the responses
	// arrive in reverse request order.
	releaseA := make(chan struct{})
	bDone := make(chan struct{})

	s := New[item, child](Endpoints[item, child]{
		Children: func(ctx context.Context, parentID string) ([]child, error) {
			if parentID == "planA" {
				<-releaseA
			}
			return []child{{ID: parentID + "-c1", Parent: parentID}}, nil
		},
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := s.LoadChildren(context.Background(), "planA")
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, err := s.LoadChildren(context.Background(), "planB")
		assert.NoError(t, err)
		close(bDone)
	}()

	<-bDone
	close(releaseA)
	wg.Wait()

	gotA, ok := s.ChildrenOf("planA")
	require.True(t, ok)
	gotB, ok := s.ChildrenOf("planB")
	require.True(t, ok)
	assert.Equal(t, "planA", gotA[0].Parent)
	assert.Equal(t, "planB", gotB[0].Parent)
}

func TestChildrenCachedAfterFirstLoad(t *testing.T) {
	var calls atomic.Int32
	s := New[item, child](Endpoints[item, child]{
		Children: func(ctx context.Context, parentID string) ([]child, error) {
			calls.Add(1)
			return []child{{ID: "c1", Parent: parentID}}, nil
		},
	})

	for i := 0; i < 3; i++ {
		_, err := s.LoadChildren(context.Background(), "q1")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), calls.Load())

	s.InvalidateChildren("q1")
	_, err := s.LoadChildren(context.Background(), "q1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDuplicateCreateJoinsInFlightRequest(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	s := New[item, child](Endpoints[item, child]{
		Create: func(ctx context.Context, payload item) (item, error) {
			if calls.Add(1) == 1 {
				close(started)
				<-release
			}
			payload.ID = "x"
			return payload, nil
		},
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := s.Create(context.Background(), item{Label: "same"})
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		<-started
		// Identical payload while the first is still in flight.
		_, err := s.Create(context.Background(), item{Label: "same"})
		assert.NoError(t, err)
	}()

	<-started
	// Give the second goroutine a moment to join the flight.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "a double submission issues one request")
	assert.Equal(t, 1, s.Len())
}

func TestDistinctPayloadsDoNotShareFlights(t *testing.T) {
	var calls atomic.Int32
	s := New[item, child](Endpoints[item, child]{
		Create: func(ctx context.Context, payload item) (item, error) {
			payload.ID = payload.Label
			calls.Add(1)
			return payload, nil
		},
	})

	_, err := s.Create(context.Background(), item{Label: "one"})
	require.NoError(t, err)
	_, err = s.Create(context.Background(), item{Label: "two"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 2, s.Len())
}

func TestResetDiscardsInFlightResponse(t *testing.T) {
	release := make(chan struct{})
	s := New[item, child](Endpoints[item, child]{
		List: func(ctx context.Context) ([]item, error) {
			<-release
			return []item{{ID: "stale"}}, nil
		},
	})

	done := make(chan error, 1)
	go func() { done <- s.Load(context.Background()) }()

	// Reset while the fetch is blocked; its result belongs to the old
	// generation and must be dropped.
	time.Sleep(10 * time.Millisecond)
	s.Reset()
	close(release)
	require.NoError(t, <-done)

	assert.Zero(t, s.Len(), "a pre-reset response must not repopulate the collection")
}

func TestOperationsRequireSession(t *testing.T) {
	s := New[item, child](Endpoints[item, child]{
		List:     func(ctx context.Context) ([]item, error) { return nil, nil },
		Create:   func(ctx context.Context, p item) (item, error) { return p, nil },
		Update:   func(ctx context.Context, id string, p item) (item, error) { return p, nil },
		Remove:   func(ctx context.Context, id string) error { return nil },
		Children: func(ctx context.Context, id string) ([]child, error) { return nil, nil },
	}, WithAuthCheck(func() bool { return false }))

	ctx := context.Background()
	assert.True(t, IsAuthRequired(s.Load(ctx)))
	_, err := s.Create(ctx, item{})
	assert.True(t, IsAuthRequired(err))
	_, err = s.Update(ctx, "a", item{})
	assert.True(t, IsAuthRequired(err))
	assert.True(t, IsAuthRequired(s.Remove(ctx, "a")))
	_, err = s.LoadChildren(ctx, "a")
	assert.True(t, IsAuthRequired(err))
}

func TestOptionalEndpointsRejectCleanly(t *testing.T) {
	s := New[item, child](Endpoints[item, child]{})
	_, err := s.Vote(context.Background(), "a", Up)
	require.Error(t, err)
	_, err = s.ToggleLike(context.Background(), "a")
	require.Error(t, err)
	_, err = s.LoadChildren(context.Background(), "a")
	require.Error(t, err)
}

func TestPutChildAndDropChild(t *testing.T) {
	s := New[item, child](Endpoints[item, child]{
		Children: func(ctx context.Context, parentID string) ([]child, error) {
			return []child{{ID: "c1", Parent: parentID}}, nil
		},
	})
	_, err := s.LoadChildren(context.Background(), "p")
	require.NoError(t, err)

	s.PutChild("p", child{ID: "c2", Parent: "p"})
	got, _ := s.ChildrenOf("p")
	require.Len(t, got, 2)

	s.PutChild("p", child{ID: "c1", Parent: "updated"})
	got, _ = s.ChildrenOf("p")
	assert.Equal(t, "updated", got[0].Parent)

	s.DropChild("p", "c1")
	got, _ = s.ChildrenOf("p")
	require.Len(t, got, 1)
	assert.Equal(t, "c2", got[0].ID)

	// No cache for this parent yet; PutChild is a no-op, not a phantom cache.
	s.PutChild("unloaded", child{ID: "c9"})
	_, ok := s.ChildrenOf("unloaded")
	assert.False(t, ok)
}
