// MIT License
//
// Copyright (c) 2023-2026 Coordkit Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package group

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/coordkit/zgroup/testkit"
)

func TestNew(t *testing.T) {
	st := testkit.New()
	client := st.NewSession()

	t.Run("With defaults", func(t *testing.T) {
		g, err := New(client, "workers")
		require.NoError(t, err)
		assert.Equal(t, "workers", g.Name())
		assert.Equal(t, "/zgroup/workers", g.Path())
	})
	t.Run("With custom root", func(t *testing.T) {
		g, err := New(client, "workers", WithRoot("/groups"))
		require.NoError(t, err)
		assert.Equal(t, "/groups/workers", g.Path())
	})
	t.Run("With nil client", func(t *testing.T) {
		g, err := New(nil, "workers")
		require.Error(t, err)
		assert.Nil(t, g)
	})
	t.Run("With empty name", func(t *testing.T) {
		_, err := New(client, "")
		assert.Error(t, err)
	})
	t.Run("With slash in name", func(t *testing.T) {
		_, err := New(client, "work/ers")
		assert.Error(t, err)
	})
	t.Run("With relative root", func(t *testing.T) {
		_, err := New(client, "workers", WithRoot("groups"))
		assert.Error(t, err)
	})
	t.Run("With empty prefix", func(t *testing.T) {
		_, err := New(client, "workers", WithPrefix(" "))
		assert.Error(t, err)
	})
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("With first create", func(t *testing.T) {
		client := testkit.New().NewSession()
		g, err := New(client, "workers", WithRoot("/groups"))
		require.NoError(t, err)

		created, err := g.Create(ctx, []byte("payload"))
		require.NoError(t, err)
		assert.Equal(t, "/groups/workers", created)

		data, err := g.Data(ctx)
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), data)
	})
	t.Run("With existing group create returns empty and discards data", func(t *testing.T) {
		client := testkit.New().NewSession()
		g, err := New(client, "workers", WithRoot("/groups"))
		require.NoError(t, err)

		_, err = g.Create(ctx, []byte("original"))
		require.NoError(t, err)

		created, err := g.Create(ctx, []byte("replacement"))
		require.NoError(t, err)
		assert.Empty(t, created)

		// the existing node keeps its payload
		data, err := g.Data(ctx)
		require.NoError(t, err)
		assert.Equal(t, []byte("original"), data)
	})
	t.Run("With exclusive create on existing group", func(t *testing.T) {
		client := testkit.New().NewSession()
		g, err := New(client, "workers", WithRoot("/groups"))
		require.NoError(t, err)

		_, err = g.CreateExclusive(ctx, nil)
		require.NoError(t, err)

		_, err = g.CreateExclusive(ctx, nil)
		require.ErrorIs(t, err, ErrGroupAlreadyExists)

		// the idempotent variant still succeeds silently
		created, err := g.Create(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, created)
	})
	t.Run("With missing root created on demand", func(t *testing.T) {
		client := testkit.New().NewSession()
		g, err := New(client, "workers", WithRoot("/deeply/nested/groups"))
		require.NoError(t, err)

		created, err := g.Create(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, "/deeply/nested/groups/workers", created)
	})
}

func TestJoin(t *testing.T) {
	ctx := context.Background()

	t.Run("With ordered joins", func(t *testing.T) {
		client := testkit.New().NewSession()
		g, err := New(client, "workers", WithRoot("/groups"))
		require.NoError(t, err)
		_, err = g.Create(ctx, nil)
		require.NoError(t, err)

		first, err := g.Join(ctx)
		require.NoError(t, err)
		second, err := g.Join(ctx)
		require.NoError(t, err)

		assert.NotEqual(t, first.Path(), second.Path())
		assert.Less(t, first.Name(), second.Name())

		names, err := g.MemberNames(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, []string{first.Name(), second.Name()}, names)
	})
	t.Run("With absolute member names", func(t *testing.T) {
		client := testkit.New().NewSession()
		g, err := New(client, "workers", WithRoot("/groups"))
		require.NoError(t, err)
		_, err = g.Create(ctx, nil)
		require.NoError(t, err)

		member, err := g.Join(ctx)
		require.NoError(t, err)

		paths, err := g.MemberNames(ctx, true)
		require.NoError(t, err)
		require.Len(t, paths, 1)
		assert.Equal(t, member.Path(), paths[0])
	})
	t.Run("With join on missing group", func(t *testing.T) {
		client := testkit.New().NewSession()
		g, err := New(client, "ghosts", WithRoot("/groups"))
		require.NoError(t, err)

		member, err := g.Join(ctx)
		require.ErrorIs(t, err, ErrGroupDoesNotExist)
		assert.Nil(t, member)
	})
	t.Run("With member names on missing group", func(t *testing.T) {
		client := testkit.New().NewSession()
		g, err := New(client, "ghosts", WithRoot("/groups"))
		require.NoError(t, err)

		_, err = g.MemberNames(ctx, false)
		require.ErrorIs(t, err, ErrGroupDoesNotExist)
	})
	t.Run("With concurrent joins", func(t *testing.T) {
		st := testkit.New()
		g, err := New(st.NewSession(), "workers", WithRoot("/groups"))
		require.NoError(t, err)
		_, err = g.Create(ctx, nil)
		require.NoError(t, err)

		// every participant joins on its own session, as in production
		joined := make([]*Member, 5)
		eg, egCtx := errgroup.WithContext(ctx)
		for i := range joined {
			i := i
			eg.Go(func() error {
				participant, err := New(st.NewSession(), "workers", WithRoot("/groups"))
				if err != nil {
					return err
				}
				member, err := participant.Join(egCtx)
				if err != nil {
					return err
				}
				joined[i] = member
				return nil
			})
		}
		require.NoError(t, eg.Wait())

		expected := make([]string, 0, len(joined))
		for _, member := range joined {
			expected = append(expected, member.Name())
		}
		sort.Strings(expected)

		names, err := g.MemberNames(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, expected, names)
	})
}

func TestGroupData(t *testing.T) {
	ctx := context.Background()

	t.Run("With set and get", func(t *testing.T) {
		client := testkit.New().NewSession()
		g, err := New(client, "workers", WithRoot("/groups"))
		require.NoError(t, err)
		_, err = g.Create(ctx, []byte("v1"))
		require.NoError(t, err)

		require.NoError(t, g.SetData(ctx, []byte("v2")))
		data, err := g.Data(ctx)
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), data)

		// the cached stat tracks the last observation
		require.NotNil(t, g.Stat())
		assert.EqualValues(t, 1, g.Stat().Version)
	})
	t.Run("With data on missing group", func(t *testing.T) {
		client := testkit.New().NewSession()
		g, err := New(client, "ghosts", WithRoot("/groups"))
		require.NoError(t, err)

		_, err = g.Data(ctx)
		require.ErrorIs(t, err, ErrGroupDoesNotExist)
		require.ErrorIs(t, g.SetData(ctx, nil), ErrGroupDoesNotExist)
		assert.Nil(t, g.Stat())
	})
}

// End-to-end scenario: three members join concurrently, names come back in
// join order, one leaves and a waiter started before the leave unblocks.
func TestMembershipScenario(t *testing.T) {
	ctx := context.Background()
	st := testkit.New()

	g, err := New(st.NewSession(), "workers", WithRoot("/groups"))
	require.NoError(t, err)
	_, err = g.Create(ctx, nil)
	require.NoError(t, err)

	members := make([]*Member, 3)
	eg, egCtx := errgroup.WithContext(ctx)
	for i := range members {
		i := i
		eg.Go(func() error {
			participant, err := New(st.NewSession(), "workers", WithRoot("/groups"))
			if err != nil {
				return err
			}
			members[i], err = participant.Join(egCtx)
			return err
		})
	}
	require.NoError(t, eg.Wait())

	names, err := g.MemberNames(ctx, false)
	require.NoError(t, err)
	require.Len(t, names, 3)
	assert.True(t, sort.StringsAreSorted(names))

	departing := members[1]
	watch := NewDeletionWatch(st.NewSession(), departing.Path())

	// the waiter must not fire before the leave
	select {
	case <-watch.Done():
		t.Fatal("watch completed before the member left")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, departing.Leave(ctx))
	require.NoError(t, watch.Wait(ctx))

	names, err = g.MemberNames(ctx, false)
	require.NoError(t, err)
	assert.Len(t, names, 2)
}
