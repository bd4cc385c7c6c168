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
	"sync"

	"github.com/coordkit/zgroup/store"
)

// Member represents one membership entry: the sequential, ephemeral node a
// Join produced. The path is assigned exactly once, at creation. Once the
// entry is gone, through Leave or session loss, the Member has no
// independent existence: Active reports false and the other operations
// report ErrMemberDoesNotExist.
type Member struct {
	group *Group
	path  string
	name  string

	statMu   sync.Mutex
	lastStat *store.Stat
}

// Name returns the member entry name (the basename of its path), including
// the store-assigned sequence suffix.
func (m *Member) Name() string {
	return m.name
}

// Path returns the absolute path of the member entry.
func (m *Member) Path() string {
	return m.path
}

// Group returns the group this member belongs to.
func (m *Member) Group() *Group {
	return m.group
}

// Active reports whether the member entry currently exists. This is a
// point-in-time check with no watch side effect; for reliable departure
// detection use WaitUntilGone.
func (m *Member) Active(ctx context.Context) (bool, error) {
	exists, _, err := m.group.client.Exists(ctx, m.path)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// Leave deletes the member entry. Leaving twice fails with
// ErrMemberDoesNotExist; callers wanting idempotence match it with
// errors.Is.
func (m *Member) Leave(ctx context.Context) error {
	if err := m.group.client.Delete(ctx, m.path); err != nil {
		return translateMemberError(err)
	}
	m.group.logger.Infof("left group %s (%s)", m.group.path, m.name)
	return nil
}

// Data returns the payload of the member entry.
func (m *Member) Data(ctx context.Context) ([]byte, error) {
	data, stat, err := m.group.client.Get(ctx, m.path)
	if err != nil {
		return nil, translateMemberError(err)
	}
	m.rememberStat(stat)
	return data, nil
}

// SetData overwrites the payload of the member entry unconditionally.
func (m *Member) SetData(ctx context.Context, data []byte) error {
	stat, err := m.group.client.Set(ctx, m.path, data)
	if err != nil {
		return translateMemberError(err)
	}
	m.rememberStat(stat)
	return nil
}

// Stat returns the stat observed by the most recent Data or SetData call on
// this member, or nil when neither has been called yet.
func (m *Member) Stat() *store.Stat {
	m.statMu.Lock()
	defer m.statMu.Unlock()
	return m.lastStat
}

// WaitUntilGone blocks until the store confirms this member's entry is
// deleted, whether through Leave, another participant's delete, or session
// expiry. See WaitForDeletion for the guarantees.
func (m *Member) WaitUntilGone(ctx context.Context) error {
	return WaitForDeletion(ctx, m.group.client, m.path)
}

func (m *Member) rememberStat(stat *store.Stat) {
	m.statMu.Lock()
	m.lastStat = stat
	m.statMu.Unlock()
}
