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

// Package store defines the contract this library expects from a
// hierarchical, versioned, watch-capable coordination store, together with
// an adapter for Apache ZooKeeper.
package store

import "context"

// CreateFlag configures node creation.
type CreateFlag int32

const (
	// FlagSequential asks the store to append a monotonically increasing,
	// zero-padded suffix to the node name and return the realized path.
	FlagSequential CreateFlag = 1 << iota
	// FlagEphemeral ties the node's lifetime to the creating session; the
	// store deletes the node when the session ends.
	FlagEphemeral
)

// Client is a session-bound handle to the hierarchical coordination store.
//
// All operations take a context for caller-side cancellation. Paths are
// absolute, slash-separated, with no trailing slash.
type Client interface {
	// Create creates a node at path carrying data and returns the realized
	// path. With FlagSequential the store picks the final path component by
	// appending its per-parent counter, so the returned path differs from
	// the requested one. Fails with ErrNoNode when the parent is missing and
	// ErrNodeExists on a non-sequential conflict.
	Create(ctx context.Context, path string, data []byte, flags CreateFlag) (string, error)

	// Delete removes the node at path. Fails with ErrNoNode when the node
	// does not exist and ErrNotEmpty when it still has children.
	Delete(ctx context.Context, path string) error

	// Exists reports whether the node at path exists. No watch is armed.
	Exists(ctx context.Context, path string) (bool, *Stat, error)

	// ExistsWatch atomically checks existence and, when the node exists,
	// arms a one-shot watch on it. The returned channel delivers exactly one
	// Event for the next change on the path and is then closed; it must be
	// re-armed through another ExistsWatch call to observe further changes.
	// When the node does not exist the channel is nil and no watch is armed.
	//
	// The atomicity of check and arm is what makes reliable deletion
	// detection possible: there is no window between the two in which a
	// change can go unobserved.
	ExistsWatch(ctx context.Context, path string) (bool, *Stat, <-chan Event, error)

	// Get returns the data and stat of the node at path.
	Get(ctx context.Context, path string) ([]byte, *Stat, error)

	// Set overwrites the data of the node at path unconditionally and
	// returns the resulting stat.
	Set(ctx context.Context, path string, data []byte) (*Stat, error)

	// Children returns the names (relative, not paths) of the direct
	// children of the node at path. Order is unspecified; callers sort.
	Children(ctx context.Context, path string) ([]string, error)

	// EnsurePath creates every missing node along path, akin to mkdir -p.
	// Existing nodes are left untouched.
	EnsurePath(ctx context.Context, path string) error
}
