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

// Package group implements a group membership primitive on top of a
// coordination store with sequential, ephemeral node semantics and one-shot
// watches. Participants join a named group by creating a session-bound,
// store-ordered entry under the group node; anyone can enumerate the current
// members and reliably wait for a specific member to be gone.
package group

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/coordkit/zgroup/internal/validation"
	"github.com/coordkit/zgroup/log"
	"github.com/coordkit/zgroup/store"
)

const (
	// DefaultRoot is the parent path under which groups are namespaced when
	// no root is configured.
	DefaultRoot = "/zgroup"
	// DefaultPrefix is the member entry name prefix used by Join when no
	// prefix is configured. The store appends its sequence counter to it.
	DefaultPrefix = "m"
)

// Group represents one named group in the store. The zero value is not
// usable; construct with New.
//
// A Group is safe to share across goroutines for Join and MemberNames;
// Data/SetData serialize only the cached stat, the writes themselves are
// unconditional and ordered by the store.
type Group struct {
	client store.Client
	name   string
	root   string
	prefix string
	// path is derived from root and name at construction and never changes
	path   string
	logger log.Logger

	statMu   sync.Mutex
	lastStat *store.Stat
}

// New creates a Group handle for the given name. The group node itself is
// not touched; call Create or CreateExclusive to materialize it.
func New(client store.Client, name string, opts ...Option) (*Group, error) {
	g := &Group{
		client: client,
		name:   name,
		root:   DefaultRoot,
		prefix: DefaultPrefix,
		logger: log.DiscardLogger,
	}
	for _, opt := range opts {
		opt.Apply(g)
	}

	if err := validation.New(validation.FailFast()).
		AddAssertion(client != nil, "client is required").
		AddValidator(validation.NewEmptyStringValidator("name", name)).
		AddAssertion(!strings.Contains(name, "/"), "name must not contain a slash").
		AddValidator(validation.NewPathValidator("root", g.root)).
		AddValidator(validation.NewEmptyStringValidator("prefix", g.prefix)).
		AddAssertion(!strings.Contains(g.prefix, "/"), "prefix must not contain a slash").
		Validate(); err != nil {
		return nil, err
	}

	g.path = g.root + "/" + name
	return g, nil
}

// Name returns the group name.
func (g *Group) Name() string {
	return g.name
}

// Path returns the absolute path of the group node.
func (g *Group) Path() string {
	return g.path
}

// Create creates the group node carrying data, ensuring the root path exists
// first, and returns the created path. Create is idempotent: when the group
// already exists it returns ("", nil) and data is silently discarded; the
// existing node keeps whatever payload it has. Use CreateExclusive to treat
// an existing group as an error.
func (g *Group) Create(ctx context.Context, data []byte) (string, error) {
	created, err := g.create(ctx, data)
	if errors.Is(err, store.ErrNodeExists) {
		g.logger.Debugf("group %s already exists", g.path)
		return "", nil
	}
	if err != nil {
		return "", err
	}
	g.logger.Infof("created group %s", created)
	return created, nil
}

// CreateExclusive is Create except that an already existing group is
// reported as ErrGroupAlreadyExists.
func (g *Group) CreateExclusive(ctx context.Context, data []byte) (string, error) {
	created, err := g.create(ctx, data)
	if errors.Is(err, store.ErrNodeExists) {
		return "", fmt.Errorf("%w: %s", ErrGroupAlreadyExists, g.path)
	}
	if err != nil {
		return "", err
	}
	g.logger.Infof("created group %s", created)
	return created, nil
}

func (g *Group) create(ctx context.Context, data []byte) (string, error) {
	if err := g.client.EnsurePath(ctx, g.root); err != nil {
		return "", err
	}
	return g.client.Create(ctx, g.path, data, 0)
}

// Join adds a new member to the group by creating a sequential, ephemeral
// entry under the group node and returns the Member wrapping it. Concurrent
// joins from any number of participants are safe; the store's sequence
// counter gives every entry a distinct, totally ordered name. Joining a
// group that has not been created fails with ErrGroupDoesNotExist.
func (g *Group) Join(ctx context.Context) (*Member, error) {
	actual, err := g.client.Create(ctx, g.path+"/"+g.prefix, nil, store.FlagSequential|store.FlagEphemeral)
	if err != nil {
		return nil, translateGroupError(err)
	}
	name := path.Base(actual)
	g.logger.Infof("joined group %s as %s", g.path, name)
	return &Member{group: g, path: actual, name: name}, nil
}

// MemberNames returns the names of the current members sorted ascending.
// The store zero-pads sequence suffixes, so the lexicographic order equals
// join order. With absolute set, the names are rendered as absolute paths.
func (g *Group) MemberNames(ctx context.Context, absolute bool) ([]string, error) {
	names, err := g.client.Children(ctx, g.path)
	if err != nil {
		return nil, translateGroupError(err)
	}
	sort.Strings(names)
	if absolute {
		for i, name := range names {
			names[i] = g.path + "/" + name
		}
	}
	return names, nil
}

// Data returns the payload of the group node.
func (g *Group) Data(ctx context.Context) ([]byte, error) {
	data, stat, err := g.client.Get(ctx, g.path)
	if err != nil {
		return nil, translateGroupError(err)
	}
	g.rememberStat(stat)
	return data, nil
}

// SetData overwrites the payload of the group node. The write is
// unconditional; the cached stat is informational only.
func (g *Group) SetData(ctx context.Context, data []byte) error {
	stat, err := g.client.Set(ctx, g.path, data)
	if err != nil {
		return translateGroupError(err)
	}
	g.rememberStat(stat)
	return nil
}

// Stat returns the stat observed by the most recent Data or SetData call,
// or nil when neither has been called yet.
func (g *Group) Stat() *store.Stat {
	g.statMu.Lock()
	defer g.statMu.Unlock()
	return g.lastStat
}

func (g *Group) rememberStat(stat *store.Stat) {
	g.statMu.Lock()
	g.lastStat = stat
	g.statMu.Unlock()
}
