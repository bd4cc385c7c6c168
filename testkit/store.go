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

// Package testkit provides an in-memory coordination store with sequential
// and ephemeral node semantics and one-shot watches, so the library can be
// tested without a running ensemble.
package testkit

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	goset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/coordkit/zgroup/store"
)

type node struct {
	data           []byte
	stat           store.Stat
	ephemeralOwner string
	nextSequence   int64
}

// Store is an in-memory coordination store fabric. It is not itself a
// store.Client; call NewSession to obtain session-bound clients, the way
// real participants each hold their own connection. All sessions observe
// the same tree.
type Store struct {
	mu       sync.Mutex
	nodes    map[string]*node
	watches  map[string][]chan store.Event
	sessions map[string]goset.Set[string]
	zxid     int64
	calls    map[string]int
}

// New creates an empty store containing only the root node.
func New() *Store {
	return &Store{
		nodes:    map[string]*node{"/": {}},
		watches:  make(map[string][]chan store.Event),
		sessions: make(map[string]goset.Set[string]),
		calls:    make(map[string]int),
	}
}

// NewSession opens a session against the store and returns the client bound
// to it. Ephemeral nodes created through the client live until the session
// expires or the node is deleted.
func (s *Store) NewSession() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.sessions[id] = goset.NewSet[string]()
	return &Session{id: id, store: s, expired: atomic.NewBool(false)}
}

// CallCount reports how many times the named operation ("create", "delete",
// "exists", "existswatch", "get", "set", "children", "ensurepath") has been
// executed across all sessions.
func (s *Store) CallCount(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// TotalCalls reports the number of store operations executed across all
// sessions and operations.
func (s *Store) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, count := range s.calls {
		total += count
	}
	return total
}

// FireSpurious consumes every watch armed on path by delivering an event of
// the given type without any actual change to the tree. It lets tests
// exercise watch re-arm behavior against benign notifications.
func (s *Store) FireSpurious(nodePath string, eventType store.EventType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fireLocked(nodePath, eventType)
}

// fireLocked hands every armed one-shot watch on nodePath its single event.
// Delivery happens on the store's own dispatch goroutines, matching how
// real clients hand events to watchers.
func (s *Store) fireLocked(nodePath string, eventType store.EventType) {
	armed := s.watches[nodePath]
	if len(armed) == 0 {
		return
	}
	delete(s.watches, nodePath)
	for _, events := range armed {
		events := events
		go func() {
			events <- store.Event{Type: eventType, Path: nodePath}
			close(events)
		}()
	}
}

func (s *Store) childrenLocked(nodePath string) []string {
	prefix := nodePath + "/"
	if nodePath == "/" {
		prefix = "/"
	}
	var names []string
	for candidate := range s.nodes {
		if candidate == "/" || !strings.HasPrefix(candidate, prefix) {
			continue
		}
		name := candidate[len(prefix):]
		if !strings.Contains(name, "/") {
			names = append(names, name)
		}
	}
	return names
}

func (s *Store) createLocked(nodePath string, data []byte, ephemeralOwner string) {
	s.zxid++
	s.nodes[nodePath] = &node{
		data:           data,
		stat:           store.Stat{Czxid: s.zxid, Mzxid: s.zxid},
		ephemeralOwner: ephemeralOwner,
	}
	parentPath := path.Dir(nodePath)
	if parent, ok := s.nodes[parentPath]; ok {
		parent.stat.NumChildren++
	}
	s.fireLocked(nodePath, store.EventCreated)
	s.fireLocked(parentPath, store.EventChildrenChanged)
}

func (s *Store) deleteLocked(nodePath string) error {
	current, ok := s.nodes[nodePath]
	if !ok {
		return store.ErrNoNode
	}
	if len(s.childrenLocked(nodePath)) > 0 {
		return store.ErrNotEmpty
	}
	delete(s.nodes, nodePath)
	if current.ephemeralOwner != "" {
		if owned, ok := s.sessions[current.ephemeralOwner]; ok {
			owned.Remove(nodePath)
		}
	}
	parentPath := path.Dir(nodePath)
	if parent, ok := s.nodes[parentPath]; ok {
		parent.stat.NumChildren--
	}
	s.zxid++
	s.fireLocked(nodePath, store.EventDeleted)
	s.fireLocked(parentPath, store.EventChildrenChanged)
	return nil
}

func statCopy(stat store.Stat) *store.Stat {
	return &stat
}

// Session is a session-bound client to the in-memory store.
type Session struct {
	id      string
	store   *Store
	expired *atomic.Bool
}

// enforce compilation and linter error
var _ store.Client = (*Session)(nil)

// ID returns the session identifier.
func (c *Session) ID() string {
	return c.id
}

// Expire ends the session: every ephemeral node it owns is deleted and the
// corresponding watches fire, mimicking a participant dropping off. All
// subsequent operations on the session fail with store.ErrSessionExpired.
func (c *Session) Expire() {
	if !c.expired.CompareAndSwap(false, true) {
		return
	}
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	owned, ok := s.sessions[c.id]
	delete(s.sessions, c.id)
	if !ok {
		return
	}
	for _, nodePath := range owned.ToSlice() {
		_ = s.deleteLocked(nodePath)
	}
}

func (c *Session) guard(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.expired.Load() {
		return store.ErrSessionExpired
	}
	return nil
}

// Create implements store.Client.
func (c *Session) Create(ctx context.Context, nodePath string, data []byte, flags store.CreateFlag) (string, error) {
	if err := c.guard(ctx); err != nil {
		return "", err
	}
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["create"]++

	parentPath := path.Dir(nodePath)
	parent, ok := s.nodes[parentPath]
	if !ok {
		return "", store.ErrNoNode
	}

	realized := nodePath
	if flags&store.FlagSequential != 0 {
		// zero-padded per-parent counter, so lexicographic order equals
		// creation order
		realized = fmt.Sprintf("%s%010d", nodePath, parent.nextSequence)
		parent.nextSequence++
	} else if _, exists := s.nodes[realized]; exists {
		return "", store.ErrNodeExists
	}

	owner := ""
	if flags&store.FlagEphemeral != 0 {
		owner = c.id
		s.sessions[c.id].Add(realized)
	}
	s.createLocked(realized, data, owner)
	return realized, nil
}

// Delete implements store.Client.
func (c *Session) Delete(ctx context.Context, nodePath string) error {
	if err := c.guard(ctx); err != nil {
		return err
	}
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["delete"]++
	return s.deleteLocked(nodePath)
}

// Exists implements store.Client.
func (c *Session) Exists(ctx context.Context, nodePath string) (bool, *store.Stat, error) {
	if err := c.guard(ctx); err != nil {
		return false, nil, err
	}
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["exists"]++
	current, ok := s.nodes[nodePath]
	if !ok {
		return false, nil, nil
	}
	return true, statCopy(current.stat), nil
}

// ExistsWatch implements store.Client. When the node exists a one-shot
// watch is armed under the same lock that performed the existence check,
// which is the atomicity the deletion-detection protocol relies on.
func (c *Session) ExistsWatch(ctx context.Context, nodePath string) (bool, *store.Stat, <-chan store.Event, error) {
	if err := c.guard(ctx); err != nil {
		return false, nil, nil, err
	}
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["existswatch"]++
	current, ok := s.nodes[nodePath]
	if !ok {
		return false, nil, nil, nil
	}
	events := make(chan store.Event, 1)
	s.watches[nodePath] = append(s.watches[nodePath], events)
	return true, statCopy(current.stat), events, nil
}

// Get implements store.Client.
func (c *Session) Get(ctx context.Context, nodePath string) ([]byte, *store.Stat, error) {
	if err := c.guard(ctx); err != nil {
		return nil, nil, err
	}
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["get"]++
	current, ok := s.nodes[nodePath]
	if !ok {
		return nil, nil, store.ErrNoNode
	}
	return current.data, statCopy(current.stat), nil
}

// Set implements store.Client.
func (c *Session) Set(ctx context.Context, nodePath string, data []byte) (*store.Stat, error) {
	if err := c.guard(ctx); err != nil {
		return nil, err
	}
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["set"]++
	current, ok := s.nodes[nodePath]
	if !ok {
		return nil, store.ErrNoNode
	}
	current.data = data
	s.zxid++
	current.stat.Version++
	current.stat.Mzxid = s.zxid
	s.fireLocked(nodePath, store.EventDataChanged)
	return statCopy(current.stat), nil
}

// Children implements store.Client.
func (c *Session) Children(ctx context.Context, nodePath string) ([]string, error) {
	if err := c.guard(ctx); err != nil {
		return nil, err
	}
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["children"]++
	if _, ok := s.nodes[nodePath]; !ok {
		return nil, store.ErrNoNode
	}
	return s.childrenLocked(nodePath), nil
}

// EnsurePath implements store.Client.
func (c *Session) EnsurePath(ctx context.Context, nodePath string) error {
	if err := c.guard(ctx); err != nil {
		return err
	}
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["ensurepath"]++
	if nodePath == "/" {
		return nil
	}
	prefix := ""
	for _, segment := range strings.Split(strings.TrimPrefix(nodePath, "/"), "/") {
		prefix += "/" + segment
		if _, ok := s.nodes[prefix]; !ok {
			s.createLocked(prefix, nil, "")
		}
	}
	return nil
}
