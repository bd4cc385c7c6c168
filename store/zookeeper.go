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

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/go-zookeeper/zk"
	"go.uber.org/atomic"

	"github.com/coordkit/zgroup/log"
)

// errNoSession makes the connect retrier keep polling until the ensemble has
// granted a session.
var errNoSession = errors.New("store: no session established yet")

// ZooKeeper implements Client on top of an Apache ZooKeeper ensemble.
type ZooKeeper struct {
	config    *Config
	conn      *zk.Conn
	logger    log.Logger
	connected *atomic.Bool
}

// enforce compilation and linter error
var _ Client = (*ZooKeeper)(nil)

// Connect establishes a session with the ensemble described by config and
// returns a Client bound to it. The attempt is retried with backoff until a
// session is granted or the configured retry budget is exhausted.
func Connect(ctx context.Context, config *Config) (*ZooKeeper, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	cfg := config.withDefaults()

	conn, _, err := zk.Connect(cfg.Servers, cfg.SessionTimeout,
		zk.WithLogger(zkLogger{logger: cfg.Logger}),
		zk.WithLogInfo(false))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to zookeeper: %w", err)
	}

	retrier := retry.NewRetrier(cfg.MaxConnectRetries, 100*time.Millisecond, cfg.ConnectTimeout)
	if err := retrier.RunContext(ctx, func(context.Context) error {
		if conn.State() == zk.StateHasSession {
			return nil
		}
		return errNoSession
	}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to zookeeper: %w", err)
	}

	cfg.Logger.Infof("connected to zookeeper ensemble %s", strings.Join(cfg.Servers, ","))
	return &ZooKeeper{
		config:    cfg,
		conn:      conn,
		logger:    cfg.Logger,
		connected: atomic.NewBool(true),
	}, nil
}

// Close tears down the session. Every ephemeral node created through this
// client is deleted by the ensemble once the session is gone.
func (z *ZooKeeper) Close() {
	if z.connected.CompareAndSwap(true, false) {
		z.conn.Close()
		z.logger.Info("zookeeper session closed")
	}
}

// Create implements Client.
func (z *ZooKeeper) Create(ctx context.Context, path string, data []byte, flags CreateFlag) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var zkFlags int32
	if flags&FlagSequential != 0 {
		zkFlags |= zk.FlagSequence
	}
	if flags&FlagEphemeral != 0 {
		zkFlags |= zk.FlagEphemeral
	}
	actual, err := z.conn.Create(path, data, zkFlags, zk.WorldACL(zk.PermAll))
	if err != nil {
		return "", mapError(err)
	}
	return actual, nil
}

// Delete implements Client.
func (z *ZooKeeper) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// version -1 skips the conditional-delete check
	return mapError(z.conn.Delete(path, -1))
}

// Exists implements Client.
func (z *ZooKeeper) Exists(ctx context.Context, path string) (bool, *Stat, error) {
	if err := ctx.Err(); err != nil {
		return false, nil, err
	}
	exists, stat, err := z.conn.Exists(path)
	if err != nil {
		return false, nil, mapError(err)
	}
	if !exists {
		return false, nil, nil
	}
	return true, mapStat(stat), nil
}

// ExistsWatch implements Client. ZooKeeper's ExistsW is the atomic
// check-and-arm primitive; the returned zk event channel is translated into
// this package's Event type.
func (z *ZooKeeper) ExistsWatch(ctx context.Context, path string) (bool, *Stat, <-chan Event, error) {
	if err := ctx.Err(); err != nil {
		return false, nil, nil, err
	}
	exists, stat, zkEvents, err := z.conn.ExistsW(path)
	if err != nil {
		return false, nil, nil, mapError(err)
	}
	if !exists {
		return false, nil, nil, nil
	}

	events := make(chan Event, 1)
	go func() {
		// one-shot: the zk channel delivers at most one event then closes
		if zkEvent, ok := <-zkEvents; ok {
			events <- Event{Type: mapEventType(zkEvent.Type), Path: zkEvent.Path}
		}
		close(events)
	}()
	return true, mapStat(stat), events, nil
}

// Get implements Client.
func (z *ZooKeeper) Get(ctx context.Context, path string) ([]byte, *Stat, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	data, stat, err := z.conn.Get(path)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return data, mapStat(stat), nil
}

// Set implements Client.
func (z *ZooKeeper) Set(ctx context.Context, path string, data []byte) (*Stat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// version -1 makes the write an unconditional overwrite
	stat, err := z.conn.Set(path, data, -1)
	if err != nil {
		return nil, mapError(err)
	}
	return mapStat(stat), nil
}

// Children implements Client.
func (z *ZooKeeper) Children(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	children, _, err := z.conn.Children(path)
	if err != nil {
		return nil, mapError(err)
	}
	return children, nil
}

// EnsurePath implements Client.
func (z *ZooKeeper) EnsurePath(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if path == "/" {
		return nil
	}
	prefix := ""
	for _, segment := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		prefix += "/" + segment
		_, err := z.conn.Create(prefix, nil, 0, zk.WorldACL(zk.PermAll))
		if err != nil && !errors.Is(err, zk.ErrNodeExists) {
			return mapError(err)
		}
	}
	return nil
}

// mapError maps the zk client's absence/conflict/session errors onto this
// package's sentinels; everything else passes through unchanged.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, zk.ErrNoNode):
		return ErrNoNode
	case errors.Is(err, zk.ErrNodeExists):
		return ErrNodeExists
	case errors.Is(err, zk.ErrNotEmpty):
		return ErrNotEmpty
	case errors.Is(err, zk.ErrConnectionClosed):
		return ErrConnectionClosed
	case errors.Is(err, zk.ErrSessionExpired):
		return ErrSessionExpired
	default:
		return err
	}
}

// mapEventType translates zk watch event types. Session-related deliveries
// (such as EventNotWatching after a reconnect) map to EventDataChanged so
// consumers treat them as "something may have happened, check again".
func mapEventType(eventType zk.EventType) EventType {
	switch eventType {
	case zk.EventNodeCreated:
		return EventCreated
	case zk.EventNodeDeleted:
		return EventDeleted
	case zk.EventNodeDataChanged:
		return EventDataChanged
	case zk.EventNodeChildrenChanged:
		return EventChildrenChanged
	default:
		return EventDataChanged
	}
}

func mapStat(stat *zk.Stat) *Stat {
	if stat == nil {
		return nil
	}
	return &Stat{
		Czxid:       stat.Czxid,
		Mzxid:       stat.Mzxid,
		Version:     stat.Version,
		NumChildren: stat.NumChildren,
	}
}

// zkLogger adapts log.Logger to the zk client's Printf-style logger.
type zkLogger struct {
	logger log.Logger
}

func (l zkLogger) Printf(format string, v ...any) {
	l.logger.Debugf(format, v...)
}
