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

import "github.com/coordkit/zgroup/log"

// Option is the interface that applies a configuration option to a Group.
type Option interface {
	// Apply sets the Option value of a Group.
	Apply(g *Group)
}

// enforce compilation and linter error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(g *Group)

// Apply applies the Group's option
func (f OptionFunc) Apply(g *Group) {
	f(g)
}

// WithRoot sets the parent path under which groups are namespaced.
// The path must be absolute.
func WithRoot(root string) Option {
	return OptionFunc(func(g *Group) {
		g.root = root
	})
}

// WithPrefix sets the name prefix of member entries created by Join.
func WithPrefix(prefix string) Option {
	return OptionFunc(func(g *Group) {
		g.prefix = prefix
	})
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(g *Group) {
		g.logger = logger
	})
}

// WatchOption is the interface that applies a configuration option to a
// DeletionWatch.
type WatchOption interface {
	// Apply sets the WatchOption value of a DeletionWatch.
	Apply(w *DeletionWatch)
}

// enforce compilation and linter error
var _ WatchOption = WatchOptionFunc(nil)

// WatchOptionFunc implements the WatchOption interface.
type WatchOptionFunc func(w *DeletionWatch)

// Apply applies the DeletionWatch's option
func (f WatchOptionFunc) Apply(w *DeletionWatch) {
	f(w)
}

// WithWatchLogger sets the logger of a DeletionWatch.
func WithWatchLogger(logger log.Logger) WatchOption {
	return WatchOptionFunc(func(w *DeletionWatch) {
		w.logger = logger
	})
}
