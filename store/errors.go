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

import "errors"

var (
	// ErrNoNode is returned when an operation targets a node that does not
	// exist.
	ErrNoNode = errors.New("store: node does not exist")

	// ErrNodeExists is returned when a create targets a node that already
	// exists.
	ErrNodeExists = errors.New("store: node already exists")

	// ErrNotEmpty is returned when deleting a node that still has children.
	ErrNotEmpty = errors.New("store: node has children")

	// ErrConnectionClosed is returned when the connection to the store has
	// been closed.
	ErrConnectionClosed = errors.New("store: connection closed")

	// ErrSessionExpired is returned when the session has been expired by the
	// store.
	ErrSessionExpired = errors.New("store: session expired")
)
