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

// EventType identifies the kind of change a watch observed.
type EventType int

const (
	// EventCreated reports that the watched node was created.
	EventCreated EventType = iota
	// EventDeleted reports that the watched node was deleted.
	EventDeleted
	// EventDataChanged reports that the watched node's data changed.
	EventDataChanged
	// EventChildrenChanged reports that the watched node's children changed.
	EventChildrenChanged
)

var eventTypeNames = map[EventType]string{
	EventCreated:         "Created",
	EventDeleted:         "Deleted",
	EventDataChanged:     "DataChanged",
	EventChildrenChanged: "ChildrenChanged",
}

// String returns the text representation of the event type.
func (t EventType) String() string {
	if name, ok := eventTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// Event is a single change notification delivered by a one-shot watch.
type Event struct {
	// Type is the kind of change observed.
	Type EventType
	// Path is the path of the watched node.
	Path string
}

// Stat is the version metadata the store keeps per node. Callers treat it as
// an opaque last-observed version; this library never uses it for
// conditional writes.
type Stat struct {
	// Czxid is the store transaction id that created the node.
	Czxid int64
	// Mzxid is the store transaction id that last modified the node.
	Mzxid int64
	// Version is the number of data changes to the node.
	Version int32
	// NumChildren is the number of direct children of the node.
	NumChildren int32
}
