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
	"errors"
	"fmt"

	"github.com/coordkit/zgroup/store"
)

var (
	// ErrGroupDoesNotExist is returned when an operation targets a group
	// whose node has not been created.
	ErrGroupDoesNotExist = errors.New("group does not exist")

	// ErrGroupAlreadyExists is returned by CreateExclusive when the group
	// node already exists.
	ErrGroupAlreadyExists = errors.New("group already exists")

	// ErrMemberDoesNotExist is returned when an operation targets a member
	// entry that is gone.
	ErrMemberDoesNotExist = errors.New("member does not exist")

	// ErrMemberAlreadyExists is returned when a member entry unexpectedly
	// already exists.
	ErrMemberAlreadyExists = errors.New("member already exists")

	// ErrWatchStopped is returned by a deletion watch that was stopped
	// before the target was confirmed gone.
	ErrWatchStopped = errors.New("deletion watch stopped")
)

// translateGroupError maps store absence/conflict errors onto the
// group-level sentinels; every other error passes through unchanged. Both
// layers stay matchable with errors.Is.
func translateGroupError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNoNode):
		return fmt.Errorf("%w: %w", ErrGroupDoesNotExist, err)
	case errors.Is(err, store.ErrNodeExists):
		return fmt.Errorf("%w: %w", ErrGroupAlreadyExists, err)
	default:
		return err
	}
}

// translateMemberError is translateGroupError for member-scoped calls.
func translateMemberError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNoNode):
		return fmt.Errorf("%w: %w", ErrMemberDoesNotExist, err)
	case errors.Is(err, store.ErrNodeExists):
		return fmt.Errorf("%w: %w", ErrMemberAlreadyExists, err)
	default:
		return err
	}
}
