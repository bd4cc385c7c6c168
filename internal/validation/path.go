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

package validation

import (
	"fmt"
	"strings"
)

// pathValidator validates a coordination store node path.
type pathValidator struct {
	fieldName string
	path      string
}

// enforce compilation and linter error
var _ Validator = (*pathValidator)(nil)

// NewPathValidator creates a validator that fails unless the given value is
// a well-formed absolute store path: it starts with a slash, has no trailing
// slash (except for the root itself), and contains no empty, "." or ".."
// segments.
func NewPathValidator(fieldName, path string) Validator {
	return &pathValidator{fieldName: fieldName, path: path}
}

// Validate executes the validation
func (v pathValidator) Validate() error {
	if v.path == "" {
		return fmt.Errorf("the [%s] is required", v.fieldName)
	}
	if !strings.HasPrefix(v.path, "/") {
		return fmt.Errorf("the [%s] must be an absolute path: %s", v.fieldName, v.path)
	}
	if v.path == "/" {
		return nil
	}
	if strings.HasSuffix(v.path, "/") {
		return fmt.Errorf("the [%s] must not end with a slash: %s", v.fieldName, v.path)
	}
	for _, segment := range strings.Split(v.path[1:], "/") {
		switch segment {
		case "", ".", "..":
			return fmt.Errorf("the [%s] contains an invalid segment: %s", v.fieldName, v.path)
		}
	}
	return nil
}
