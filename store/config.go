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
	"time"

	"github.com/coordkit/zgroup/internal/validation"
	"github.com/coordkit/zgroup/log"
)

const (
	// DefaultSessionTimeout is the session timeout used when none is set.
	DefaultSessionTimeout = 10 * time.Second
	// DefaultConnectTimeout bounds the initial connection attempt.
	DefaultConnectTimeout = 30 * time.Second
	// DefaultMaxConnectRetries is the number of connection attempts made
	// before Connect gives up.
	DefaultMaxConnectRetries = 5
)

// Config holds the settings for connecting to a ZooKeeper ensemble.
type Config struct {
	// Servers is the list of ensemble members as host:port addresses.
	Servers []string
	// SessionTimeout is the requested session timeout. The store expires
	// ephemeral nodes of a session that stays unreachable for this long.
	// Defaults to DefaultSessionTimeout.
	SessionTimeout time.Duration
	// ConnectTimeout bounds the overall connection attempt, retries
	// included. Defaults to DefaultConnectTimeout.
	ConnectTimeout time.Duration
	// MaxConnectRetries is the number of connection attempts before giving
	// up. Defaults to DefaultMaxConnectRetries.
	MaxConnectRetries int
	// Logger receives connection-level diagnostics. Defaults to
	// log.DiscardLogger.
	Logger log.Logger
}

// enforce compilation and linter error
var _ validation.Validator = (*Config)(nil)

// Validate implements validation.Validator.
func (c *Config) Validate() error {
	chain := validation.New(validation.FailFast()).
		AddAssertion(len(c.Servers) > 0, "Servers must not be empty").
		AddAssertion(c.SessionTimeout >= 0, "SessionTimeout must not be negative").
		AddAssertion(c.ConnectTimeout >= 0, "ConnectTimeout must not be negative").
		AddAssertion(c.MaxConnectRetries >= 0, "MaxConnectRetries must not be negative")
	for _, server := range c.Servers {
		chain.AddValidator(validation.NewEmptyStringValidator("Servers entry", server))
	}
	return chain.Validate()
}

func (c *Config) withDefaults() *Config {
	cfg := *c
	if cfg.SessionTimeout == 0 {
		cfg.SessionTimeout = DefaultSessionTimeout
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
	if cfg.MaxConnectRetries == 0 {
		cfg.MaxConnectRetries = DefaultMaxConnectRetries
	}
	if cfg.Logger == nil {
		cfg.Logger = log.DiscardLogger
	}
	return &cfg
}
