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

package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog(t *testing.T) {
	t.Run("With Info", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := New(InfoLevel, buffer)
		logger.Info("walrus")

		expected := map[string]string{
			"level": "info",
			"msg":   "walrus",
		}
		actual := make(map[string]any)
		require.NoError(t, json.Unmarshal(buffer.Bytes(), &actual))
		for key, value := range expected {
			assert.Equal(t, value, actual[key])
		}
		assert.Equal(t, InfoLevel, logger.LogLevel())
	})
	t.Run("With Infof", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := New(InfoLevel, buffer)
		logger.Infof("%s expected", "walrus")

		actual := make(map[string]any)
		require.NoError(t, json.Unmarshal(buffer.Bytes(), &actual))
		assert.Equal(t, "walrus expected", actual["msg"])
	})
	t.Run("With Debug filtered out", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := New(InfoLevel, buffer)
		logger.Debug("walrus")
		assert.Zero(t, buffer.Len())
	})
	t.Run("With Debug enabled", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := New(DebugLevel, buffer)
		logger.Debugf("%s expected", "walrus")

		actual := make(map[string]any)
		require.NoError(t, json.Unmarshal(buffer.Bytes(), &actual))
		assert.Equal(t, "debug", actual["level"])
		assert.Equal(t, "walrus expected", actual["msg"])
	})
	t.Run("With Error", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := New(ErrorLevel, buffer)
		logger.Error("walrus")

		actual := make(map[string]any)
		require.NoError(t, json.Unmarshal(buffer.Bytes(), &actual))
		assert.Equal(t, "error", actual["level"])
		assert.Equal(t, "walrus", actual["msg"])
	})
	t.Run("With outputs", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := New(WarningLevel, buffer)
		require.Len(t, logger.LogOutput(), 1)
	})
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "INFO", InfoLevel.String())
	assert.Equal(t, "DEBUG", DebugLevel.String())
	assert.Equal(t, "WARNING", WarningLevel.String())
	assert.Equal(t, "ERROR", ErrorLevel.String())
	assert.Equal(t, "FATAL", FatalLevel.String())
	assert.Equal(t, "PANIC", PanicLevel.String())
	assert.Empty(t, InvalidLevel.String())
	assert.Empty(t, Level(100).String())
}

func TestDiscardLogger(t *testing.T) {
	DiscardLogger.Debug("walrus")
	DiscardLogger.Infof("%s", "walrus")
	DiscardLogger.Warn("walrus")
	DiscardLogger.Error("walrus")
	assert.Equal(t, InvalidLevel, DiscardLogger.LogLevel())
	assert.Len(t, DiscardLogger.LogOutput(), 1)
}
