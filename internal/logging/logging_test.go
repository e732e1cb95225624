/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew_QuietHidesProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf, NoColor: true})

	logger.Info().Msg("creating stack")
	logger.Warn().Msg("stack is drifting")

	assert.NotContains(t, buf.String(), "creating stack")
	assert.Contains(t, buf.String(), "stack is drifting")
}

func TestNew_VerboseShowsProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf, Verbose: true, NoColor: true})

	logger.Info().Str("stack", "app").Msg("creating stack")
	logger.Debug().Msg("poll")

	assert.Contains(t, buf.String(), "creating stack")
	assert.Contains(t, buf.String(), "stack=app")
	assert.NotContains(t, buf.String(), "poll")
}

func TestNew_DebugLevel(t *testing.T) {
	logger := New(Config{Output: &bytes.Buffer{}, Debug: true})

	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf, Verbose: true, NoColor: true})

	ctx := WithContext(context.Background(), logger)
	FromContext(ctx).Info().Msg("from context")

	assert.Contains(t, buf.String(), "from context")
}

func TestFromContext_DefaultIsDisabled(t *testing.T) {
	assert.Equal(t, zerolog.Disabled, FromContext(context.Background()).GetLevel())
}
