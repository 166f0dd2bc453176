package llm

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleHTTPErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{
			name:     "bad request",
			err:      &HTTPError{Status: 400, Message: "malformed prompt"},
			contains: []string{"Bad request", "deploy", "malformed prompt"},
		},
		{
			name:     "forbidden",
			err:      &HTTPError{Status: 403, Message: "key revoked"},
			contains: []string{"Forbidden", "403", "API key", "deploy", "key revoked"},
		},
		{
			name:     "rate limited",
			err:      &HTTPError{Status: 429, Message: "quota"},
			contains: []string{"Rate limit exceeded", "429", "deploy", "quota"},
		},
		{
			name:     "server error",
			err:      &HTTPError{Status: 500, Message: "boom"},
			contains: []string{"Acme returned an unexpected error", "deploy", "boom"},
		},
		{
			name:     "unavailable",
			err:      &HTTPError{Status: 503, Message: "maintenance"},
			contains: []string{"Service unavailable", "503", "Acme", "deploy", "maintenance"},
		},
		{
			name:     "gateway timeout",
			err:      &HTTPError{Status: 504, Message: "upstream"},
			contains: []string{"Gateway timeout", "504", "deploy", "upstream"},
		},
		{
			name:     "unmapped status",
			err:      &HTTPError{Status: 418, Message: "teapot"},
			contains: []string{"Acme error", "418", "deploy", "teapot"},
		},
		{
			name:     "no status",
			err:      errors.New("connection refused"),
			contains: []string{"Acme error", "deploy", "connection refused", "status: N/A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HandleHTTPError(tt.err, "deploy", "Acme")
			require.Error(t, got)
			for _, want := range tt.contains {
				assert.Contains(t, got.Error(), want)
			}
		})
	}
}

func TestHandleHTTPErrorStatusAlwaysInMessage(t *testing.T) {
	for _, status := range []int{400, 401, 403, 404, 429, 500, 502, 503, 504} {
		got := HandleHTTPError(&HTTPError{Status: status, Message: "x"}, "op", "Prov")
		assert.Contains(t, got.Error(), "op", "status %d", status)
		if status != 400 && status != 500 {
			assert.Contains(t, got.Error(), fmt.Sprint(status))
		}
	}
}

func TestHandleHTTPErrorDefaults(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		got := HandleHTTPError(nil, "op", "Prov")
		assert.Contains(t, got.Error(), "Unknown error")
		assert.Contains(t, got.Error(), "status: N/A")
	})

	t.Run("empty message with status", func(t *testing.T) {
		got := HandleHTTPError(&HTTPError{Status: 429}, "op", "Prov")
		assert.Contains(t, got.Error(), "Unknown error")
		assert.Contains(t, got.Error(), "429")
	})

	t.Run("empty provider name", func(t *testing.T) {
		got := HandleHTTPError(errors.New("x"), "op", "")
		assert.True(t, strings.HasPrefix(got.Error(), "Provider error during op"), got.Error())
	})

	t.Run("wrapped HTTPError is unwrapped", func(t *testing.T) {
		wrapped := fmt.Errorf("call failed: %w", &HTTPError{Status: 403, Message: "nope"})
		got := HandleHTTPError(wrapped, "op", "Prov")
		assert.Contains(t, got.Error(), "Forbidden")
		assert.Contains(t, got.Error(), "403")
	})
}

// The classifier never hands the original error back, even for inputs it
// cannot map.
func TestHandleHTTPErrorNeverReturnsOriginal(t *testing.T) {
	orig := errors.New("raw transport detail")
	got := HandleHTTPError(orig, "op", "Prov")
	require.NotErrorIs(t, got, orig)

	he := &HTTPError{Status: 500, Message: "raw"}
	got = HandleHTTPError(he, "op", "Prov")
	require.NotErrorIs(t, got, he)
}

func TestHandleHTTPErrorForbiddenAndStatusAbsent(t *testing.T) {
	got := HandleHTTPError(&HTTPError{Status: 403}, "op", "Prov")
	for _, want := range []string{"Forbidden", "API key", "op", "403"} {
		assert.Contains(t, got.Error(), want)
	}

	got = HandleHTTPError(errors.New("x"), "op", "")
	assert.Contains(t, got.Error(), "N/A")
}

// A 500 with a status and an anonymous error without one must never share
// wording: the N/A suffix appears only on the status-absent branch.
func TestHandleHTTPErrorStatus500DistinctFromAbsent(t *testing.T) {
	withStatus := HandleHTTPError(&HTTPError{Status: 500, Message: "x"}, "op", "Prov")
	absent := HandleHTTPError(errors.New("x"), "op", "Prov")
	assert.NotEqual(t, withStatus.Error(), absent.Error())
	assert.NotContains(t, withStatus.Error(), "N/A")
	assert.Contains(t, absent.Error(), "N/A")
}
