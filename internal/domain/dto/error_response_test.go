package dto

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorResponse_Error(t *testing.T) {
	cases := []struct {
		name string
		resp ErrorResponse
		want string
	}{
		{name: "message only", resp: ErrorResponse{Message: "trades not found"}, want: "trades not found"},
		{name: "with details", resp: ErrorResponse{Message: "invalid date", ErrorDetails: "bad month"}, want: "invalid date: bad month"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.resp.Error())
		})
	}
}

func TestNewErrorResponse(t *testing.T) {
	plain := NewErrorResponse("report not found", nil)
	assert.Equal(t, "report not found", plain.Message)
	assert.Empty(t, plain.ErrorDetails)
	assert.Equal(t, time.UTC, plain.Timestamp.Location())
	assert.WithinDuration(t, time.Now(), plain.Timestamp, time.Second)

	wrapped := NewErrorResponse("failed to load trades", errors.New("connection reset"))
	assert.Equal(t, "connection reset", wrapped.ErrorDetails)
}

func TestErrorResponse_JSONOmitsEmptyDetails(t *testing.T) {
	ts := time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC)

	b, err := json.Marshal(ErrorResponse{Message: "rate limit exceeded", Timestamp: ts})
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"rate limit exceeded","timestamp":"2025-09-15T10:00:00Z"}`, string(b))

	b, err = json.Marshal(ErrorResponse{Message: "invalid view", ErrorDetails: "unknown view \"X\"", Timestamp: ts})
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"invalid view","error_details":"unknown view \"X\"","timestamp":"2025-09-15T10:00:00Z"}`, string(b))
}
