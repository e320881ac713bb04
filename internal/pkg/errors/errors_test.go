package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"backend rejection", Rejected("Fichier introuvable"), "Fichier introuvable"},
		{"rejection without text", Rejected(""), UnknownError},
		{"wrapped transport", Wrap(errors.New("timeout"), CodeTransport, "request failed"), "timeout"},
		{"nested in fmt wrap", fmt.Errorf("extract: %w", Rejected("X")), "X"},
		{"plain error", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MessageOf(tt.err))
		})
	}
}

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	err := Wrap(context.DeadlineExceeded, CodeTransport, "request failed").
		WithEndpoint("POST /extraction/extract")

	assert.Equal(t, "TRANSPORT POST /extraction/extract: request failed: context deadline exceeded", err.Error())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, IsAppError(err))
	assert.True(t, HasCode(err, CodeTransport))
	assert.False(t, HasCode(err, CodeBackendRejected))
	assert.False(t, HasCode(errors.New("x"), CodeTransport))
}

func TestWithStatus_NilSafe(t *testing.T) {
	var e *AppError
	assert.Nil(t, e.WithStatus(500))
	assert.Nil(t, e.WithEndpoint("GET /health"))

	got := New(CodeHTTPStatus, "bad gateway").WithStatus(502)
	assert.Equal(t, 502, got.HTTPStatus)
}
