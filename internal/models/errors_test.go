package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("connection reset by peer")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", err: nil, want: KindUnknown},
		{name: "plain error", err: cause, want: KindUnknown},
		{name: "tagged", err: NewError(KindUnreachable, "endpoint is unreachable", cause), want: KindUnreachable},
		{name: "wrapped tagged", err: fmt.Errorf("cycle: %w", Errorf(KindShape, "bad")), want: KindShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestError_IsAndUnwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := NewError(KindSend, "failed to send message", cause)

	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, &Error{Kind: KindSend}))
	assert.False(t, errors.Is(err, &Error{Kind: KindDecode}))
	assert.Equal(t, "failed to send message: timeout", err.Error())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "endpoint_unavailable", KindUnavailable.String())
	assert.Equal(t, "kind(200)", Kind(200).String())
}
