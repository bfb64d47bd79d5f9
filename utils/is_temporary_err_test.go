package utils

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type tempErr struct{ temp bool }

func (e tempErr) Error() string { return "temp" }
func (e tempErr) Temporary() bool {
	return e.temp
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return false }

func TestIsTemporaryErr_Golden(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "has Temporary true",
			err:  tempErr{temp: true},
			want: true,
		},
		{
			name: "has Temporary false",
			err:  tempErr{temp: false},
			want: false,
		},
		{
			name: "wrapped Temporary false",
			err:  fmt.Errorf("outer: %w", tempErr{temp: false}),
			want: false,
		},
		{
			name: "net timeout wins over Temporary",
			err:  fmt.Errorf("dial: %w", timeoutErr{}),
			want: true,
		},
		{
			name: "cancellation is final",
			err:  fmt.Errorf("perform request: %w", context.Canceled),
			want: false,
		},
		{
			name: "unknown errors are transient",
			err:  errors.New("connection reset"),
			want: true,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsTemporaryErr(tt.err); got != tt.want {
				t.Fatalf("got=%v want %v", got, tt.want)
			}
		})
	}
}
