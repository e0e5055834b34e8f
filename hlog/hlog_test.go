package hlog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		v        Verbosity
		debugger bool
		want     zerolog.Level
	}{
		{Quiet, false, zerolog.Disabled},
		{Default, false, zerolog.ErrorLevel},
		{Verbose, false, zerolog.InfoLevel},
		{Debug, false, zerolog.DebugLevel},
		{Quiet, true, zerolog.DebugLevel},
	}
	for _, tt := range tests {
		if got := levelFor(tt.v, tt.debugger); got != tt.want {
			t.Errorf("levelFor(%d, %v) = %v, want %v", tt.v, tt.debugger, got, tt.want)
		}
	}
}

func TestLogToStderr(t *testing.T) {
	t.Setenv("WIFICTL_LOG", "stderr")
	if !LogToStderr() {
		t.Error("LogToStderr() = false")
	}
	t.Setenv("WIFICTL_LOG", "")
	if LogToStderr() {
		t.Error("LogToStderr() = true")
	}
}

func TestIsContextCancellation(t *testing.T) {
	if IsContextCancellation(nil) || IsContextCancellation(errors.New("boom")) {
		t.Error("plain errors are not cancellations")
	}
	if !IsContextCancellation(fmt.Errorf("GET x: %w", context.DeadlineExceeded)) {
		t.Error("wrapped deadline is a cancellation")
	}
}
