package global

import (
	"context"
	"testing"
)

func TestVersion(t *testing.T) {
	if v := Version(context.Background()); v != "devel" {
		t.Errorf("Version() = %q", v)
	}
	ctx := context.WithValue(context.Background(), VersionKey, "v1.2.3")
	if v := Version(ctx); v != "v1.2.3" {
		t.Errorf("Version() = %q", v)
	}
}

func TestProcessContext(t *testing.T) {
	process, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx := context.WithValue(context.Background(), ProcessContextKey, process)
	if ProcessContext(ctx) != process {
		t.Error("ProcessContext did not return the stored context")
	}
	if ProcessContext(context.Background()) == nil {
		t.Error("ProcessContext fallback is nil")
	}
}
