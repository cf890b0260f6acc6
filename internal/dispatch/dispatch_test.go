package dispatch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestDispatchRunsCommand(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "ran")

	e := New(zerolog.Nop())
	e.Dispatch("touch " + marker)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(marker); err == nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected command to create %s", marker)
}

func TestDispatchBadParseDoesNotPanic(t *testing.T) {
	e := New(zerolog.Nop())
	e.Dispatch(`unterminated "quote`)
}

func TestDispatchEmptyCommandDoesNotPanic(t *testing.T) {
	e := New(zerolog.Nop())
	e.Dispatch("")
}
