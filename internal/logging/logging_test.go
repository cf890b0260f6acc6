package logging

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestLevelFor(t *testing.T) {
	cases := []struct {
		verbosity int
		want      zerolog.Level
	}{
		{0, zerolog.ErrorLevel},
		{1, zerolog.InfoLevel},
		{2, zerolog.DebugLevel},
		{5, zerolog.DebugLevel},
	}
	for _, c := range cases {
		if got := levelFor(c.verbosity); got != c.want {
			t.Fatalf("levelFor(%d) = %v, want %v", c.verbosity, got, c.want)
		}
	}
}

func TestNewWritesToLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gestured.log")
	log, err := New(1, path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info().Msg("hello")
}
