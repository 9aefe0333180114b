package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"ERR", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"something", zerolog.InfoLevel},
	}
	for _, c := range cases {
		if got := parseLevel(c.in); got != c.want {
			t.Fatalf("parseLevel(%q)=%v, want %v", c.in, got, c.want)
		}
	}
}

func TestGetenv(t *testing.T) {
	t.Setenv("X", "val")
	if v := getenv("X", "def"); v != "val" {
		t.Fatalf("getenv returned %q, want 'val'", v)
	}
	if v := getenv("Y", "def"); v != "def" {
		t.Fatalf("getenv returned %q, want 'def'", v)
	}
}

func TestInit_LevelFromEnv(t *testing.T) {
	cases := []struct {
		level string
		want  zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{"error", zerolog.ErrorLevel},
	}
	for _, tc := range cases {
		t.Run("level="+tc.level, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tc.level)
			t.Setenv("LOG_PRETTY", "true")
			Init()
			if got := L().GetLevel(); got != tc.want {
				t.Fatalf("level %v, want %v", got, tc.want)
			}
		})
	}
}

func TestL_InitializesOnFirstUse(t *testing.T) {
	var buf bytes.Buffer
	t.Setenv("LOG_PRETTY", "false")
	t.Setenv("LOG_LEVEL", "info")
	oldOut := out
	out = &buf
	ready = false
	t.Cleanup(func() { SetOutput(oldOut) })

	L().Info().Msg("first")
	if !ready || !bytes.Contains(buf.Bytes(), []byte(`"message":"first"`)) {
		t.Fatalf("logger not initialized on first use: %q", buf.String())
	}
}

func TestComponent_TagsEntries(t *testing.T) {
	var buf bytes.Buffer
	t.Setenv("LOG_PRETTY", "false")
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })

	lg := Component("settlement")
	lg.Info().Str("view", "PEW").Msg("view settled")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["component"] != "settlement" || entry["app"] != "tradebook" || entry["view"] != "PEW" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}
