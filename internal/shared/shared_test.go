package shared

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == b {
		t.Errorf("expected distinct ids, got %s twice", a)
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("expected a valid uuid, got %q: %v", a, err)
	}
}

func TestSetLogLevelString(t *testing.T) {
	tc := []struct {
		name    string
		level   string
		want    log.Level
		wantErr bool
	}{
		{name: "debug", level: "debug", want: log.DebugLevel},
		{name: "warn", level: "warn", want: log.WarnLevel},
		{name: "empty keeps current", level: "", want: log.InfoLevel},
		{name: "unknown", level: "loud", want: log.InfoLevel, wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLogger(&bytes.Buffer{})
			l.SetLevel(log.InfoLevel)

			err := SetLogLevelString(l, tt.level)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SetLogLevelString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
			if l.GetLevel() != tt.want {
				t.Errorf("level = %v, want %v", l.GetLevel(), tt.want)
			}
		})
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "photobook.log")

	l, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	l.Info("hello from the book")

	content := mustRead(t, path)
	if !strings.Contains(content, "hello from the book") {
		t.Errorf("expected log line in file, got %q", content)
	}
}

func TestMarshalJSON(t *testing.T) {
	data := map[string]int{"page": 1}

	compact, err := MarshalJSON(data, false)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(compact) != `{"page":1}` {
		t.Errorf("compact = %s", compact)
	}

	pretty, err := MarshalJSON(data, true)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if !strings.Contains(string(pretty), "\n  \"page\": 1") {
		t.Errorf("pretty = %s", pretty)
	}
}
