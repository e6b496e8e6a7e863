package logger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_ConsoleLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "warn", Console: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	log.Info("buffer resolved")
	log.Warn("attribute counts differ", zap.Int("primitive", 2))
	_ = log.Sync()

	out := buf.String()
	if strings.Contains(out, "buffer resolved") {
		t.Error("info entry written at warn level")
	}
	if !strings.Contains(out, "attribute counts differ") || !strings.Contains(out, `"primitive": 2`) {
		t.Errorf("warn entry missing from output: %q", out)
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meshtool.log")
	log, err := New(Options{Level: "debug", File: DefaultFileConfig(path)})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	log.Named("mesh").Debug("primitive compiled", zap.Int("vertices", 3))
	_ = log.Sync()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		t.Fatal("log file is empty")
	}
	var entry map[string]any
	if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "primitive compiled" || entry["logger"] != "mesh" || entry["level"] != "debug" {
		t.Errorf("entry = %v", entry)
	}
	if entry["vertices"] != float64(3) {
		t.Errorf("vertices field = %v, want 3", entry["vertices"])
	}
}

func TestNew_NoOutputs(t *testing.T) {
	log, err := New(Options{Level: "info"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if log.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger without outputs is enabled")
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := New(Options{Level: "loud", Console: &bytes.Buffer{}}); err == nil {
		t.Error("New accepted an unknown level")
	}
}

func TestInitWith(t *testing.T) {
	prev := Log
	t.Cleanup(func() {
		Log = prev
		Sugar = prev.Sugar()
	})

	var buf bytes.Buffer
	if err := InitWith(Options{Level: "info", Console: &buf}); err != nil {
		t.Fatalf("InitWith failed: %v", err)
	}
	Named("viewer").Info("window opened")
	Sugar.Infof("uploaded %d drawables", 4)
	Sync()

	out := buf.String()
	if !strings.Contains(out, "viewer") || !strings.Contains(out, "window opened") {
		t.Errorf("named entry missing: %q", out)
	}
	if !strings.Contains(out, "uploaded 4 drawables") {
		t.Errorf("sugared entry missing: %q", out)
	}
}
