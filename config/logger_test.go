package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestPrepareFileLogger(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "run.log")
	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger:    LoggerConfig{Level: "normal", Destination: dest, Mode: "overwrite"},
	}

	log, err := conf.Prepare(false)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	log.Debug("hidden")
	log.Info("visible", zap.String("key", "value"))
	_ = log.Sync()

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Unable to read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "visible") || !strings.Contains(out, "jqalt") {
		t.Errorf("Log lacks info entry: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("Debug entry written at normal level: %q", out)
	}
}

func TestPrepareFileLoggerAppend(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "run.log")
	if err := os.WriteFile(dest, []byte("previous\n"), 0644); err != nil {
		t.Fatal(err)
	}
	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger:    LoggerConfig{Level: "debug", Destination: dest, Mode: "append"},
	}
	log, err := conf.Prepare(false)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	log.Debug("next")
	_ = log.Sync()

	data, _ := os.ReadFile(dest)
	if !strings.HasPrefix(string(data), "previous\n") || !strings.Contains(string(data), "next") {
		t.Errorf("Unexpected log content: %q", data)
	}
}

func TestPrepareBadDestination(t *testing.T) {
	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger:    LoggerConfig{Level: "debug", Destination: filepath.Join(t.TempDir(), "missing", "run.log")},
	}
	if _, err := conf.Prepare(false); err == nil {
		t.Error("Expected error for unreachable log destination")
	}
}

func TestConsoleEncoderDropsVerboseErrors(t *testing.T) {
	enc := newEncoder(zapcore.EncoderConfig{MessageKey: "msg"})
	buf, err := enc.EncodeEntry(zapcore.Entry{Message: "failed"}, []zapcore.Field{zap.Error(verboseError{})})
	if err != nil {
		t.Fatalf("EncodeEntry() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "short") || strings.Contains(out, "stack") {
		t.Errorf("Unexpected console entry: %q", out)
	}
}

// verboseError prints a long form with %+v.
type verboseError struct{}

func (verboseError) Error() string { return "short" }

func (verboseError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		_, _ = s.Write([]byte("short\nstack trace"))
		return
	}
	_, _ = s.Write([]byte("short"))
}
