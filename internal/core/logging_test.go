package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger_File(t *testing.T) {
	cfg := &Config{}
	cfg.Logging.LogLevel = "info"
	cfg.Logging.LogFilePath = filepath.Join(t.TempDir(), "hangman.log")

	logger, closer, err := NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger() returned an unexpected error: %v", err)
	}
	if closer == nil {
		t.Fatal("expected a closer for a file-backed logger")
	}

	logger.Info("server started")
	logger.Debug("not written at info level")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() returned an unexpected error: %v", err)
	}

	contents, err := os.ReadFile(cfg.Logging.LogFilePath)
	if err != nil {
		t.Fatalf("error reading log file: %v", err)
	}
	if !strings.Contains(string(contents), "server started") {
		t.Errorf("log file missing entry, got: %q", contents)
	}
	if strings.Contains(string(contents), "not written") {
		t.Errorf("log file contains an entry below the configured level: %q", contents)
	}
}

func TestNewLogger_Stdout(t *testing.T) {
	cfg := &Config{}
	cfg.Logging.LogLevel = "debug"

	logger, closer, err := NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger() returned an unexpected error: %v", err)
	}
	if closer != nil {
		t.Error("expected no closer when logging to stdout")
	}
	if logger.Out != os.Stdout {
		t.Error("expected logs to go to stdout")
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	cfg := &Config{}
	cfg.Logging.LogLevel = "loud"
	cfg.Logging.LogFilePath = filepath.Join(t.TempDir(), "hangman.log")

	if _, _, err := NewLogger(cfg); err == nil {
		t.Fatal("expected an error for an unknown log level")
	}
	if _, err := os.Stat(cfg.Logging.LogFilePath); !os.IsNotExist(err) {
		t.Error("log file should not be created when the level is invalid")
	}
}
