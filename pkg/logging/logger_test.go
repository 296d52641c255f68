package logging

import (
	"testing"

	"github.com/cre8tar/c8r/pkg/config"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{
			name:   "json format",
			level:  "INFO",
			format: "json",
		},
		{
			name:   "text format",
			level:  "DEBUG",
			format: "text",
		},
		{
			name:   "unknown level falls back to info",
			level:  "bogus",
			format: "json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.LoggingConfig{Level: tt.level, Format: tt.format}
			if err := InitLogger(cfg); err != nil {
				t.Fatalf("InitLogger() error: %v", err)
			}
			if Logger == nil {
				t.Fatal("InitLogger() left Logger nil")
			}
		})
	}
}

func TestWithComponent(t *testing.T) {
	Logger = nil
	logger := WithComponent("test-component")
	if logger == nil {
		t.Fatal("WithComponent() returned nil")
	}
}

func TestWithAccount(t *testing.T) {
	Logger = nil
	logger := WithAccount("00000000-0000-4000-8000-000000000001")
	if logger == nil {
		t.Fatal("WithAccount() returned nil")
	}
}
