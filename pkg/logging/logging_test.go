package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{"json debug", "debug", "json", false},
		{"console info", "info", "console", false},
		{"warn defaults to json", "warn", "", false},
		{"invalid level", "chatty", "json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.level, tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			var want zapcore.Level
			if err := want.UnmarshalText([]byte(tt.level)); err != nil {
				t.Fatalf("parse level: %v", err)
			}
			if !logger.Core().Enabled(want) {
				t.Errorf("level %v not enabled", want)
			}
		})
	}
}
