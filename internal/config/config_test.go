package config

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/go-cmp/cmp"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
		want func(*Config)
	}{
		{
			name: "defaults",
			want: func(*Config) {},
		},
		{
			name: "environment",
			env: map[string]string{
				"CHESSCORE_ADDR":            ":8080",
				"CHESSCORE_CLOCK":           "5m",
				"CHESSCORE_ENGINE_MOVETIME": "250ms",
				"CHESSCORE_LOG_LEVEL":       "debug",
			},
			want: func(c *Config) {
				c.Addr = ":8080"
				c.ClockTime = 5 * time.Minute
				c.EngineMoveTime = 250 * time.Millisecond
				c.LogLevel = "debug"
			},
		},
		{
			name: "flags override environment",
			args: []string{"-addr", ":9000", "-match-interval", "200ms", "-allow-origins", "*"},
			env:  map[string]string{"CHESSCORE_ADDR": ":8080", "CHESSCORE_MATCH_INTERVAL": "5s"},
			want: func(c *Config) {
				c.Addr = ":9000"
				c.MatchInterval = 200 * time.Millisecond
				c.AllowOrigins = "*"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.args, envMap(tt.env))
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			want := Default()
			tt.want(&want)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"bad env duration", nil, map[string]string{"CHESSCORE_CLOCK": "soon"}},
		{"bad flag", []string{"-no-such-flag"}, nil},
		{"zero clock", []string{"-clock", "0s"}, nil},
		{"negative interval", []string{"-match-interval", "-1s"}, nil},
		{"unknown log level", []string{"-log-level", "loud"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.args, envMap(tt.env)); err == nil {
				t.Error("Load() succeeded, want error")
			}
		})
	}
}

func TestLevel(t *testing.T) {
	for text, want := range map[string]log.Level{
		"trace": log.LevelTrace,
		"DEBUG": log.LevelDebug,
		"info":  log.LevelInfo,
		"warn":  log.LevelWarn,
		"error": log.LevelError,
	} {
		got, err := Config{LogLevel: text}.Level()
		if err != nil || got != want {
			t.Errorf("Level(%q) = %v, %v, want %v", text, got, err, want)
		}
	}
}
