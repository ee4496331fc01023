package logctx

import (
	"context"
	"oscrelay/internal/global"
	"strings"
	"testing"
)

func TestLogEvent(t *testing.T) {
	done := make(chan struct{})
	defer close(done)

	ctx := New(context.Background(), global.NSTest, 2, done)
	logger := GetLogger(ctx)
	if logger == nil {
		t.Fatalf("expected logger creation, got nil logger")
	}

	tests := []struct {
		name          string
		logLevel      int
		eventLevel    int
		severity      string
		message       string
		vars          []any
		expectEvents  int
		expectMessage string
	}{
		{
			name:          "event level <= print level is logged",
			logLevel:      2,
			eventLevel:    1,
			severity:      global.InfoLog,
			message:       "hello world",
			expectEvents:  1,
			expectMessage: "hello world",
		},
		{
			name:         "event level > print level is dropped",
			logLevel:     1,
			eventLevel:   3,
			severity:     global.InfoLog,
			message:      "should not appear",
			expectEvents: 0,
		},
		{
			name:          "error severity bypasses level filtering",
			logLevel:      0,
			eventLevel:    5,
			severity:      global.ErrorLog,
			message:       "bind failed",
			expectEvents:  1,
			expectMessage: "bind failed",
		},
		{
			name:          "formatted message with vars",
			logLevel:      3,
			eventLevel:    2,
			severity:      global.InfoLog,
			message:       "port=%d",
			vars:          []any{8000},
			expectEvents:  1,
			expectMessage: "port=8000",
		},
		{
			name:          "format verb but no variables",
			logLevel:      3,
			eventLevel:    2,
			severity:      global.InfoLog,
			message:       "literal %d",
			expectEvents:  1,
			expectMessage: "literal %d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger.mutex.Lock()
			logger.queue = []Event{}
			logger.mutex.Unlock()

			SetLogLevel(ctx, tt.logLevel)
			LogEvent(ctx, tt.eventLevel, tt.severity, tt.message, tt.vars...)

			logger.mutex.Lock()
			defer logger.mutex.Unlock()

			if got := len(logger.queue); got != tt.expectEvents {
				t.Fatalf("expected %d events, got %d", tt.expectEvents, got)
			}
			if tt.expectEvents == 1 {
				ev := logger.queue[0]
				if ev.Severity != tt.severity {
					t.Fatalf("severity mismatch: got %q want %q", ev.Severity, tt.severity)
				}
				if ev.Message != tt.expectMessage {
					t.Fatalf("message mismatch: got %q want %q", ev.Message, tt.expectMessage)
				}
				if ev.Timestamp.IsZero() {
					t.Fatal("event timestamp is zero")
				}
			}
		})
	}
}

func TestEnabled(t *testing.T) {
	done := make(chan struct{})
	defer close(done)

	if Enabled(context.Background(), global.VerbosityNone) {
		t.Fatalf("expected no logger to report disabled")
	}

	ctx := New(context.Background(), global.NSTest, global.VerbosityProgress, done)
	if !Enabled(ctx, global.VerbosityStandard) {
		t.Errorf("expected standard level enabled at progress")
	}
	if Enabled(ctx, global.VerbosityData) {
		t.Errorf("expected data level disabled at progress")
	}

	if GetLogLevel(ctx) != global.VerbosityProgress {
		t.Errorf("expected level %d, got %d", global.VerbosityProgress, GetLogLevel(ctx))
	}
	SetLogLevel(ctx, global.VerbosityData)
	if !Enabled(ctx, global.VerbosityData) {
		t.Errorf("expected data level enabled after raising the level")
	}
}

func TestGetFormattedLogLines(t *testing.T) {
	done := make(chan struct{})
	defer close(done)

	ctx := New(context.Background(), global.NSTest, global.VerbosityDebug, done)
	ctx = AppendCtxTag(ctx, global.NSRelay)

	LogEvent(ctx, global.VerbosityStandard, global.InfoLog, "first\n")
	LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "second")

	lines := GetLogger(ctx).GetFormattedLogLines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "[Relay] [Info] first") {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "second\n") {
		t.Errorf("expected newline appended, got %q", lines[1])
	}
}
