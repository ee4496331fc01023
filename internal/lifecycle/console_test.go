package lifecycle

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestWaitForQuit(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantQuit    bool
		wantPrompts int
	}{
		{"quit immediately", "q\n", true, 1},
		{"quit uppercase with spaces", "  Q \n", true, 1},
		{"other input reprompts", "hello\n\nq\n", true, 3},
		{"eof without quit", "x\n", false, 2},
		{"empty input", "", false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var output bytes.Buffer
			quit := WaitForQuit(context.Background(), strings.NewReader(tt.input), &output)
			if quit != tt.wantQuit {
				t.Fatalf("got quit %v, want %v", quit, tt.wantQuit)
			}
			if got := strings.Count(output.String(), quitPrompt); got != tt.wantPrompts {
				t.Fatalf("got %d prompts, want %d (%q)", got, tt.wantPrompts, output.String())
			}
		})
	}
}

func TestWaitForQuit_Cancelled(t *testing.T) {
	reader, writer := io.Pipe()
	defer writer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan bool, 1)
	go func() {
		result <- WaitForQuit(ctx, reader, io.Discard)
	}()

	cancel()
	select {
	case quit := <-result:
		if quit {
			t.Fatalf("cancellation must not report quit")
		}
	case <-time.After(time.Second):
		t.Fatalf("WaitForQuit did not return after cancellation")
	}
}
