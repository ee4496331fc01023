package lifecycle

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"oscrelay/internal/global"
	"oscrelay/internal/logctx"
	"strings"

	"golang.org/x/term"
)

const quitPrompt = "Enter 'q' to quit"

// Reports whether the file is an interactive terminal
func IsTerminal(file *os.File) (interactive bool) {
	interactive = term.IsTerminal(int(file.Fd()))
	return
}

// Prompts on output and reads lines from input until a line reading "q".
// Returns true when the user asked to quit, false on EOF, read error or ctx cancellation.
func WaitForQuit(ctx context.Context, input io.Reader, output io.Writer) (quit bool) {
	ctx = logctx.AppendCtxTag(ctx, global.NSConsole)

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(input)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	fmt.Fprintln(output, quitPrompt)
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-readErr:
			if err != nil {
				logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "Console input failed: %v\n", err)
			}
			return
		case line := <-lines:
			if strings.EqualFold(strings.TrimSpace(line), "q") {
				quit = true
				return
			}
			fmt.Fprintln(output, quitPrompt)
		}
	}
}
