package logctx

import "strings"

// Returns every retained event formatted, oldest first, each ending in a newline.
// Only loggers created with New retain events.
func (logger *Logger) GetFormattedLogLines() (formatted []string) {
	// Copy under lock to avoid holding mutex while formatting
	logger.mutex.Lock()
	events := make([]Event, len(logger.history))
	copy(events, logger.history)
	logger.mutex.Unlock()

	formatted = make([]string, 0, len(events))
	for _, event := range events {
		line := event.Format()
		if !strings.HasSuffix(line, "\n") {
			line += "\n"
		}
		formatted = append(formatted, line)
	}
	return
}
