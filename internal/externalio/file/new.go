package file

import (
	"fmt"
	"os"
	"oscrelay/internal/global"
	"oscrelay/internal/queue/fifo"
)

// Creates new capture file output. Returns nil nil if no path.
func NewCapture(namespace []string, filePath string) (capture *Capture, err error) {
	if filePath == "" {
		return
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
	if err != nil {
		err = fmt.Errorf("failed to open capture file: %w", err)
		return
	}

	ns := append(append([]string(nil), namespace...), global.NSCapture)
	capture = &Capture{
		Namespace:   ns,
		filePath:    filePath,
		sink:        file,
		queue:       fifo.New(ns, func(entry Entry) int { return entry.Message.Size() + len(entry.Peer) }),
		batchBuffer: make([]string, 0, global.CaptureBatchSize),
	}
	return
}
