package file

import (
	"io"
	"oscrelay/internal/queue/fifo"
	"oscrelay/pkg/osc"
	"sync/atomic"
	"time"
)

// Appends a text line per relayed message to a local file
type Capture struct {
	Namespace   []string
	filePath    string
	sink        io.WriteCloser
	queue       *fifo.Queue[Entry]
	batchBuffer []string
	Metrics     MetricStorage
}

// One delivered message
type Entry struct {
	Timestamp time.Time
	Peer      string
	Message   osc.Message
}

type MetricStorage struct {
	LinesWritten atomic.Uint64 // lines flushed to the file
	WriteErrors  atomic.Uint64 // failed flushes
}
