package output

import (
	"net"
	"oscrelay/internal/queue/fifo"
	"oscrelay/pkg/osc"
)

// Receives a copy of every message delivered to a peer
type Recorder interface {
	Record(peer string, msg osc.Message)
}

type Instance struct {
	Namespace  []string
	peer       string
	inbox      *fifo.Queue[osc.Message]
	conn       *net.UDPConn
	mirror     Recorder // optional
	maxPayload int      // payload size that fits the interface MTU
	Metrics    MetricStorage
}
