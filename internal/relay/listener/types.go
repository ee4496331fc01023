package listener

import (
	"net"
	"oscrelay/internal/queue/fifo"
	"oscrelay/internal/translate"
	"oscrelay/pkg/osc"
)

type Instance struct {
	Namespace []string
	conn      *net.UDPConn
	rule      translate.Rule
	translate translate.Func
	Outbox    *fifo.Queue[osc.Message] // Opposite direction queue
	Metrics   MetricStorage
}
