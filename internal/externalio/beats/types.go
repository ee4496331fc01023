package beats

import (
	"oscrelay/internal/queue/fifo"
	"oscrelay/pkg/osc"
	"sync/atomic"
	"time"

	lumberjack "github.com/elastic/go-lumber/client/v2"
)

// Ships a copy of relayed traffic to a Logstash/Beats endpoint
type Mirror struct {
	Namespace []string
	endpoint  string
	sink      *lumberjack.SyncClient
	queue     *fifo.Queue[Record]
	Metrics   MetricStorage
}

// One delivered message
type Record struct {
	Timestamp time.Time
	Peer      string
	Message   osc.Message
}

type MetricStorage struct {
	Sent       atomic.Uint64 // events acknowledged by the endpoint
	SendErrors atomic.Uint64 // failed batches
	Dropped    atomic.Uint64 // events lost in failed batches
}
