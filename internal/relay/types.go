package relay

import (
	"context"
	"errors"
	"net"
	"net/http"
	"oscrelay/internal/externalio/beats"
	"oscrelay/internal/externalio/file"
	"oscrelay/internal/queue/fifo"
	"oscrelay/internal/relay/listener"
	relaymetrics "oscrelay/internal/relay/metrics"
	"oscrelay/internal/relay/output"
	"oscrelay/internal/translate"
	"oscrelay/pkg/osc"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrAlreadyServing = errors.New("relay is already serving")
	ErrStopped        = errors.New("relay has been stopped and cannot serve again")
)

type State int32

const (
	StateCreated State = iota
	StateServing
	StateStopping
	StateStopped
)

type JSONPeer struct {
	Name       string `json:"name"`
	ListenIP   string `json:"listenAddress"`
	ListenPort int    `json:"listenPort"`
	SendIP     string `json:"sendAddress"`
	SendPort   int    `json:"sendPort"`
	Prefix     string `json:"namespacePrefix"`
}

type JSONConfig struct {
	PeerA    JSONPeer                `json:"peerA"`
	PeerB    JSONPeer                `json:"peerB"`
	Keywords []translate.KeywordPair `json:"keywords,omitempty"`
	Verbose  bool                    `json:"verbose,omitempty"`
	Metrics  struct {
		Interval          string `json:"collectionInterval,omitempty"`
		MaxAge            string `json:"maximumRetention,omitempty"`
		EnableQueryServer bool   `json:"enableHTTPQueryServer"`
		QueryServerPort   int    `json:"queryServerPort,omitempty"`
	} `json:"metrics"`
	Mirror struct {
		BeatsAddress string `json:"beatsAddress,omitempty"`
		CaptureFile  string `json:"captureFile,omitempty"`
	} `json:"mirror"`
}

// Every audit output a sender reports delivered messages to
type recorders []output.Recorder

func (set recorders) Record(peer string, msg osc.Message) {
	for _, recorder := range set {
		recorder.Record(peer, msg)
	}
}

// One side of the relay
type Peer struct {
	Name       string // Display name used in logs and metrics
	ListenIP   string // Relay receives this peer's traffic here
	ListenPort int
	SendIP     string // Relay delivers translated traffic to this peer here
	SendPort   int
	Prefix     string // Address namespace prefix this peer uses
}

type Config struct {
	PeerA    Peer
	PeerB    Peer
	Keywords []translate.KeywordPair // A word <-> B word
	Verbose  bool                    // Log every relayed message

	// Metrics
	MetricQueryServerEnabled bool
	MetricQueryServerPort    int
	MetricCollectionInterval time.Duration
	MetricMaxAge             time.Duration

	// Audit outputs (disabled when empty)
	MirrorEndpoint string
	CaptureFile    string
}

// Duplex relay between peer A and peer B
type Daemon struct {
	cfg   Config
	mu    sync.Mutex // serialises Serve and Stop
	state atomic.Int32
	done  chan struct{}

	toB translate.Rule
	toA translate.Rule

	ToA *fifo.Queue[osc.Message] // Messages bound for peer A
	ToB *fifo.Queue[osc.Message] // Messages bound for peer B

	// Sockets, each exclusively owned by one worker while serving
	listenA *net.UDPConn
	listenB *net.UDPConn
	sendA   *net.UDPConn
	sendB   *net.UDPConn

	// Worker registry
	Listeners [2]*listener.Instance
	Senders   [2]*output.Instance

	listenCancel context.CancelFunc
	sendCancel   context.CancelFunc
	auxCancel    context.CancelFunc
	listenWG     sync.WaitGroup
	sendWG       sync.WaitGroup
	auxWG        sync.WaitGroup

	ctx              context.Context // logging context
	prevLevel        int  // log level before a verbose run raised it
	raisedLevel      bool // Serve raised the log level for this run
	mirror           *beats.Mirror
	capture          *file.Capture
	metricsCollector *relaymetrics.Gatherer
	MetricServer     *http.Server
}
