package beats

import (
	"fmt"
	"oscrelay/internal/global"
	"oscrelay/internal/queue/fifo"

	lumberjack "github.com/elastic/go-lumber/client/v2"
)

// Creates new beats (lumberjack) mirror. Returns nil nil if no endpoint.
func NewMirror(namespace []string, endpoint string) (mirror *Mirror, err error) {
	if endpoint == "" {
		return
	}

	compression := lumberjack.CompressionLevel(0)
	timeout := lumberjack.Timeout(global.MirrorDialTimeout)

	ljClient, err := lumberjack.SyncDial(endpoint, compression, timeout)
	if err != nil {
		err = fmt.Errorf("failed connection to beats server: %w", err)
		return
	}

	ns := append(append([]string(nil), namespace...), global.NSMirror)
	mirror = &Mirror{
		Namespace: ns,
		endpoint:  endpoint,
		sink:      ljClient,
		queue:     fifo.New(ns, func(record Record) int { return record.Message.Size() + len(record.Peer) }),
	}
	return
}

// Gracefully stops module
func (mirror *Mirror) Shutdown() (err error) {
	if mirror == nil {
		return
	}
	if mirror.sink != nil {
		err = mirror.sink.Close()
	}
	return
}
