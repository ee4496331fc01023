// Integration tests for the relay over loopback UDP
package integration

import (
	"context"
	"net"
	"oscrelay/internal/logctx"
	"oscrelay/internal/network"
	"oscrelay/internal/relay"
	"oscrelay/pkg/osc"
	"regexp"
	"strings"
	"testing"
	"time"
)

// Uses logger in context to search logger buffer for events matching filter (must match all 3 filters if filters are not empty)
func filterLogBuffer(ctx context.Context, searchText, searchTag, searchSeverity string) (matches string, found bool) {
	logger := logctx.GetLogger(ctx)
	if logger == nil {
		return
	}

	lines := logger.GetFormattedLogLines()

	bracketRe := regexp.MustCompile(`\[[^\]]*\]`)
	var re *regexp.Regexp
	if searchTag != "" {
		re = regexp.MustCompile(regexp.QuoteMeta(searchTag))
	}

	var foundLines []string
	for _, line := range lines {
		if re != nil {
			foundTag := false
			for _, b := range bracketRe.FindAllString(line, -1) {
				if re.MatchString(b) {
					foundTag = true
					break
				}
			}
			if !foundTag {
				continue
			}
		}

		if searchSeverity != "" && !strings.Contains(line, "["+searchSeverity+"]") {
			continue
		}

		if searchText != "" && !strings.Contains(line, searchText) {
			continue
		}

		foundLines = append(foundLines, line)
		found = true
	}

	matches = strings.Join(foundLines, "")
	return
}

// Stand-in for one peer's OSC input
type peerReceiver struct {
	conn *net.UDPConn
}

func newPeerReceiver(t *testing.T) (receiver peerReceiver) {
	t.Helper()
	conn, err := network.ListenUDP(context.Background(), "127.0.0.1", 0)
	if err != nil {
		t.Fatalf("failed to bind mock peer: %v", err)
	}
	conn.SetReadBuffer(4 << 20)
	t.Cleanup(func() { conn.Close() })
	receiver.conn = conn
	return
}

func (receiver peerReceiver) port() (port int) {
	port = network.LocalPort(receiver.conn)
	return
}

// Reads datagrams until count messages arrived or the wait elapsed
func (receiver peerReceiver) collect(count int, wait time.Duration) (messages []osc.Message) {
	buffer := make([]byte, 65535)
	deadline := time.Now().Add(wait)
	for len(messages) < count {
		receiver.conn.SetReadDeadline(deadline)
		n, _, err := receiver.conn.ReadFromUDP(buffer)
		if err != nil {
			return
		}
		decoded, err := osc.Parse(buffer[:n])
		if err != nil {
			continue
		}
		messages = append(messages, decoded...)
	}
	return
}

// Reserves a port number that is free at the time of the call
func freeUDPPort(t *testing.T) (port int) {
	t.Helper()
	conn, err := network.ListenUDP(context.Background(), "127.0.0.1", 0)
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	port = network.LocalPort(conn)
	conn.Close()
	return
}

// Loopback configuration using the default ShowCockpit/grandMA3 prefixes
func loopbackConfig(t *testing.T, sc, ma peerReceiver) (cfg relay.Config) {
	cfg = relay.Config{
		PeerA: relay.Peer{
			Name:       "SC",
			ListenIP:   "127.0.0.1",
			ListenPort: freeUDPPort(t),
			SendIP:     "127.0.0.1",
			SendPort:   sc.port(),
			Prefix:     "/13.13.",
		},
		PeerB: relay.Peer{
			Name:       "MA",
			ListenIP:   "127.0.0.1",
			ListenPort: freeUDPPort(t),
			SendIP:     "127.0.0.1",
			SendPort:   ma.port(),
			Prefix:     "/14.14.",
		},
	}
	return
}

func send(t *testing.T, port int, payload []byte) {
	t.Helper()
	conn, err := network.DialUDP("127.0.0.1", port)
	if err != nil {
		t.Fatalf("failed to dial relay: %v", err)
	}
	defer conn.Close()
	if _, err = conn.Write(payload); err != nil {
		t.Fatalf("failed to write datagram: %v", err)
	}
}

func sendMessage(t *testing.T, port int, msg osc.Message) {
	t.Helper()
	payload, err := msg.MarshalBinary()
	if err != nil {
		t.Fatalf("failed to encode %s: %v", msg, err)
	}
	send(t, port, payload)
}
