// UDP endpoint helpers for the relay listeners and senders
package network

import (
	"context"
	"fmt"
	"net"
	"strconv"
)

// Binds a UDP receive socket on ip:port.
// No address reuse is requested, so a second bind of the same endpoint fails.
func ListenUDP(ctx context.Context, ip string, port int) (conn *net.UDPConn, err error) {
	var cfg net.ListenConfig

	address := net.JoinHostPort(ip, strconv.Itoa(port))
	pc, err := cfg.ListenPacket(ctx, "udp", address)
	if err != nil {
		err = fmt.Errorf("failed to bind udp %s: %w", address, err)
		return
	}
	conn = pc.(*net.UDPConn)
	return
}

// Opens a connected UDP send socket toward ip:port
func DialUDP(ip string, port int) (conn *net.UDPConn, err error) {
	address := net.JoinHostPort(ip, strconv.Itoa(port))
	destAddr, err := net.ResolveUDPAddr("udp", address)
	if err != nil {
		err = fmt.Errorf("failed to resolve destination %s: %w", address, err)
		return
	}

	conn, err = net.DialUDP("udp", nil, destAddr)
	if err != nil {
		err = fmt.Errorf("failed to open udp socket to %s: %w", address, err)
		return
	}
	return
}

// Returns the bound port of a socket (useful when binding port 0)
func LocalPort(conn *net.UDPConn) (port int) {
	if conn == nil {
		return
	}
	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if ok {
		port = addr.Port
	}
	return
}
