package network

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

const (
	defaultMTU  int = 1500
	ip4Overhead int = 60
	ip6Overhead int = 80
	udpOverhead int = 8
)

// Largest UDP payload that reaches the connected destination without IP fragmentation.
// Asks the kernel for the path MTU first, then the MTU of the interface owning
// the local address, then falls back to the ethernet default.
func MaxUDPPayload(conn *net.UDPConn) (maxPayloadSize int) {
	overhead := ip4Overhead + udpOverhead
	isIPv6 := false

	localAddr, ok := conn.LocalAddr().(*net.UDPAddr)
	if ok && localAddr.IP.To4() == nil {
		isIPv6 = true
		overhead = ip6Overhead + udpOverhead
	}

	mtu, err := pathMTU(conn, isIPv6)
	if err != nil && ok {
		iface, ifaceErr := interfaceForIP(localAddr.IP)
		if ifaceErr == nil {
			mtu = iface.MTU
		}
	}
	if mtu <= 0 {
		mtu = defaultMTU
	}

	maxPayloadSize = mtu - overhead
	return
}

// Kernel path MTU of a connected socket
func pathMTU(conn *net.UDPConn, isIPv6 bool) (mtu int, err error) {
	rawConn, err := conn.SyscallConn()
	if err != nil {
		return
	}

	// Using x/sys/unix package for more up-to-date syscall numbers
	var sockErr error
	err = rawConn.Control(func(fd uintptr) {
		if isIPv6 {
			mtu, sockErr = unix.GetsockoptInt(int(fd), unix.IPPROTO_IPV6, unix.IPV6_MTU)
		} else {
			mtu, sockErr = unix.GetsockoptInt(int(fd), unix.IPPROTO_IP, unix.IP_MTU)
		}
	})
	if err == nil {
		err = sockErr
	}
	return
}

// Retrieves the network interface that owns a specific local address
func interfaceForIP(ip net.IP) (iface *net.Interface, err error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return
	}

	for index := range ifaces {
		addrs, addrErr := ifaces[index].Addrs()
		if addrErr != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, isNet := addr.(*net.IPNet)
			if isNet && ipNet.IP.Equal(ip) {
				iface = &ifaces[index]
				return
			}
		}
	}

	err = fmt.Errorf("no matching interface found for address %v", ip)
	return
}
