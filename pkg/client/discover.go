// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package client

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/netip"
	"time"

	"golang.org/x/sys/unix"

	"github.com/Thermoquad/lasercube/pkg/lasercube"
)

// DiscoveredDevice is one discovery result: the parsed info record and
// the address the reply came from.
type DiscoveredDevice struct {
	Info lasercube.LaserInfo
	Addr netip.AddrPort
}

// Devices discovers LaserCube devices by sending GET_FULL_INFO to the
// target (typically the broadcast address on the command port) and
// streaming replies until ctx is done.
//
// Replies are deduplicated by device IP; a device is re-emitted only if
// its info record changed. Malformed datagrams are logged and skipped —
// broadcast replies share the wire with unrelated traffic.
func Devices(ctx context.Context, bind netip.Addr, target netip.AddrPort) (<-chan DiscoveredDevice, error) {
	bindAddr := net.UDPAddrFromAddrPort(netip.AddrPortFrom(bind, 0))
	conn, err := net.ListenUDP("udp4", bindAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to bind discovery socket: %w", err)
	}

	if target.Addr() == netip.AddrFrom4([4]byte{255, 255, 255, 255}) {
		if err := setBroadcast(conn); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to enable broadcast: %w", err)
		}
	}

	query := lasercube.CommandBytes(lasercube.GetFullInfo{})
	if _, err := conn.WriteToUDP(query, net.UDPAddrFromAddrPort(target)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to send discovery query: %w", err)
	}

	out := make(chan DiscoveredDevice, 16)
	go func() {
		defer close(out)
		defer conn.Close()

		discovered := make(map[netip.Addr]lasercube.LaserInfo)
		buf := make([]byte, 1024)
		for {
			// Short deadlines keep the loop responsive to ctx.
			conn.SetReadDeadline(time.Now().Add(250 * time.Millisecond))
			n, src, err := conn.ReadFromUDP(buf)
			if err != nil {
				if ne, ok := err.(net.Error); ok && ne.Timeout() {
					select {
					case <-ctx.Done():
						return
					default:
						continue
					}
				}
				return
			}

			resp, err := lasercube.ParseResponse(buf[:n])
			if err != nil {
				log.Printf("discovery: failed to decode reply from %s: %v", src, err)
				continue
			}
			full, ok := resp.(lasercube.FullInfo)
			if !ok {
				log.Printf("discovery: unexpected response %T from %s", resp, src)
				continue
			}

			key := full.Info.Header.IPAddr
			if prev, seen := discovered[key]; seen && prev == full.Info {
				continue
			}
			discovered[key] = full.Info

			select {
			case out <- DiscoveredDevice{Info: full.Info, Addr: src.AddrPort()}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// setBroadcast sets SO_BROADCAST, required to send to 255.255.255.255.
func setBroadcast(conn *net.UDPConn) error {
	raw, err := conn.SyscallConn()
	if err != nil {
		return err
	}
	var serr error
	err = raw.Control(func(fd uintptr) {
		serr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1)
	})
	if err != nil {
		return err
	}
	return serr
}
