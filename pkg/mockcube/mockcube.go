// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package mockcube emulates a LaserCube device over UDP for tests and
// offline development. It answers the command set on one socket and
// accepts sample data on another, draining its receive buffer at the
// configured DAC rate.
package mockcube

import (
	"fmt"
	"log"
	"net"
	"net/netip"
	"sync"
	"time"

	"github.com/Thermoquad/lasercube/pkg/lasercube"
)

// Device is an emulated LaserCube bound to ephemeral UDP ports.
type Device struct {
	cmdConn  *net.UDPConn
	dataConn *net.UDPConn

	mu           sync.Mutex
	info         lasercube.LaserInfo
	bufferUsed   uint32
	bufferOnData bool
	lastDrain    time.Time

	closed chan struct{}
	wg     sync.WaitGroup
}

// DefaultInfo returns the info record a factory-fresh emulated device
// reports.
func DefaultInfo() lasercube.LaserInfo {
	return lasercube.LaserInfo{
		Header: lasercube.LaserInfoHeader{
			FWMajor:        0,
			FWMinor:        13,
			DACRate:        30000,
			MaxDACRate:     40000,
			RXBufferFree:   6000,
			RXBufferSize:   6000,
			BatteryPercent: 100,
			Temperature:    25,
			SerialNumber:   [6]byte{2, 0x1a, 0x30, 0x04, 0x05, 0x06},
			IPAddr:         netip.AddrFrom4([4]byte{127, 0, 0, 1}),
			ModelNumber:    1,
		},
		ModelName: "MockCube",
	}
}

// New starts an emulated device with the given info record. The
// reported RXBufferFree and RXBufferSize fields seed the emulated
// buffer; later queries reflect the live fill level.
func New(info lasercube.LaserInfo) (*Device, error) {
	cmdConn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		return nil, fmt.Errorf("failed to bind command socket: %w", err)
	}
	dataConn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		cmdConn.Close()
		return nil, fmt.Errorf("failed to bind data socket: %w", err)
	}

	d := &Device{
		cmdConn:    cmdConn,
		dataConn:   dataConn,
		info:       info,
		bufferUsed: uint32(info.Header.RXBufferSize - info.Header.RXBufferFree),
		lastDrain:  time.Now(),
		closed:     make(chan struct{}),
	}

	d.wg.Add(2)
	go d.serve(cmdConn)
	go d.serve(dataConn)
	return d, nil
}

// CmdAddr returns the emulated command endpoint.
func (d *Device) CmdAddr() netip.AddrPort {
	return d.cmdConn.LocalAddr().(*net.UDPAddr).AddrPort()
}

// DataAddr returns the emulated data endpoint.
func (d *Device) DataAddr() netip.AddrPort {
	return d.dataConn.LocalAddr().(*net.UDPAddr).AddrPort()
}

// Info returns a snapshot of the current info record.
func (d *Device) Info() lasercube.LaserInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drainLocked()
	info := d.info
	info.Header.RXBufferFree = d.bufferFreeLocked()
	return info
}

// Close stops both listeners and waits for the handlers to exit.
func (d *Device) Close() error {
	close(d.closed)
	err := d.cmdConn.Close()
	if derr := d.dataConn.Close(); err == nil {
		err = derr
	}
	d.wg.Wait()
	return err
}

func (d *Device) serve(conn *net.UDPConn) {
	defer d.wg.Done()
	buf := make([]byte, 2048)
	for {
		n, src, err := conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-d.closed:
				return
			default:
			}
			log.Printf("mockcube: read error: %v", err)
			return
		}
		if n == 0 {
			continue
		}
		if reply := d.handle(buf[:n]); reply != nil {
			if _, err := conn.WriteToUDP(reply, src); err != nil {
				log.Printf("mockcube: reply to %s failed: %v", src, err)
			}
		}
	}
}

// handle dispatches one datagram and returns the reply bytes, or nil
// when no reply is due.
func (d *Device) handle(data []byte) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drainLocked()

	switch lasercube.CommandType(data[0]) {
	case lasercube.CmdGetFullInfo:
		info := d.info
		info.Header.RXBufferFree = d.bufferFreeLocked()
		reply := info.Bytes()
		// Real devices echo the command tag in the record's first
		// reserved byte.
		reply[0] = byte(lasercube.CmdGetFullInfo)
		return reply

	case lasercube.CmdEnableBufferSizeResponseOnData:
		if len(data) >= 2 {
			d.bufferOnData = data[1] != 0
		}
		return []byte{byte(lasercube.CmdEnableBufferSizeResponseOnData)}

	case lasercube.CmdSetOutput:
		if len(data) >= 2 {
			if data[1] != 0 {
				d.info.Header.Status |= lasercube.FlagOutputEnabled
			} else {
				d.info.Header.Status &^= lasercube.FlagOutputEnabled
			}
		}
		return []byte{byte(lasercube.CmdSetOutput)}

	case lasercube.CmdGetRingbufferEmptySampleCount:
		free := d.bufferFreeLocked()
		return []byte{
			byte(lasercube.CmdGetRingbufferEmptySampleCount), 0x00,
			byte(free), byte(free >> 8),
		}

	case lasercube.CmdSampleData:
		if len(data) < 4 {
			return nil
		}
		points := uint32((len(data) - 4) / lasercube.PointSize)
		d.bufferUsed += points
		if size := uint32(d.info.Header.RXBufferSize); d.bufferUsed > size {
			d.bufferUsed = size
		}
		if !d.bufferOnData {
			return nil
		}
		free := d.bufferFreeLocked()
		return []byte{byte(lasercube.CmdSampleData), byte(free), byte(free >> 8)}

	default:
		log.Printf("mockcube: unknown command 0x%02X", data[0])
		return nil
	}
}

// drainLocked advances the emulated DAC, releasing buffered samples at
// the configured rate. Callers hold d.mu.
func (d *Device) drainLocked() {
	now := time.Now()
	elapsed := now.Sub(d.lastDrain)
	if elapsed <= 0 {
		return
	}
	d.lastDrain = now

	consumed := uint64(elapsed.Milliseconds()) * uint64(d.info.Header.DACRate) / 1000
	if consumed >= uint64(d.bufferUsed) {
		d.bufferUsed = 0
		return
	}
	d.bufferUsed -= uint32(consumed)
}

func (d *Device) bufferFreeLocked() uint16 {
	return d.info.Header.RXBufferSize - uint16(d.bufferUsed)
}
