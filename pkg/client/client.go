// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package client drives LaserCube devices over UDP: request/reply
// commands, broadcast discovery and flow-controlled point streaming on
// top of the pkg/lasercube codec.
package client

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/Thermoquad/lasercube/pkg/lasercube"
)

// UnexpectedResponseError reports a reply whose tag does not match the
// command that was sent.
type UnexpectedResponseError struct {
	Expected lasercube.CommandType
	Actual   byte
}

func (e *UnexpectedResponseError) Error() string {
	return fmt.Sprintf("unexpected response: expected command type %s, got 0x%02X",
		e.Expected, e.Actual)
}

// Client sends commands and point data to a single LaserCube device.
// One socket per port: commands are request/reply, data is send-mostly
// with optional piggy-backed buffer feedback.
//
// A Client is not safe for concurrent SendCommand calls; each device
// session owns its client.
type Client struct {
	cmdConn  *net.UDPConn
	dataConn *net.UDPConn
	cmdAddr  *net.UDPAddr
	dataAddr *net.UDPAddr
}

// New creates a client for the device at target using the protocol's
// fixed command and data ports.
func New(target netip.Addr) (*Client, error) {
	return NewWithAddrs(
		netip.AddrPortFrom(target, lasercube.PortCmd),
		netip.AddrPortFrom(target, lasercube.PortData),
	)
}

// NewWithAddrs creates a client with explicit command and data
// endpoints. Used by tests and by emulated devices on ephemeral ports.
func NewWithAddrs(cmdAddr, dataAddr netip.AddrPort) (*Client, error) {
	cmdConn, err := net.ListenUDP("udp4", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to bind command socket: %w", err)
	}
	dataConn, err := net.ListenUDP("udp4", nil)
	if err != nil {
		cmdConn.Close()
		return nil, fmt.Errorf("failed to bind data socket: %w", err)
	}
	return &Client{
		cmdConn:  cmdConn,
		dataConn: dataConn,
		cmdAddr:  net.UDPAddrFromAddrPort(cmdAddr),
		dataAddr: net.UDPAddrFromAddrPort(dataAddr),
	}, nil
}

// Close releases both sockets.
func (c *Client) Close() error {
	err := c.cmdConn.Close()
	if derr := c.dataConn.Close(); err == nil {
		err = derr
	}
	return err
}

// SendCommand sends a command on the command port and waits for the
// matching reply. The context deadline bounds the wait; without one a
// default of one second applies. Replies for other commands fail with
// UnexpectedResponseError.
func (c *Client) SendCommand(ctx context.Context, cmd lasercube.Command) (lasercube.Response, error) {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(time.Second)
	}

	if _, err := c.cmdConn.WriteToUDP(lasercube.CommandBytes(cmd), c.cmdAddr); err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", cmd.CommandType(), err)
	}

	if err := c.cmdConn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}
	buf := make([]byte, 1024)
	n, _, err := c.cmdConn.ReadFromUDP(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s reply: %w", cmd.CommandType(), err)
	}

	data := buf[:n]
	if n > 0 && data[0] != byte(cmd.CommandType()) {
		return nil, &UnexpectedResponseError{
			Expected: cmd.CommandType(),
			Actual:   data[0],
		}
	}
	return lasercube.ParseResponse(data)
}

// GetFullInfo queries the device info record.
func (c *Client) GetFullInfo(ctx context.Context) (lasercube.LaserInfo, error) {
	resp, err := c.SendCommand(ctx, lasercube.GetFullInfo{})
	if err != nil {
		return lasercube.LaserInfo{}, err
	}
	full, ok := resp.(lasercube.FullInfo)
	if !ok {
		return lasercube.LaserInfo{}, fmt.Errorf("GET_FULL_INFO returned %T", resp)
	}
	return full.Info, nil
}

// GetBufferFree queries the free sample count of the device's receive
// ring buffer.
func (c *Client) GetBufferFree(ctx context.Context) (uint16, error) {
	resp, err := c.SendCommand(ctx, lasercube.GetRingbufferEmptySampleCount{})
	if err != nil {
		return 0, err
	}
	free, ok := resp.(lasercube.BufferFree)
	if !ok {
		return 0, fmt.Errorf("GET_RINGBUFFER_EMPTY_SAMPLE_COUNT returned %T", resp)
	}
	return uint16(free), nil
}

// SetOutput enables or disables laser output.
func (c *Client) SetOutput(ctx context.Context, enable bool) error {
	resp, err := c.SendCommand(ctx, lasercube.SetOutput(enable))
	if err != nil {
		return err
	}
	if _, ok := resp.(lasercube.Ack); !ok {
		return fmt.Errorf("SET_OUTPUT returned %T", resp)
	}
	return nil
}

// EnableBufferSizeResponse enables or disables buffer-size replies
// piggy-backed on data packets.
func (c *Client) EnableBufferSizeResponse(ctx context.Context, enable bool) error {
	resp, err := c.SendCommand(ctx, lasercube.EnableBufferSizeResponseOnData(enable))
	if err != nil {
		return err
	}
	if _, ok := resp.(lasercube.Ack); !ok {
		return fmt.Errorf("ENABLE_BUFFER_SIZE_RESPONSE_ON_DATA returned %T", resp)
	}
	return nil
}

// SendSampleData sends a point batch on the data port without waiting.
// Buffer feedback, if enabled, arrives via ReadDataResponse.
func (c *Client) SendSampleData(sd lasercube.SampleData) error {
	if _, err := c.dataConn.WriteToUDP(lasercube.CommandBytes(sd), c.dataAddr); err != nil {
		return fmt.Errorf("failed to send sample data: %w", err)
	}
	return nil
}

// ReadDataResponse waits up to timeout for a reply on the data port.
// Returns net timeout errors unchanged so callers can poll.
func (c *Client) ReadDataResponse(timeout time.Duration) (lasercube.Response, error) {
	if err := c.dataConn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, err
	}
	buf := make([]byte, 1024)
	n, _, err := c.dataConn.ReadFromUDP(buf)
	if err != nil {
		return nil, err
	}
	return lasercube.ParseResponse(buf[:n])
}
