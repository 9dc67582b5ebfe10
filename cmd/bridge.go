// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var bridgeInterval int

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Relay device telemetry to a WebSocket endpoint",
	Long: `Poll the target device and forward its raw info records to a WebSocket
endpoint as binary messages.

This lets a remote dashboard observe a device that sits on an isolated
network segment: the bridge runs next to the device and pushes each
GET_FULL_INFO reply upstream unchanged, so the receiver can decode it
with the same codec.

Requires --url. With --username, HTTP Basic auth is used; the password
comes from the LASERCUBE_PASSWORD environment variable or an interactive
prompt.`,
	RunE: runBridge,
}

func init() {
	rootCmd.AddCommand(bridgeCmd)
	bridgeCmd.Flags().IntVar(&bridgeInterval, "interval", 1000, "Poll interval in milliseconds")
}

func runBridge(cmd *cobra.Command, args []string) error {
	if wsURL == "" {
		return fmt.Errorf("--url must be specified")
	}

	c, err := newClient()
	if err != nil {
		return err
	}
	defer c.Close()

	password := ""
	if wsUsername != "" {
		password, err = getPassword()
		if err != nil {
			return err
		}
	}

	ws, err := openWebSocket(wsURL, wsUsername, password, wsNoSSLVerify)
	if err != nil {
		return err
	}
	defer ws.Close()

	fmt.Printf("Lasercube - Telemetry Bridge\n")
	fmt.Printf("Device: %s -> %s, interval %dms\n", targetAddr, wsURL, bridgeInterval)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	relayed := 0
	for {
		pollCtx, cancel := commandCtx()
		info, err := c.GetFullInfo(pollCtx)
		cancel()
		if err != nil {
			fmt.Printf("[%s] poll failed: %v\n", time.Now().Format("15:04:05"), err)
		} else {
			if err := ws.WriteMessage(websocket.BinaryMessage, info.Bytes()); err != nil {
				return fmt.Errorf("websocket write failed: %w", err)
			}
			relayed++
		}

		select {
		case <-ctx.Done():
			fmt.Printf("\n%d records relayed\n", relayed)
			return nil
		case <-time.After(time.Duration(bridgeInterval) * time.Millisecond):
		}
	}
}

// openWebSocket dials a ws:// or wss:// endpoint with optional HTTP
// Basic auth.
func openWebSocket(rawURL, username, password string, skipSSLVerify bool) (*websocket.Conn, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %v", err)
	}
	switch u.Scheme {
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported URL scheme: %s (use ws:// or wss://)", u.Scheme)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: skipSSLVerify,
		}
	}

	headers := http.Header{}
	if username != "" && password != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
		headers.Set("Authorization", "Basic "+credentials)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	conn, resp, err := dialer.DialContext(ctx, rawURL, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("WebSocket connection failed (HTTP %d): %v", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("WebSocket connection failed: %v", err)
	}
	return conn, nil
}

// getPassword retrieves the password from the environment or prompts
// the user without echo.
func getPassword() (string, error) {
	if pw := os.Getenv("LASERCUBE_PASSWORD"); pw != "" {
		return pw, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		// Fallback to regular input if terminal functions fail
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read password: %v", err)
		}
		fmt.Fprintln(os.Stderr)
		return strings.TrimSpace(password), nil
	}

	fmt.Fprintln(os.Stderr)
	return string(passwordBytes), nil
}
