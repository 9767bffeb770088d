package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/osse101/RedeemBot_Go/internal/sse"
)

type WatchEventsCommand struct{}

func (c *WatchEventsCommand) Name() string {
	return "watch-events"
}

func (c *WatchEventsCommand) Description() string {
	return "Tail the admin settlement event stream [types,comma,separated]"
}

func (c *WatchEventsCommand) Run(args []string) error {
	apiKey := os.Getenv("API_KEY")
	if apiKey == "" {
		return fmt.Errorf("API_KEY must be set")
	}

	streamURL := getEnv("API_URL", defaultAPIURL) + "/api/v1/admin/events"
	if len(args) > 0 {
		streamURL += "?types=" + url.QueryEscape(args[0])
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-Key", apiKey)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	PrintHeader("Streaming events (Ctrl+C to stop)")
	err = printFrames(resp.Body, os.Stdout)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// printFrames writes one line per SSE frame as "<event> <data>". Keepalive
// frames are skipped.
func printFrames(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	var eventType, data string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			eventType = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "":
			if eventType != "" && eventType != sse.EventTypeKeepalive {
				fmt.Fprintf(w, "%s %s\n", eventType, data)
			}
			eventType, data = "", ""
		}
	}
	return scanner.Err()
}
