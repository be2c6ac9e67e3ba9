package ctl

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gorilla/websocket"
)

// WatchOptions controls the watch command behavior.
type WatchOptions struct {
	Filter []string // event types to show (empty = all)
	JSON   bool     // output raw JSON per event
}

type watchEvent struct {
	Type  string `json:"type"`
	State struct {
		Mode             string  `json:"mode"`
		Phase            string  `json:"phase"`
		RemainingSeconds float64 `json:"remaining_seconds"`
		CurrentSet       int     `json:"current_set"`
		TotalSets        int     `json:"total_sets"`
		CurrentMinute    int     `json:"current_minute"`
		TotalMinutes     int     `json:"total_minutes"`
	} `json:"state"`
	PreviousPhase  string `json:"previous_phase"`
	CountdownValue int    `json:"countdown_value"`
}

// Watch connects to the daemon's WebSocket endpoint and streams timer
// events to the terminal until interrupted.
func Watch(baseURL string, opts WatchOptions) error {
	baseURL = strings.TrimRight(baseURL, "/")

	u, err := url.Parse(baseURL)
	if err != nil {
		return err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	u.Path = "/api/v1/session/events"
	u.RawQuery = ""

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	if !opts.JSON {
		fmt.Println()
		fmt.Printf("  %s %s\n", colorize(green, "connected"), colorize(dim, u.String()))
		fmt.Println()
	}

	filterSet := make(map[string]bool, len(opts.Filter))
	for _, f := range opts.Filter {
		filterSet[f] = true
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}

			if opts.JSON {
				if len(filterSet) > 0 {
					var ev watchEvent
					if json.Unmarshal(msg, &ev) == nil && !filterSet[ev.Type] {
						continue
					}
				}
				fmt.Println(string(msg))
				continue
			}

			var ev watchEvent
			if err := json.Unmarshal(msg, &ev); err != nil {
				continue
			}
			if len(filterSet) > 0 && !filterSet[ev.Type] {
				continue
			}
			renderEvent(ev)
		}
	}()

	// Block until interrupted or the connection drops.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sig:
	case <-done:
	}
	return nil
}

func renderEvent(ev watchEvent) {
	st := ev.State
	clock := formatSeconds(st.RemainingSeconds)

	switch ev.Type {
	case "phase_change":
		fmt.Printf("  %s %s -> %s\n",
			clock,
			colorize(dim, ev.PreviousPhase),
			colorize(phaseColor(st.Phase), st.Phase))
	case "countdown_tick":
		fmt.Printf("  %s %s\n", clock, colorize(yellow, fmt.Sprintf("beep %d", ev.CountdownValue)))
	case "minute_marker":
		fmt.Printf("  %s %s (minute %d of %d)\n",
			clock, colorize(cyan, "minute"), st.CurrentMinute, st.TotalMinutes)
	case "set_complete":
		fmt.Printf("  %s %s (set %d of %d)\n",
			clock, colorize(green, "set complete"), st.CurrentSet, st.TotalSets)
	case "work_phase_complete":
		fmt.Printf("  %s %s\n", clock, colorize(green, "work complete"))
	case "exercise_complete":
		fmt.Printf("  %s %s\n", clock, colorize(bold, "exercise complete"))
	case "tick":
		// Rewrite one line in place rather than scrolling.
		fmt.Printf("\r  %s %s ", clock, colorize(phaseColor(st.Phase), st.Phase))
	}
}
