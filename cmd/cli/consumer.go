package main

import (
	"fmt"
	"io"
	"time"

	"savekeeper/internal/core/ports"
)

// timestamp returns current time in HH:MM:SS format
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// consumeEvents prints pipeline progress to w until events is closed
func consumeEvents(events <-chan ports.Event, w io.Writer) {
	for evt := range events {
		switch e := evt.(type) {
		case ports.StartEvent:
			fmt.Fprintf(w, "[%s] [%s] Starting...\n", timestamp(), e.Operation)
		case ports.UpdateEvent:
			if e.Data != nil {
				fmt.Fprintf(w, "[%s] [%s] %s %v\n", timestamp(), e.Operation, e.Message, e.Data)
			} else {
				fmt.Fprintf(w, "[%s] [%s] %s\n", timestamp(), e.Operation, e.Message)
			}
		case ports.FinishEvent:
			fmt.Fprintf(w, "[%s] [%s] Completed\n", timestamp(), e.Operation)
		case ports.ErrorEvent:
			fmt.Fprintf(w, "[%s] [%s] ERROR: %v\n", timestamp(), e.Operation, e.Err)
		}
	}
}
