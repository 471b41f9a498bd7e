package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/fdmysterious/dstdsv/dstdsv"
	"go.uber.org/zap"
)

// SSEHandler implements dstdsv.ReadingHandler and provides HTTP SSE streaming
type SSEHandler struct {
	clients map[chan string]bool
	mu      sync.RWMutex
	logger  *zap.SugaredLogger
}

// NewSSEHandler creates a new SSE handler
func NewSSEHandler(logger *zap.SugaredLogger) *SSEHandler {
	return &SSEHandler{
		clients: make(map[chan string]bool),
		logger:  logger,
	}
}

// HandleReading implements dstdsv.ReadingHandler
func (h *SSEHandler) HandleReading(r dstdsv.Reading) {
	// Marshal reading to JSON
	data, err := json.Marshal(r)
	if err != nil {
		h.logger.Errorf("Failed to marshal reading: %s", err)
		return
	}

	h.logger.Debugf("SSE: %s", r.Measure)

	// Broadcast to all connected clients
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client <- string(data):
		default:
			// Client buffer full, skip
			h.logger.Warnf("Client buffer full, dropping reading")
		}
	}
}

// HandleHTTP handles HTTP SSE connections
func (h *SSEHandler) HandleHTTP(w http.ResponseWriter, r *http.Request) {
	// Check connection supports streaming
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Connection does not support streaming", http.StatusBadRequest)
		return
	}

	// Create channel for this client
	clientChan := make(chan string, 100)

	h.mu.Lock()
	h.clients[clientChan] = true
	clientCount := len(h.clients)
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, clientChan)
		h.mu.Unlock()
		close(clientChan)
	}()

	// Set SSE headers
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	h.logger.Infof("SSE client connected from %s (total: %d)", r.RemoteAddr, clientCount)

	// Stream readings
	for {
		select {
		case <-r.Context().Done():
			h.logger.Infof("SSE client disconnected: %s", r.RemoteAddr)
			return

		case data := <-clientChan:
			fmt.Fprintf(w, "event: reading\n")
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}
