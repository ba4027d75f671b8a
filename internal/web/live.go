// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10
)

// LiveScanRequest is one editor update sent over /ws/scan. ID is echoed
// back so the editor can drop results for content it has since replaced.
type LiveScanRequest struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
}

// LiveScanResponse answers one LiveScanRequest
type LiveScanResponse struct {
	ID int64 `json:"id"`
	ScanResponse
}

func (s *Server) upgrader() *websocket.Upgrader {
	allowed := s.active().server.AllowedOrigins
	return &websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			// Non-browser clients send no Origin
			return origin == "" || originAllowed(allowed, origin)
		},
	}
}

// handleLiveScan scans every document the editor sends and answers with
// its report. Reads and scans happen on one goroutine; all writes,
// including pings, happen on the handler goroutine.
func (s *Server) handleLiveScan(w http.ResponseWriter, r *http.Request) {
	log := s.requestLogger(r)

	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the client
		log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if limit := s.active().server.MaxBodyBytes; limit > 0 {
		conn.SetReadLimit(limit)
	}
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	results := make(chan LiveScanResponse, 16)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(results)
		for {
			var req LiveScanRequest
			if err := conn.ReadJSON(&req); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn("live scan connection closed", zap.Error(err))
				}
				return
			}
			if !s.limiter.allow(clientIP(r)) {
				continue
			}
			report, failed := scan(log, s.active().engine, req.Content)
			select {
			case results <- LiveScanResponse{ID: req.ID, ScanResponse: scanResponse(report, failed)}:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case res, ok := <-results:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(res); err != nil {
				log.Warn("live scan write failed", zap.Error(err))
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
