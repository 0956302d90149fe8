package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/branila/lzwdecode/lzw"

	"github.com/gorilla/websocket"
	"github.com/nuclio/errors"
	"github.com/nuclio/logger"
)

// Handles WebSocket communication
type WSClient struct {
	config  *StreamConfig
	conn    *websocket.Conn
	logger  logger.Logger
	decoder *lzw.Decoder
	metrics *Metrics
	output  io.Writer
	writeMu sync.Mutex

	closeOnce sync.Once
	closeErr  error
}

// Creates a new WebSocket client that writes decoded frames to output
func NewWSClient(parentLogger logger.Logger,
	config *StreamConfig,
	decoder *lzw.Decoder,
	metrics *Metrics,
	output io.Writer) *WSClient {
	return &WSClient{
		config:  config,
		logger:  parentLogger.GetChild("wsclient"),
		decoder: decoder,
		metrics: metrics,
		output:  output,
	}
}

// Establishes a WebSocket connection
func (ws *WSClient) Connect(ctx context.Context) error {
	ws.logger.InfoWith("Connecting", "url", ws.config.URL)

	dialer := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: ws.config.HandshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, ws.config.URL, nil)
	if err != nil {
		return errors.Wrap(err, "Failed to connect to WebSocket")
	}

	ws.conn = conn
	ws.logger.InfoWith("Connection established", "url", ws.config.URL)

	return nil
}

// Closes the WebSocket connection. Only the first call sends the close
// message; later calls return its result.
func (ws *WSClient) Close() error {
	if ws.conn == nil {
		return nil
	}

	ws.closeOnce.Do(func() {
		// Send close message
		ws.writeMu.Lock()
		err := ws.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(ws.config.WriteTimeout),
		)
		ws.writeMu.Unlock()
		if err != nil {
			ws.logger.DebugWith("Failed to send close message", "err", err.Error())
		}

		ws.closeErr = ws.conn.Close()
	})

	return ws.closeErr
}

// Sends a text message to the WebSocket
func (ws *WSClient) SendMessage(message []byte) error {
	if ws.conn == nil {
		return errors.New("Connection not established")
	}

	ws.writeMu.Lock()
	defer ws.writeMu.Unlock()

	ws.conn.SetWriteDeadline(time.Now().Add(ws.config.WriteTimeout)) // nolint: errcheck
	if err := ws.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		return errors.Wrap(err, "Failed to send message")
	}

	ws.logger.DebugWith("Message sent", "size", len(message))
	return nil
}

// Reads messages until the context is done or the server closes the connection.
// Every message is an independent LZW stream.
func (ws *WSClient) ReadMessages(ctx context.Context) error {
	if ws.conn == nil {
		return errors.New("Connection not established")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if ws.config.ReadTimeout > 0 {
				ws.conn.SetReadDeadline(time.Now().Add(ws.config.ReadTimeout)) // nolint: errcheck
			}

			// Wait for a message from the WebSocket
			messageType, message, err := ws.conn.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return nil
				}

				return errors.Wrap(err, "Failed to read message")
			}

			if messageType != websocket.BinaryMessage && messageType != websocket.TextMessage {
				continue
			}

			if err := ws.processMessage(message); err != nil {
				ws.logger.WarnWith("Failed to process message", "size", len(message), "err", err.Error())
				continue
			}
		}
	}
}

// Decodes a received message and writes it out
func (ws *WSClient) processMessage(message []byte) error {
	var decoded bytes.Buffer

	stats, err := ws.decoder.DecodeTo(bytes.NewReader(message), &decoded)
	if ws.metrics != nil {
		ws.metrics.Observe(stats, err)
	}
	if err != nil {
		return err
	}

	return DisplayFrame(ws.output, decoded.Bytes(), ws.config.Format)
}
