package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/branila/lzwdecode/internal/lzwtest"
	"github.com/branila/lzwdecode/lzw"

	"github.com/gorilla/websocket"
	"github.com/nuclio/logger"
	nucliozap "github.com/nuclio/zap"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
)

type frameServer struct {
	server       *httptest.Server
	frames       [][]byte
	initMessages chan string
}

// Accepts one connection, reads the init message, sends every frame and
// closes the stream normally
func newFrameServer(frames [][]byte) *frameServer {
	fs := &frameServer{
		frames:       frames,
		initMessages: make(chan string, 1),
	}

	upgrader := websocket.Upgrader{}
	fs.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_, initMessage, err := conn.ReadMessage()
		if err != nil {
			return
		}
		fs.initMessages <- string(initMessage)

		for _, frame := range fs.frames {
			if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				return
			}
		}

		conn.WriteMessage(websocket.CloseMessage, // nolint: errcheck
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))

		// wait for the client to answer the close
		conn.ReadMessage() // nolint: errcheck
	}))

	return fs
}

func (fs *frameServer) URL() string {
	return "ws" + strings.TrimPrefix(fs.server.URL, "http")
}

type WSClientTestSuite struct {
	suite.Suite
	logger logger.Logger
	config *Config
}

func (suite *WSClientTestSuite) SetupTest() {
	var err error

	suite.logger, err = nucliozap.NewNuclioZapTest("test")
	suite.Require().NoError(err)

	suite.config = DefaultConfig()
	suite.config.Stream.InitMessage = `{"a":111}`
}

func (suite *WSClientTestSuite) TestReadMessagesJSON() {
	fs := newFrameServer([][]byte{
		lzwtest.Encode([]byte(`{"id":1}`)),
		{0xff, 0xff},
		lzwtest.Encode([]byte(`{"id":2}`)),
	})
	defer fs.server.Close()

	suite.config.Stream.URL = fs.URL()
	suite.config.Stream.Format = FormatJSON

	var output bytes.Buffer
	metrics := NewMetrics()
	client := NewWSClient(suite.logger, &suite.config.Stream, lzw.NewDecoder(), metrics, &output)

	suite.Require().NoError(client.Connect(context.Background()))
	defer client.Close() // nolint: errcheck

	suite.Require().NoError(client.SendMessage([]byte(suite.config.Stream.InitMessage)))
	suite.Require().NoError(client.ReadMessages(context.Background()))

	suite.Require().Equal(`{"a":111}`, <-fs.initMessages)
	suite.Require().Equal("{\n  \"id\": 1\n}\n{\n  \"id\": 2\n}\n", output.String())

	// the undecodable frame is skipped, not fatal
	suite.Require().Equal(2.0, testutil.ToFloat64(metrics.sessions.WithLabelValues("ok")))
	suite.Require().Equal(1.0, testutil.ToFloat64(metrics.sessions.WithLabelValues("invalid_first_code")))
}

func (suite *WSClientTestSuite) TestReadMessagesRaw() {
	fs := newFrameServer([][]byte{
		lzwtest.Encode([]byte("hello ")),
		lzwtest.Encode([]byte("world")),
	})
	defer fs.server.Close()

	suite.config.Stream.URL = fs.URL()

	var output bytes.Buffer
	client := NewWSClient(suite.logger, &suite.config.Stream, lzw.NewDecoder(), nil, &output)

	suite.Require().NoError(client.Connect(context.Background()))
	defer client.Close() // nolint: errcheck

	suite.Require().NoError(client.SendMessage([]byte("start")))
	suite.Require().NoError(client.ReadMessages(context.Background()))
	suite.Require().Equal("hello world", output.String())
}

func (suite *WSClientTestSuite) TestNotConnected() {
	client := NewWSClient(suite.logger, &suite.config.Stream, lzw.NewDecoder(), nil, &bytes.Buffer{})

	suite.Require().Error(client.SendMessage([]byte("x")))
	suite.Require().Error(client.ReadMessages(context.Background()))
	suite.Require().NoError(client.Close())
}

func (suite *WSClientTestSuite) TestCloseTwice() {
	fs := newFrameServer(nil)
	defer fs.server.Close()

	suite.config.Stream.URL = fs.URL()
	client := NewWSClient(suite.logger, &suite.config.Stream, lzw.NewDecoder(), nil, &bytes.Buffer{})

	suite.Require().NoError(client.Connect(context.Background()))
	suite.Require().NoError(client.Close())

	// the interrupt path closes once more before the deferred close runs
	suite.Require().NoError(client.Close())
	suite.Require().Error(client.SendMessage([]byte("after close")))
}

func (suite *WSClientTestSuite) TestConnectFailure() {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	suite.config.Stream.URL = "ws" + strings.TrimPrefix(server.URL, "http")
	client := NewWSClient(suite.logger, &suite.config.Stream, lzw.NewDecoder(), nil, &bytes.Buffer{})

	suite.Require().Error(client.Connect(context.Background()))
}

func (suite *WSClientTestSuite) TestClientRun() {
	fs := newFrameServer([][]byte{
		lzwtest.Encode([]byte("TOBEORNOTTOBEORTOBEORNOT#")),
	})
	defer fs.server.Close()

	suite.config.Stream.URL = fs.URL()

	var output, console bytes.Buffer
	client := NewClient(suite.logger, suite.config, &output, &console)

	suite.Require().NoError(client.Run())
	suite.Require().Equal(`{"a":111}`, <-fs.initMessages)
	suite.Require().Equal("TOBEORNOTTOBEORTOBEORNOT#", output.String())
	suite.Require().Contains(console.String(), fs.URL())
}

func TestWSClientTestSuite(t *testing.T) {
	suite.Run(t, new(WSClientTestSuite))
}
