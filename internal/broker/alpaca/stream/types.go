package stream

import (
	"alertbot/internal/broker"
	"alertbot/internal/logger"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type Client struct {
	url          string
	apiKey       string
	secret       string
	log          *logger.Logger
	conn         *websocket.Conn
	events       chan broker.Event
	stopCh       chan struct{}
	stopOnce     sync.Once
	reconnectMin time.Duration
	reconnectMax time.Duration
}

type Message struct {
	Stream string          `json:"stream"`
	Data   json.RawMessage `json:"data"`
}

type AuthMessage struct {
	Action string `json:"action"`
	Key    string `json:"key"`
	Secret string `json:"secret"`
}

type ListenMessage struct {
	Action string     `json:"action"`
	Data   ListenData `json:"data"`
}

type ListenData struct {
	Streams []string `json:"streams"`
}
