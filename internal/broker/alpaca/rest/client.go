package rest

import (
	"alertbot/internal/logger"
	"net/http"
	"time"
)

type Client struct {
	baseURL    string
	apiKey     string
	secret     string
	paper      bool
	httpClient *http.Client
	log        *logger.Logger
}

func New(baseURL, apiKey, secret string, paper bool, log *logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		secret:  secret,
		paper:   paper,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log,
	}
}
