package github

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL         = "https://api.github.com"
	userAgent      = "spigell/resume-scorer"
	requestTimeout = 10 * time.Second
)

// Client is a read-only GitHub REST client. The token is fixed at
// construction; an empty token sends unauthenticated requests.
type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(logger *zap.Logger, token string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		token:  strings.TrimSpace(token),
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: requestTimeout,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}
