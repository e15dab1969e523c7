package push

import (
	"context"

	pusher "github.com/pusher/pusher-http-go/v5"
	"go.uber.org/zap"
)

// Config holds the Pusher application credentials.
type Config struct {
	AppID   string
	Key     string
	Secret  string
	Cluster string
}

// Client pushes events to the Pusher relay. Delivery is best effort:
// failures are logged and swallowed, matching the Notifier contract.
type Client struct {
	pusher pusher.Client
	logger *zap.Logger
}

// NewClient creates a new Pusher client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	return &Client{
		pusher: pusher.Client{
			AppID:   cfg.AppID,
			Key:     cfg.Key,
			Secret:  cfg.Secret,
			Cluster: cfg.Cluster,
			Secure:  true,
		},
		logger: logger,
	}
}

// IsConfigured returns true if relay credentials are present
func (c *Client) IsConfigured() bool {
	return c.pusher.AppID != "" && c.pusher.Key != "" && c.pusher.Secret != ""
}

// Push triggers an event on a channel. Errors are logged, never returned.
func (c *Client) Push(ctx context.Context, channel, event string, payload interface{}) {
	if !c.IsConfigured() {
		return
	}
	if err := c.pusher.Trigger(channel, event, payload); err != nil {
		c.logger.Error("failed to push event",
			zap.String("channel", channel),
			zap.String("event", event),
			zap.Error(err),
		)
	}
}
