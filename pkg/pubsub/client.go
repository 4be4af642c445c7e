package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/lucaspaiva/bazario-backend/pkg/config"
	"github.com/lucaspaiva/bazario-backend/pkg/logger"
)

var errProjectIDRequired = errors.New("gcp project id is required")

// Client publishes push-notification payloads to the configured topic. The
// push-token worker that fans messages out to devices consumes the topic out
// of process.
type Client struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	topic     string
}

// NewClient creates a Pub/Sub v2 client bound to the push topic.
func NewClient(ctx context.Context, gcp config.GCPConfig, cfg config.PubSubConfig, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(gcp.ProjectID) == "" {
		return nil, errProjectIDRequired
	}
	topic := strings.TrimSpace(cfg.PushTopic)
	if topic == "" {
		return nil, errors.New("pubsub push topic is required")
	}

	psClient, err := pubsub.NewClient(ctx, gcp.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	c := &Client{
		client:    psClient,
		publisher: psClient.Publisher(topic),
		topic:     topic,
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "topic", topic), "pubsub client initialized")
	}

	return c, nil
}

// Publish sends the payload as JSON with the given attributes and waits for
// the server acknowledgement.
func (c *Client) Publish(ctx context.Context, payload any, attrs map[string]string) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode pubsub payload: %w", err)
	}

	result := c.publisher.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: attrs,
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publish to %s: %w", c.topic, err)
	}
	return nil
}

// Close flushes pending publishes and releases the underlying client.
func (c *Client) Close() error {
	if c.publisher != nil {
		c.publisher.Stop()
	}
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
