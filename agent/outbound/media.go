// Package outbound delivers messages back to the customer's channel.
package outbound

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/homelocar/sofia/agent/domain"
	qstashx "github.com/homelocar/sofia/pkg/qstash"
)

// MediaPublisher hands media sends to the channel worker through QStash.
// The worker owns retries and WhatsApp rate limits.
type MediaPublisher struct {
	client      *qstashx.Client
	destination string
}

var _ domain.MediaSender = (*MediaPublisher)(nil)

func NewMediaPublisher(client *qstashx.Client, destination string) (*MediaPublisher, error) {
	if client == nil {
		return nil, fmt.Errorf("qstash client is required")
	}
	if destination == "" {
		return nil, fmt.Errorf("media destination is required")
	}
	return &MediaPublisher{client: client, destination: destination}, nil
}

type mediaMessage struct {
	TenantID string   `json:"tenant_id"`
	Phone    string   `json:"phone"`
	URLs     []string `json:"urls"`
}

func (p *MediaPublisher) Send(ctx context.Context, tenantID, phone string, urls []string) error {
	msg := mediaMessage{TenantID: tenantID, Phone: phone, URLs: urls}
	if err := p.client.PublishJSON(ctx, p.destination, msg); err != nil {
		return fmt.Errorf("publish media send: %w", err)
	}
	return nil
}

// LogSender is the no-channel fallback for local runs.
type LogSender struct{}

var _ domain.MediaSender = LogSender{}

func (LogSender) Send(_ context.Context, tenantID, phone string, urls []string) error {
	log.Info().
		Str("tenant_id", tenantID).
		Str("phone", phone).
		Strs("urls", urls).
		Msg("media send (no outbound channel configured)")
	return nil
}
