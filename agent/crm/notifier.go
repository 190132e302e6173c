// Package crm pushes lead events to the tenant's CRM pipeline.
package crm

import (
	"context"
	"fmt"
	"time"

	contractx "github.com/homelocar/sofia/agent/contract"
	qstashx "github.com/homelocar/sofia/pkg/qstash"
)

type Config struct {
	HotLeadDestination string `envconfig:"HOT_LEAD_DESTINATION" split_words:"true"`
}

// Notifier publishes hot-lead events through QStash so a slow or offline CRM
// never delays the conversation.
type Notifier struct {
	client      *qstashx.Client
	destination string
	now         func() time.Time
}

var _ contractx.Notifier = (*Notifier)(nil)

func NewNotifier(client *qstashx.Client, cfg Config) (*Notifier, error) {
	if client == nil {
		return nil, fmt.Errorf("qstash client is required")
	}
	if cfg.HotLeadDestination == "" {
		return nil, fmt.Errorf("hot lead destination is required")
	}
	return &Notifier{
		client:      client,
		destination: cfg.HotLeadDestination,
		now:         time.Now,
	}, nil
}

type hotLeadEvent struct {
	TenantID    string   `json:"tenant_id"`
	Phone       string   `json:"phone"`
	Temperature string   `json:"temperature"`
	Signals     []string `json:"signals,omitempty"`
	DetectedAt  string   `json:"detected_at"`
}

func (n *Notifier) NotifyHotLead(ctx context.Context, tenantID, phone string, c contractx.LeadClassification) error {
	event := hotLeadEvent{
		TenantID:    tenantID,
		Phone:       phone,
		Temperature: string(c.Temperature),
		Signals:     c.Signals,
		DetectedAt:  n.now().UTC().Format(time.RFC3339),
	}
	if err := n.client.PublishJSON(ctx, n.destination, event); err != nil {
		return fmt.Errorf("notify hot lead: %w", err)
	}
	return nil
}
