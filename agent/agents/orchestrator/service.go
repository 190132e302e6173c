// Package orchestrator runs the per-message turn pipeline: validate, load
// context, classify, propose, guard, dispatch, reply, persist. A turn either
// commits its context as a unit or leaves the stored conversation untouched.
package orchestrator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	contractx "github.com/homelocar/sofia/agent/contract"
	"github.com/homelocar/sofia/agent/funcs"
	guardx "github.com/homelocar/sofia/agent/guard"
	turnnode "github.com/homelocar/sofia/agent/nodes"
	statex "github.com/homelocar/sofia/agent/state"
	"github.com/homelocar/sofia/pkg/metrics"
)

var (
	ErrInvalidTenant = turnnode.ErrInvalidTenant
	ErrInvalidPhone  = turnnode.ErrInvalidPhone
)

type Config struct {
	TurnTimeout    time.Duration `split_words:"true" default:"30s"`
	ContextTTL     time.Duration `envconfig:"CONTEXT_TTL" default:"24h"`
	MaxTurns       int           `split_words:"true" default:"20"`
	MaxRecentCalls int           `split_words:"true" default:"10"`
	FallbackReply  string        `split_words:"true"`
}

// TurnResult is what the inbound channel sends back to the customer.
type TurnResult struct {
	RequestID         string                       `json:"request_id"`
	Reply             string                       `json:"reply"`
	FunctionsExecuted []string                     `json:"functions_executed,omitempty"`
	Classification    contractx.LeadClassification `json:"classification"`
	ProcessingTimeMs  int64                        `json:"processing_time_ms"`
}

type Orchestrator struct {
	store    statex.Store
	registry *funcs.Registry
	proposer contractx.Proposer
	guard    *guardx.Guard
	notifier contractx.Notifier

	graphRunner compose.Runnable[turnnode.TurnInput, turnnode.TurnOutput]
	locks       *keyedLocks

	turnTimeout    time.Duration
	contextTTL     time.Duration
	maxTurns       int
	maxRecentCalls int
	fallbackReply  string

	now func() time.Time
}

func New(
	store statex.Store,
	registry *funcs.Registry,
	proposer contractx.Proposer,
	guard *guardx.Guard,
	notifier contractx.Notifier,
	cfg Config,
) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("context store is required")
	}
	if registry == nil {
		return nil, errors.New("function registry is required")
	}
	if proposer == nil {
		return nil, errors.New("proposer is required")
	}
	if guard == nil {
		guard = guardx.New(guardx.Config{})
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}

	if cfg.TurnTimeout <= 0 {
		cfg.TurnTimeout = 30 * time.Second
	}
	if cfg.ContextTTL <= 0 {
		cfg.ContextTTL = statex.DefaultTTL
	}
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = statex.DefaultMaxTurns
	}
	if cfg.MaxRecentCalls <= 0 {
		cfg.MaxRecentCalls = statex.DefaultMaxRecentCalls
	}
	fallback := strings.TrimSpace(cfg.FallbackReply)
	if fallback == "" {
		fallback = "Desculpe, tive um problema aqui. Pode repetir, por favor?"
	}

	o := &Orchestrator{
		store:          store,
		registry:       registry,
		proposer:       proposer,
		guard:          guard,
		notifier:       notifier,
		locks:          newKeyedLocks(),
		turnTimeout:    cfg.TurnTimeout,
		contextTTL:     cfg.ContextTTL,
		maxTurns:       cfg.MaxTurns,
		maxRecentCalls: cfg.MaxRecentCalls,
		fallbackReply:  fallback,
		now:            time.Now,
	}

	graphRunner, err := o.compileHandleTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// HandleMessage processes one inbound customer message and always produces a
// reply. Pipeline failures degrade to the fallback text; only an invalid
// conversation key is surfaced as an error, since there is no one to answer.
func (o *Orchestrator) HandleMessage(ctx context.Context, tenantID, phone, text string, metadata map[string]string) (TurnResult, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return TurnResult{}, ErrInvalidTenant
	}
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return TurnResult{}, ErrInvalidPhone
	}

	key := statex.ContextKey(tenantID, phone)
	o.locks.lock(key)
	defer o.locks.unlock(key)

	ctx, cancel := context.WithTimeout(ctx, o.turnTimeout)
	defer cancel()

	started := o.now()
	out, err := o.graphRunner.Invoke(ctx, turnnode.TurnInput{
		TenantID: tenantID,
		Phone:    phone,
		Text:     text,
		Metadata: metadata,
	})
	elapsed := o.now().Sub(started)
	metrics.TurnDuration.Observe(elapsed.Seconds())

	if err != nil {
		metrics.TurnsTotal.WithLabelValues(tenantID, "fallback").Inc()
		log.Error().
			Err(err).
			Str("tenant_id", tenantID).
			Str("phone", redactPhone(phone)).
			Dur("elapsed", elapsed).
			Msg("turn failed, replying with fallback")
		return TurnResult{
			Reply:            o.fallbackReply,
			ProcessingTimeMs: elapsed.Milliseconds(),
		}, nil
	}

	metrics.TurnsTotal.WithLabelValues(tenantID, "ok").Inc()
	if out.Classification.Temperature == contractx.TemperatureHot {
		metrics.HotLeadsTotal.WithLabelValues(tenantID).Inc()
		o.notifyHotLead(ctx, tenantID, phone, out.Classification)
	}

	log.Info().
		Str("request_id", out.RequestID).
		Str("tenant_id", tenantID).
		Str("phone", redactPhone(phone)).
		Str("temperature", string(out.Classification.Temperature)).
		Strs("functions_attempted", out.FunctionsAttempted).
		Strs("functions_executed", out.FunctionsExecuted).
		Strs("functions_suppressed", out.FunctionsSuppressed).
		Dur("elapsed", elapsed).
		Msg("turn completed")

	return TurnResult{
		RequestID:         out.RequestID,
		Reply:             out.Reply,
		FunctionsExecuted: out.FunctionsExecuted,
		Classification:    out.Classification,
		ProcessingTimeMs:  elapsed.Milliseconds(),
	}, nil
}

// ClearContext drops the stored conversation for one customer.
func (o *Orchestrator) ClearContext(ctx context.Context, tenantID, phone string) error {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return ErrInvalidTenant
	}
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ErrInvalidPhone
	}

	key := statex.ContextKey(tenantID, phone)
	o.locks.lock(key)
	defer o.locks.unlock(key)

	return o.store.Clear(ctx, tenantID, phone)
}

// notifyHotLead is best effort: a CRM outage never blocks the customer reply.
func (o *Orchestrator) notifyHotLead(ctx context.Context, tenantID, phone string, cls contractx.LeadClassification) {
	if err := o.notifier.NotifyHotLead(ctx, tenantID, phone, cls); err != nil {
		log.Warn().
			Err(err).
			Str("tenant_id", tenantID).
			Str("phone", redactPhone(phone)).
			Msg("hot lead notification failed")
	}
}

// redactPhone keeps only the last four digits for log output.
func redactPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}

type noopNotifier struct{}

func (noopNotifier) NotifyHotLead(context.Context, string, string, contractx.LeadClassification) error {
	return nil
}
