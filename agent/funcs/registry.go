// Package funcs is the declarative catalog of callable domain actions. Every
// function carries a schema the model's arguments are validated against
// before its handler runs; handlers orchestrate collaborators and never
// touch conversation context or loop suppression.
package funcs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/homelocar/sofia/agent/contract"
	"github.com/homelocar/sofia/agent/domain"
)

type Handler func(ctx context.Context, call contractx.FunctionCall) (contractx.FunctionResult, error)

type Definition struct {
	Name          string
	Desc          string
	Params        map[string]*schema.ParameterInfo
	SideEffecting bool
	Handler       Handler
}

type Registry struct {
	defs map[string]*Definition
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

func (r *Registry) Register(d Definition) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return errors.New("function name is required")
	}
	if d.Handler == nil {
		return fmt.Errorf("function %s has no handler", name)
	}
	if _, exists := r.defs[name]; exists {
		return fmt.Errorf("function %s already registered", name)
	}
	d.Name = name
	r.defs[name] = &d
	return nil
}

func (r *Registry) Lookup(name string) (*Definition, bool) {
	d, ok := r.defs[name]
	return d, ok
}

func (r *Registry) SideEffecting(name string) bool {
	d, ok := r.defs[name]
	return ok && d.SideEffecting
}

// ToolInfos renders the catalog for model binding, sorted by name so the
// prompt surface is deterministic.
func (r *Registry) ToolInfos() []*schema.ToolInfo {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)

	infos := make([]*schema.ToolInfo, 0, len(names))
	for _, name := range names {
		d := r.defs[name]
		infos = append(infos, &schema.ToolInfo{
			Name:        d.Name,
			Desc:        d.Desc,
			ParamsOneOf: schema.NewParamsOneOfByParams(d.Params),
		})
	}
	return infos
}

// Dispatch validates and executes one call. It never returns a Go error:
// schema failures become rejected_validation with field-level errors,
// precondition failures become rejected_validation with an explanation, and
// anything else becomes failed. Partial execution cannot happen because the
// handler only runs after validation passes.
func (r *Registry) Dispatch(ctx context.Context, call contractx.FunctionCall) contractx.FunctionResult {
	d, ok := r.defs[call.Name]
	if !ok {
		return contractx.FunctionResult{
			Name:   call.Name,
			Status: contractx.StatusFailed,
			FieldErrors: []contractx.FieldError{
				{Field: "", Message: fmt.Sprintf("%s: %s", contractx.ErrUnknownFunction, call.Name)},
			},
		}
	}

	if fieldErrs := validateArgs(d.Params, call.Arguments); len(fieldErrs) > 0 {
		return contractx.FunctionResult{
			Name:        call.Name,
			Status:      contractx.StatusRejectedValidation,
			FieldErrors: fieldErrs,
		}
	}

	res, err := d.Handler(ctx, call)
	if err != nil {
		return resultFromError(call.Name, err)
	}
	if res.Name == "" {
		res.Name = call.Name
	}
	if res.Status == "" {
		res.Status = contractx.StatusExecuted
	}
	return res
}

func resultFromError(name string, err error) contractx.FunctionResult {
	status := contractx.StatusFailed
	if errors.Is(err, contractx.ErrValidation) || errors.Is(err, contractx.ErrPrecondition) {
		status = contractx.StatusRejectedValidation
	}
	return contractx.FunctionResult{
		Name:         name,
		Status:       status,
		HumanSummary: humanizeError(err),
		FieldErrors: []contractx.FieldError{
			{Field: "", Message: err.Error()},
		},
	}
}

func humanizeError(err error) string {
	switch {
	case errors.Is(err, contractx.ErrPrecondition):
		return strings.TrimPrefix(err.Error(), contractx.ErrPrecondition.Error()+": ")
	case errors.Is(err, contractx.ErrValidation):
		return strings.TrimPrefix(err.Error(), contractx.ErrValidation.Error()+": ")
	default:
		return ""
	}
}

// Deps are the outbound collaborators handlers are allowed to call.
type Deps struct {
	Catalog      domain.PropertyCatalog
	Clients      domain.ClientRepository
	Reservations domain.ReservationRepository
	Payments     domain.PaymentRepository
	Visits       domain.VisitRepository
	Media        domain.MediaSender

	Now func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// NewCatalogRegistry registers the full conversational surface.
func NewCatalogRegistry(deps Deps) (*Registry, error) {
	r := NewRegistry()
	for _, def := range []Definition{
		searchPropertiesDefinition(deps),
		getPropertyDetailsDefinition(deps),
		calculatePriceDefinition(deps),
		registerClientDefinition(deps),
		createReservationDefinition(deps),
		scheduleVisitDefinition(deps),
		cancelPaymentDefinition(deps),
		sendPropertyMediaDefinition(deps),
	} {
		if err := r.Register(def); err != nil {
			return nil, err
		}
	}
	return r, nil
}
