package funcs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/homelocar/sofia/agent/contract"
	"github.com/homelocar/sofia/agent/domain"
	"github.com/homelocar/sofia/agent/pricing"
)

const FuncGetPropertyDetails = "get_property_details"

func getPropertyDetailsDefinition(deps Deps) Definition {
	return Definition{
		Name: FuncGetPropertyDetails,
		Desc: "Fetch full details of one property by id.",
		Params: map[string]*schema.ParameterInfo{
			"propertyId": {Type: schema.String, Desc: "Property id", Required: true},
		},
		SideEffecting: false,
		Handler: func(ctx context.Context, call contractx.FunctionCall) (contractx.FunctionResult, error) {
			id := stringArg(call.Arguments, "propertyId")

			p, err := findProperty(ctx, deps, call.TenantID, id)
			if err != nil {
				return contractx.FunctionResult{}, err
			}

			summary := fmt.Sprintf(
				"%s (%s): até %d hóspedes, mínimo de %d noites, %s/noite + %s de limpeza.",
				p.Title, p.City, p.MaxGuests, p.MinimumNights,
				pricing.FormatBRL(p.NightlyRateCents), pricing.FormatBRL(p.CleaningFeeCents),
			)
			if len(p.Amenities) > 0 {
				summary += " Comodidades: " + strings.Join(p.Amenities, ", ") + "."
			}

			return contractx.FunctionResult{
				Status:       contractx.StatusExecuted,
				Payload:      p,
				HumanSummary: summary,
			}, nil
		},
	}
}

// findProperty maps catalog errors into the agent taxonomy.
func findProperty(ctx context.Context, deps Deps, tenantID, propertyID string) (*domain.Property, error) {
	p, err := deps.Catalog.Get(ctx, tenantID, propertyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: property %s not found", contractx.ErrValidation, propertyID)
		}
		return nil, fmt.Errorf("%w: property lookup: %v", contractx.ErrTransient, err)
	}
	return p, nil
}
