package funcs

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/homelocar/sofia/agent/contract"
	"github.com/homelocar/sofia/agent/domain"
	"github.com/homelocar/sofia/agent/pricing"
	statex "github.com/homelocar/sofia/agent/state"
)

const FuncSearchProperties = "search_properties"

// SearchOutput is the payload of search_properties; the orchestrator folds
// Candidates into context for later pronoun resolution.
type SearchOutput struct {
	Candidates []statex.PropertySummary `json:"candidates"`
}

func searchPropertiesDefinition(deps Deps) Definition {
	return Definition{
		Name: FuncSearchProperties,
		Desc: "Search available rental properties by city, guest count, and amenities.",
		Params: map[string]*schema.ParameterInfo{
			"city": {Type: schema.String, Desc: "City to search in", Required: true},
			"guests": {Type: schema.Integer, Desc: "Number of guests"},
			"amenities": {
				Type:     schema.Array,
				Desc:     "Required amenities, e.g. pool, wifi",
				ElemInfo: &schema.ParameterInfo{Type: schema.String},
			},
		},
		SideEffecting: false,
		Handler: func(ctx context.Context, call contractx.FunctionCall) (contractx.FunctionResult, error) {
			filter := domain.PropertyFilter{
				City:      stringArg(call.Arguments, "city"),
				Guests:    intArg(call.Arguments, "guests"),
				Amenities: stringSliceArg(call.Arguments, "amenities"),
			}

			props, err := deps.Catalog.Search(ctx, call.TenantID, filter)
			if err != nil {
				return contractx.FunctionResult{}, fmt.Errorf("%w: property search: %v", contractx.ErrTransient, err)
			}

			candidates := make([]statex.PropertySummary, 0, len(props))
			for _, p := range props {
				candidates = append(candidates, statex.PropertySummary{
					ID:               p.ID,
					Title:            p.Title,
					City:             p.City,
					MaxGuests:        p.MaxGuests,
					NightlyRateCents: p.NightlyRateCents,
				})
			}

			summary := fmt.Sprintf("Encontrei %d imóveis em %s.", len(candidates), filter.City)
			if len(candidates) == 0 {
				summary = fmt.Sprintf("Não encontrei imóveis em %s com esses critérios.", filter.City)
			} else {
				for i, c := range candidates {
					summary += fmt.Sprintf("\n%d. %s — até %d hóspedes, %s/noite",
						i+1, c.Title, c.MaxGuests, pricing.FormatBRL(c.NightlyRateCents))
				}
			}

			return contractx.FunctionResult{
				Status:       contractx.StatusExecuted,
				Payload:      SearchOutput{Candidates: candidates},
				HumanSummary: summary,
			}, nil
		},
	}
}
