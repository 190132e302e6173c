package funcs

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/homelocar/sofia/agent/contract"
	"github.com/homelocar/sofia/agent/pricing"
)

const FuncCalculatePrice = "calculate_price"

// SuggestedStay is the payload of a past-date rejection: a forward-shifted
// range the reply offers instead of a dead end.
type SuggestedStay struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

func calculatePriceDefinition(deps Deps) Definition {
	return Definition{
		Name: FuncCalculatePrice,
		Desc: "Compute the total price for a stay at one property.",
		Params: map[string]*schema.ParameterInfo{
			"propertyId": {Type: schema.String, Desc: "Property id", Required: true},
			"checkIn":    {Type: schema.String, Desc: "Check-in date, YYYY-MM-DD", Required: true},
			"checkOut":   {Type: schema.String, Desc: "Check-out date, YYYY-MM-DD", Required: true},
			"guests":     {Type: schema.Integer, Desc: "Number of guests", Required: true},
		},
		SideEffecting: false,
		Handler: func(ctx context.Context, call contractx.FunctionCall) (contractx.FunctionResult, error) {
			checkIn, err := pricing.ParseDate(stringArg(call.Arguments, "checkIn"))
			if err != nil {
				return contractx.FunctionResult{}, fmt.Errorf("%w: checkIn must be YYYY-MM-DD", contractx.ErrValidation)
			}
			checkOut, err := pricing.ParseDate(stringArg(call.Arguments, "checkOut"))
			if err != nil {
				return contractx.FunctionResult{}, fmt.Errorf("%w: checkOut must be YYYY-MM-DD", contractx.ErrValidation)
			}

			now := deps.now()
			check, err := pricing.CheckStay(checkIn, checkOut, now)
			if err != nil {
				if errors.Is(err, pricing.ErrInvertedRange) {
					return contractx.FunctionResult{}, fmt.Errorf("%w: a data de saída precisa ser depois da entrada", contractx.ErrValidation)
				}
				return contractx.FunctionResult{}, fmt.Errorf("%w: %v", contractx.ErrValidation, err)
			}
			if !check.OK {
				sci := check.SuggestedCheckIn.Format(pricing.DateLayout)
				sco := check.SuggestedCheckOut.Format(pricing.DateLayout)
				return contractx.FunctionResult{
					Status:  contractx.StatusRejectedValidation,
					Payload: SuggestedStay{CheckIn: sci, CheckOut: sco},
					HumanSummary: fmt.Sprintf(
						"Essas datas já passaram. Que tal de %s a %s?", sci, sco),
				}, nil
			}

			p, err := findProperty(ctx, deps, call.TenantID, stringArg(call.Arguments, "propertyId"))
			if err != nil {
				return contractx.FunctionResult{}, err
			}

			quote, err := pricing.ComputeQuote(p, checkIn, checkOut, intArg(call.Arguments, "guests"), now)
			if err != nil {
				return contractx.FunctionResult{}, fmt.Errorf("%w: %v", contractx.ErrValidation, err)
			}

			return contractx.FunctionResult{
				Status:  contractx.StatusExecuted,
				Payload: quote,
				HumanSummary: fmt.Sprintf(
					"%s por %d noites para %d hóspedes: %s (diárias %s + limpeza %s).",
					p.Title, quote.Nights, quote.GuestCount,
					pricing.FormatBRL(quote.TotalAmountCents),
					pricing.FormatBRL(quote.BaseAmountCents),
					pricing.FormatBRL(quote.CleaningFeeCents),
				),
			}, nil
		},
	}
}
