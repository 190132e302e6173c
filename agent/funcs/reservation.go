package funcs

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	contractx "github.com/homelocar/sofia/agent/contract"
	"github.com/homelocar/sofia/agent/domain"
	"github.com/homelocar/sofia/agent/pricing"
)

const FuncCreateReservation = "create_reservation"

func createReservationDefinition(deps Deps) Definition {
	return Definition{
		Name: FuncCreateReservation,
		Desc: "Create a reservation for a registered client at one property.",
		Params: map[string]*schema.ParameterInfo{
			"propertyId": {Type: schema.String, Desc: "Property id", Required: true},
			"checkIn":    {Type: schema.String, Desc: "Check-in date, YYYY-MM-DD", Required: true},
			"checkOut":   {Type: schema.String, Desc: "Check-out date, YYYY-MM-DD", Required: true},
			"clientId":   {Type: schema.String, Desc: "Registered client id", Required: true},
			"guests":     {Type: schema.Integer, Desc: "Number of guests"},
		},
		SideEffecting: true,
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
				return contractx.FunctionResult{}, fmt.Errorf("%w: a data de saída precisa ser depois da entrada", contractx.ErrValidation)
			}
			if !check.OK {
				return contractx.FunctionResult{}, fmt.Errorf("%w: não é possível reservar datas no passado", contractx.ErrValidation)
			}

			clientID := stringArg(call.Arguments, "clientId")
			if _, err := deps.Clients.Get(ctx, call.TenantID, clientID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return contractx.FunctionResult{}, fmt.Errorf("%w: cliente %s não cadastrado", contractx.ErrValidation, clientID)
				}
				return contractx.FunctionResult{}, fmt.Errorf("%w: client lookup: %v", contractx.ErrTransient, err)
			}

			p, err := findProperty(ctx, deps, call.TenantID, stringArg(call.Arguments, "propertyId"))
			if err != nil {
				return contractx.FunctionResult{}, err
			}

			guests := intArg(call.Arguments, "guests")
			if guests <= 0 {
				guests = 1
			}

			// Recomputing the quote keeps the total deterministic even when
			// the pending quote was superseded between turns.
			quote, err := pricing.ComputeQuote(p, checkIn, checkOut, guests, now)
			if err != nil {
				return contractx.FunctionResult{}, fmt.Errorf("%w: %v", contractx.ErrValidation, err)
			}

			res := &domain.Reservation{
				ID:         uuid.NewString(),
				TenantID:   call.TenantID,
				PropertyID: p.ID,
				ClientID:   clientID,
				CheckIn:    quote.CheckIn,
				CheckOut:   quote.CheckOut,
				Guests:     guests,
				TotalCents: quote.TotalAmountCents,
				CreatedAt:  now.UTC(),
			}
			if err := deps.Reservations.Create(ctx, res); err != nil {
				return contractx.FunctionResult{}, fmt.Errorf("%w: create reservation: %v", contractx.ErrTransient, err)
			}

			return contractx.FunctionResult{
				Status:  contractx.StatusExecuted,
				Payload: res,
				HumanSummary: fmt.Sprintf(
					"Reserva confirmada em %s, de %s a %s, total %s.",
					p.Title,
					quote.CheckIn.Format(pricing.DateLayout),
					quote.CheckOut.Format(pricing.DateLayout),
					pricing.FormatBRL(res.TotalCents),
				),
			}, nil
		},
	}
}
