package funcs

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	contractx "github.com/homelocar/sofia/agent/contract"
	"github.com/homelocar/sofia/agent/domain"
	"github.com/homelocar/sofia/agent/pricing"
)

const FuncScheduleVisit = "schedule_visit"

var visitTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

func scheduleVisitDefinition(deps Deps) Definition {
	return Definition{
		Name: FuncScheduleVisit,
		Desc: "Schedule an in-person visit to a property.",
		Params: map[string]*schema.ParameterInfo{
			"propertyId": {Type: schema.String, Desc: "Property id", Required: true},
			"date":       {Type: schema.String, Desc: "Visit date, YYYY-MM-DD", Required: true},
			"time":       {Type: schema.String, Desc: "Visit time, HH:MM", Required: true},
		},
		SideEffecting: true,
		Handler: func(ctx context.Context, call contractx.FunctionCall) (contractx.FunctionResult, error) {
			date, err := pricing.ParseDate(stringArg(call.Arguments, "date"))
			if err != nil {
				return contractx.FunctionResult{}, fmt.Errorf("%w: date must be YYYY-MM-DD", contractx.ErrValidation)
			}
			if date.Before(deps.now().UTC().Truncate(24 * time.Hour)) {
				return contractx.FunctionResult{}, fmt.Errorf("%w: a visita precisa ser em uma data futura", contractx.ErrValidation)
			}

			visitTime := stringArg(call.Arguments, "time")
			if !visitTimePattern.MatchString(visitTime) {
				return contractx.FunctionResult{}, fmt.Errorf("%w: time must be HH:MM", contractx.ErrValidation)
			}

			p, err := findProperty(ctx, deps, call.TenantID, stringArg(call.Arguments, "propertyId"))
			if err != nil {
				return contractx.FunctionResult{}, err
			}

			v := &domain.Visit{
				ID:         uuid.NewString(),
				TenantID:   call.TenantID,
				PropertyID: p.ID,
				Date:       date,
				Time:       visitTime,
				CreatedAt:  deps.now().UTC(),
			}
			if err := deps.Visits.Create(ctx, v); err != nil {
				return contractx.FunctionResult{}, fmt.Errorf("%w: create visit: %v", contractx.ErrTransient, err)
			}

			return contractx.FunctionResult{
				Status:  contractx.StatusExecuted,
				Payload: v,
				HumanSummary: fmt.Sprintf(
					"Visita agendada em %s para %s às %s.",
					p.Title, date.Format(pricing.DateLayout), visitTime),
			}, nil
		},
	}
}
