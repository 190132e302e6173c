package funcs

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/homelocar/sofia/agent/contract"
)

const FuncSendPropertyMedia = "send_property_media"

func sendPropertyMediaDefinition(deps Deps) Definition {
	return Definition{
		Name: FuncSendPropertyMedia,
		Desc: "Send the property's photos and videos to the customer on the messaging channel.",
		Params: map[string]*schema.ParameterInfo{
			"propertyId": {Type: schema.String, Desc: "Property id", Required: true},
		},
		SideEffecting: true,
		Handler: func(ctx context.Context, call contractx.FunctionCall) (contractx.FunctionResult, error) {
			p, err := findProperty(ctx, deps, call.TenantID, stringArg(call.Arguments, "propertyId"))
			if err != nil {
				return contractx.FunctionResult{}, err
			}
			if len(p.MediaURLs) == 0 {
				return contractx.FunctionResult{}, fmt.Errorf("%w: o imóvel %s não tem fotos cadastradas", contractx.ErrValidation, p.ID)
			}

			if err := deps.Media.Send(ctx, call.TenantID, call.Phone, p.MediaURLs); err != nil {
				return contractx.FunctionResult{}, fmt.Errorf("%w: send media: %v", contractx.ErrTransient, err)
			}

			return contractx.FunctionResult{
				Status:       contractx.StatusExecuted,
				Payload:      map[string]any{"sent": len(p.MediaURLs)},
				HumanSummary: fmt.Sprintf("Acabei de enviar %d fotos de %s.", len(p.MediaURLs), p.Title),
			}, nil
		},
	}
}
