package funcs

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	contractx "github.com/homelocar/sofia/agent/contract"
	"github.com/homelocar/sofia/agent/domain"
)

const FuncRegisterClient = "register_client"

func registerClientDefinition(deps Deps) Definition {
	return Definition{
		Name: FuncRegisterClient,
		Desc: "Register the customer as a client with name, document id, and email.",
		Params: map[string]*schema.ParameterInfo{
			"name":     {Type: schema.String, Desc: "Full name", Required: true},
			"document": {Type: schema.String, Desc: "Document id (CPF/passport)", Required: true},
			"email":    {Type: schema.String, Desc: "Email address", Required: true},
		},
		SideEffecting: true,
		Handler: func(ctx context.Context, call contractx.FunctionCall) (contractx.FunctionResult, error) {
			email := stringArg(call.Arguments, "email")
			if !strings.Contains(email, "@") {
				return contractx.FunctionResult{}, fmt.Errorf("%w: email %q is not valid", contractx.ErrValidation, email)
			}

			client := &domain.Client{
				ID:        uuid.NewString(),
				TenantID:  call.TenantID,
				Name:      stringArg(call.Arguments, "name"),
				Document:  stringArg(call.Arguments, "document"),
				Email:     email,
				CreatedAt: deps.now().UTC(),
			}
			if err := deps.Clients.Create(ctx, client); err != nil {
				return contractx.FunctionResult{}, fmt.Errorf("%w: create client: %v", contractx.ErrTransient, err)
			}

			return contractx.FunctionResult{
				Status:       contractx.StatusExecuted,
				Payload:      client,
				HumanSummary: fmt.Sprintf("Cadastro feito, %s!", client.Name),
			}, nil
		},
	}
}
