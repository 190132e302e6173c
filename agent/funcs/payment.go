package funcs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/homelocar/sofia/agent/contract"
	"github.com/homelocar/sofia/agent/domain"
)

const FuncCancelPayment = "cancel_payment"

func cancelPaymentDefinition(deps Deps) Definition {
	return Definition{
		Name: FuncCancelPayment,
		Desc: "Cancel a pending payment transaction.",
		Params: map[string]*schema.ParameterInfo{
			"transactionId": {Type: schema.String, Desc: "Payment transaction id", Required: true},
			"reason":        {Type: schema.String, Desc: "Why the payment is being cancelled", Required: true},
			"cancelledBy":   {Type: schema.String, Desc: "Actor requesting the cancellation", Required: true},
		},
		SideEffecting: true,
		Handler: func(ctx context.Context, call contractx.FunctionCall) (contractx.FunctionResult, error) {
			txID := stringArg(call.Arguments, "transactionId")

			tx, err := deps.Payments.Get(ctx, call.TenantID, txID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return contractx.FunctionResult{}, fmt.Errorf("%w: transação %s não encontrada", contractx.ErrValidation, txID)
				}
				return contractx.FunctionResult{}, fmt.Errorf("%w: payment lookup: %v", contractx.ErrTransient, err)
			}

			// Only pending transactions may transition to cancelled. The
			// transaction is read but never mutated on refusal.
			if tx.Status != domain.PaymentPending {
				return contractx.FunctionResult{}, fmt.Errorf(
					"%w: a transação %s está com status %q, somente pagamentos pendentes podem ser cancelados",
					contractx.ErrPrecondition, txID, tx.Status)
			}

			now := deps.now().UTC()
			note := fmt.Sprintf("[%s] cancelled by %s: %s",
				now.Format(time.RFC3339), stringArg(call.Arguments, "cancelledBy"), stringArg(call.Arguments, "reason"))
			if tx.Notes != "" {
				tx.Notes += "\n"
			}
			tx.Notes += note
			tx.Status = domain.PaymentCancelled
			tx.UpdatedAt = now

			if err := deps.Payments.Update(ctx, tx); err != nil {
				return contractx.FunctionResult{}, fmt.Errorf("%w: update payment: %v", contractx.ErrTransient, err)
			}

			return contractx.FunctionResult{
				Status:       contractx.StatusExecuted,
				Payload:      tx,
				HumanSummary: fmt.Sprintf("Pagamento %s cancelado.", txID),
			}, nil
		},
	}
}
