package turnnode

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/homelocar/sofia/agent/contract"
	"github.com/homelocar/sofia/agent/funcs"
	guardx "github.com/homelocar/sofia/agent/guard"
	"github.com/homelocar/sofia/pkg/metrics"
)

// DispatchCalls executes allowed calls through the registry and synthesizes
// acknowledgment results for suppressed duplicates. Unknown functions get no
// result: the reply falls back to the model's text.
func DispatchCalls(ctx context.Context, in *TurnState, registry *funcs.Registry) (*TurnState, error) {
	if in == nil {
		return nil, errors.New("turn state is nil")
	}

	results := make([]contractx.FunctionResult, 0, len(in.Guarded))
	for _, gc := range in.Guarded {
		switch {
		case gc.Unknown:
			// skip; recorded in the turn log as attempted-but-unknown

		case !gc.Allow && gc.Reason == guardx.ReasonDuplicate:
			results = append(results, contractx.FunctionResult{
				Name:         gc.Call.Name,
				Status:       contractx.StatusSuppressedDuplicate,
				HumanSummary: duplicateAck(gc.Call.Name),
			})

		default:
			results = append(results, registry.Dispatch(ctx, gc.Call))
		}
	}

	for _, res := range results {
		metrics.FunctionCallsTotal.WithLabelValues(res.Name, string(res.Status)).Inc()
	}

	in.Results = results
	return in, nil
}

func duplicateAck(name string) string {
	switch name {
	case funcs.FuncSendPropertyMedia:
		return "Já enviei as fotos há pouco, dá uma olhada acima."
	case funcs.FuncCreateReservation:
		return "Sua reserva já foi registrada, não precisa pedir de novo."
	case funcs.FuncRegisterClient:
		return "Seu cadastro já foi feito."
	default:
		return fmt.Sprintf("Já cuidei disso (%s) há pouco.", name)
	}
}
