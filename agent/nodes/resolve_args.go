package turnnode

import (
	"errors"
	"strings"

	"github.com/homelocar/sofia/agent/funcs"
	"github.com/homelocar/sofia/agent/pricing"
)

// Ordinal references the model may pass instead of a property id.
var ordinalWords = map[string]int{
	"first": 0, "primeiro": 0, "primeira": 0, "1": 0,
	"second": 1, "segundo": 1, "segunda": 1, "2": 1,
	"third": 2, "terceiro": 2, "terceira": 2, "3": 2,
}

// ResolveArgs stamps the conversation key on every proposed call and fills
// arguments the model omitted from context: the pending quote supplies
// property/dates/guests, the candidate list resolves ordinal references, and
// the registered client supplies clientId. This is what lets a customer walk
// search -> price -> register -> reserve without repeating anything.
func ResolveArgs(in *TurnState) (*TurnState, error) {
	if in == nil || in.Context == nil {
		return nil, errors.New("turn state is incomplete")
	}

	c := in.Context
	for i := range in.Proposal.Calls {
		call := &in.Proposal.Calls[i]
		call.TenantID = in.TenantID
		call.Phone = in.Phone
		if call.Arguments == nil {
			call.Arguments = map[string]any{}
		}

		if needsProperty(call.Name) {
			resolvePropertyID(call.Arguments, in)
		}

		if call.Name == funcs.FuncCalculatePrice || call.Name == funcs.FuncCreateReservation {
			if q := c.PendingQuote; q != nil {
				fillString(call.Arguments, "checkIn", q.CheckIn.Format(pricing.DateLayout))
				fillString(call.Arguments, "checkOut", q.CheckOut.Format(pricing.DateLayout))
				if _, ok := call.Arguments["guests"]; !ok && q.GuestCount > 0 {
					call.Arguments["guests"] = q.GuestCount
				}
			}
		}

		if call.Name == funcs.FuncCreateReservation {
			if rc := c.RegisteredClient; rc != nil {
				fillString(call.Arguments, "clientId", rc.ID)
			}
		}
	}

	return in, nil
}

func needsProperty(name string) bool {
	switch name {
	case funcs.FuncGetPropertyDetails, funcs.FuncCalculatePrice,
		funcs.FuncCreateReservation, funcs.FuncScheduleVisit,
		funcs.FuncSendPropertyMedia:
		return true
	}
	return false
}

func resolvePropertyID(args map[string]any, in *TurnState) {
	c := in.Context
	raw, _ := args["propertyId"].(string)
	raw = strings.TrimSpace(raw)

	// An ordinal word resolves against the candidates currently in view.
	if idx, ok := ordinalWords[strings.ToLower(raw)]; ok && idx < len(c.CandidateProperties) {
		args["propertyId"] = c.CandidateProperties[idx].ID
		return
	}
	if raw != "" {
		return
	}

	if q := c.PendingQuote; q != nil {
		args["propertyId"] = q.PropertyID
		return
	}
	if len(c.CandidateProperties) > 0 {
		args["propertyId"] = c.CandidateProperties[0].ID
	}
}

func fillString(args map[string]any, key, value string) {
	if value == "" {
		return
	}
	if s, ok := args[key].(string); ok && strings.TrimSpace(s) != "" {
		return
	}
	if _, present := args[key]; present && args[key] != nil && args[key] != "" {
		return
	}
	args[key] = value
}
