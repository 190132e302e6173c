// Package classify implements the lead-temperature heuristic. It is a
// keyword scan, not a model call: classification must never block a turn,
// so degenerate input degrades to warm with no signals.
package classify

import (
	"strings"

	contractx "github.com/homelocar/sofia/agent/contract"
)

const (
	SignalBookingIntent = "booking_intent"
	SignalUrgency       = "urgency"
	SignalPriceInquiry  = "price_inquiry"
	SignalVisitRequest  = "visit_request"
	SignalObjection     = "objection"
)

var signalKeywords = map[string][]string{
	SignalBookingIntent: {
		"quero reservar", "pode reservar", "vou fechar", "fechar negocio",
		"fechar negócio", "quero alugar", "vou querer", "confirma a reserva",
		"book it", "i want to book",
	},
	SignalUrgency: {
		"urgente", "hoje", "agora", "ainda hoje", "o quanto antes",
		"right now", "asap",
	},
	SignalPriceInquiry: {
		"quanto", "preço", "preco", "valor", "quanto fica", "quanto custa",
		"how much", "price",
	},
	SignalVisitRequest: {
		"visita", "visitar", "conhecer o imovel", "conhecer o imóvel",
		"agendar", "ver pessoalmente", "schedule a visit",
	},
	SignalObjection: {
		"muito caro", "caro demais", "só olhando", "so olhando", "talvez",
		"vou pensar", "mais pra frente", "desisti", "too expensive",
		"just looking",
	},
}

// Classify scores the latest customer message. Booking intent or urgency
// makes a lead hot; an objection with no hot signal makes it cold;
// everything else, including empty or emoji-only input, is warm.
func Classify(text string) contractx.LeadClassification {
	msg := strings.ToLower(strings.TrimSpace(text))
	if msg == "" {
		return contractx.LeadClassification{Temperature: contractx.TemperatureWarm}
	}

	var signals []string
	for _, name := range []string{
		SignalBookingIntent,
		SignalUrgency,
		SignalPriceInquiry,
		SignalVisitRequest,
		SignalObjection,
	} {
		for _, kw := range signalKeywords[name] {
			if strings.Contains(msg, kw) {
				signals = append(signals, name)
				break
			}
		}
	}

	temp := contractx.TemperatureWarm
	switch {
	case contains(signals, SignalBookingIntent) || contains(signals, SignalUrgency):
		temp = contractx.TemperatureHot
	case contains(signals, SignalObjection):
		temp = contractx.TemperatureCold
	}

	return contractx.LeadClassification{
		Temperature: temp,
		Signals:     signals,
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
