package classify

import (
	"testing"

	contractx "github.com/homelocar/sofia/agent/contract"
)

func TestClassifyBookingIntentIsHot(t *testing.T) {
	t.Parallel()

	c := Classify("Quero reservar o apartamento para março")
	if c.Temperature != contractx.TemperatureHot {
		t.Fatalf("temperature = %s, want hot", c.Temperature)
	}
	if !hasSignal(c, SignalBookingIntent) {
		t.Fatalf("missing booking_intent signal: %#v", c.Signals)
	}
}

func TestClassifyUrgencyIsHot(t *testing.T) {
	t.Parallel()

	c := Classify("preciso de um lugar pra AINDA HOJE")
	if c.Temperature != contractx.TemperatureHot {
		t.Fatalf("temperature = %s, want hot", c.Temperature)
	}
	if !hasSignal(c, SignalUrgency) {
		t.Fatalf("missing urgency signal: %#v", c.Signals)
	}
}

func TestClassifyObjectionIsCold(t *testing.T) {
	t.Parallel()

	c := Classify("achei muito caro, vou pensar")
	if c.Temperature != contractx.TemperatureCold {
		t.Fatalf("temperature = %s, want cold", c.Temperature)
	}
	if !hasSignal(c, SignalObjection) {
		t.Fatalf("missing objection signal: %#v", c.Signals)
	}
}

func TestClassifyBookingIntentBeatsObjection(t *testing.T) {
	t.Parallel()

	c := Classify("tá muito caro mas quero alugar mesmo assim")
	if c.Temperature != contractx.TemperatureHot {
		t.Fatalf("temperature = %s, want hot", c.Temperature)
	}
}

func TestClassifyPriceInquiryIsWarm(t *testing.T) {
	t.Parallel()

	c := Classify("quanto custa a diária?")
	if c.Temperature != contractx.TemperatureWarm {
		t.Fatalf("temperature = %s, want warm", c.Temperature)
	}
	if !hasSignal(c, SignalPriceInquiry) {
		t.Fatalf("missing price_inquiry signal: %#v", c.Signals)
	}
}

func TestClassifyDegenerateInputIsWarm(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", "   ", "👍👍👍", "oi"} {
		c := Classify(text)
		if c.Temperature != contractx.TemperatureWarm {
			t.Fatalf("Classify(%q) temperature = %s, want warm", text, c.Temperature)
		}
	}
}

func hasSignal(c contractx.LeadClassification, name string) bool {
	for _, s := range c.Signals {
		if s == name {
			return true
		}
	}
	return false
}
