package prompt

import (
	_ "embed"
	"strings"
)

//go:embed template/sofia.txt
var sofiaRaw string

// Sofia returns the system prompt for the rental assistant, trimmed.
// The embed is compile-time, so this is safe to call concurrently.
func Sofia() string {
	return strings.TrimSpace(sofiaRaw)
}
