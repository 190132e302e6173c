package funcs

import (
	"fmt"
	"math"
	"strings"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/homelocar/sofia/agent/contract"
)

// validateArgs checks a raw argument mapping against the function's
// parameter schema. Model output is dynamic JSON; nothing here trusts it as
// typed data. Returns the full field-level error list, not just the first.
func validateArgs(params map[string]*schema.ParameterInfo, args map[string]any) []contractx.FieldError {
	var errs []contractx.FieldError

	for name, p := range params {
		raw, present := args[name]
		if !present || raw == nil {
			if p.Required {
				errs = append(errs, contractx.FieldError{Field: name, Message: "required argument is missing"})
			}
			continue
		}
		if msg := checkType(p.Type, raw); msg != "" {
			errs = append(errs, contractx.FieldError{Field: name, Message: msg})
		}
	}

	for name := range args {
		if _, known := params[name]; !known {
			errs = append(errs, contractx.FieldError{Field: name, Message: "unknown argument"})
		}
	}

	return errs
}

func checkType(t schema.DataType, raw any) string {
	switch t {
	case schema.String:
		if _, ok := raw.(string); !ok {
			return fmt.Sprintf("expected string, got %T", raw)
		}
	case schema.Integer:
		f, ok := raw.(float64)
		if !ok {
			if _, isInt := raw.(int); isInt {
				return ""
			}
			return fmt.Sprintf("expected integer, got %T", raw)
		}
		if f != math.Trunc(f) {
			return "expected integer, got fraction"
		}
	case schema.Number:
		switch raw.(type) {
		case float64, int:
		default:
			return fmt.Sprintf("expected number, got %T", raw)
		}
	case schema.Boolean:
		if _, ok := raw.(bool); !ok {
			return fmt.Sprintf("expected boolean, got %T", raw)
		}
	case schema.Array:
		if _, ok := raw.([]any); !ok {
			return fmt.Sprintf("expected array, got %T", raw)
		}
	}
	return ""
}

// Typed accessors for validated arguments. They still tolerate absence so
// optional parameters read as zero values.

func stringArg(args map[string]any, name string) string {
	if v, ok := args[name].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func intArg(args map[string]any, name string) int {
	switch v := args[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func stringSliceArg(args map[string]any, name string) []string {
	raw, ok := args[name].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}
