package tools

import (
	"fmt"
	"strings"
)

// ValidateArgs checks args against the schema and returns a normalized copy:
// defaults filled in, integers coerced from JSON numbers. It never mutates
// the input map. Unknown arguments are rejected so typos fail loudly.
func ValidateArgs(s Schema, args map[string]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(s.Properties))

	for name := range args {
		if _, ok := s.Properties[name]; !ok {
			return nil, &ArgError{Name: name, Reason: "not a declared parameter"}
		}
	}

	for _, name := range s.Required {
		if _, ok := args[name]; !ok {
			return nil, missingArg(name)
		}
	}

	for name, prop := range s.Properties {
		raw, ok := args[name]
		if !ok {
			if prop.Default != nil {
				out[name] = prop.Default
			}
			continue
		}
		v, err := coerce(name, prop, raw)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

func coerce(name string, prop Property, raw interface{}) (interface{}, error) {
	switch prop.Type {
	case "string":
		s, ok := raw.(string)
		if !ok {
			return nil, badType(name, "string", raw)
		}
		if len(prop.Enum) > 0 && !contains(prop.Enum, s) {
			return nil, &ArgError{Name: name, Reason: "must be one of " + strings.Join(prop.Enum, ", ")}
		}
		return s, nil

	case "boolean":
		b, ok := raw.(bool)
		if !ok {
			return nil, badType(name, "boolean", raw)
		}
		return b, nil

	case "integer", "number":
		f, ok := asFloat(raw)
		if !ok {
			return nil, badType(name, prop.Type, raw)
		}
		if prop.Type == "integer" && f != float64(int(f)) {
			return nil, &ArgError{Name: name, Reason: "must be an integer"}
		}
		if prop.Minimum != nil && f < *prop.Minimum {
			return nil, &ArgError{Name: name, Reason: fmt.Sprintf("must be >= %g", *prop.Minimum)}
		}
		if prop.Maximum != nil && f > *prop.Maximum {
			return nil, &ArgError{Name: name, Reason: fmt.Sprintf("must be <= %g", *prop.Maximum)}
		}
		if prop.Type == "integer" {
			return int(f), nil
		}
		return f, nil

	default:
		return nil, &ArgError{Name: name, Reason: "unsupported schema type " + prop.Type}
	}
}

// asFloat widens every numeric shape a JSON decoder or a literal map can
// produce.
func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// PageSchema returns the shared pagination parameters: page >= 1 and
// per_page bounded 1-100 with a default of 30.
func PageSchema() map[string]Property {
	return map[string]Property{
		"page": {
			Type:        "integer",
			Description: "page number, starting at 1",
			Default:     1,
			Minimum:     Float64Ptr(1),
		},
		"per_page": {
			Type:        "integer",
			Description: "results per page",
			Default:     30,
			Minimum:     Float64Ptr(1),
			Maximum:     Float64Ptr(100),
		},
	}
}

// IntArg reads a validated integer argument, falling back when absent.
func IntArg(args map[string]interface{}, name string, fallback int) int {
	if v, ok := args[name].(int); ok {
		return v
	}
	return fallback
}

// StringArg reads a validated string argument.
func StringArg(args map[string]interface{}, name string) string {
	v, _ := args[name].(string)
	return v
}
