package mapscript

import (
	"fmt"

	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/tile"
)

func requiredString(args map[string]any, key string) (string, error) {
	value, ok := args[key]
	if !ok {
		return "", fmt.Errorf("%s is required", key)
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string, got %T", key, value)
	}
	return s, nil
}

func optionalString(args map[string]any, key, fallback string) (string, error) {
	if _, ok := args[key]; !ok {
		return fallback, nil
	}
	return requiredString(args, key)
}

func requiredInt(args map[string]any, key string) (int, error) {
	value, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("%s is required", key)
	}
	switch v := value.(type) {
	case int:
		return v, nil
	case float64:
		return 0, fmt.Errorf("%s must be an integer, got %v", key, v)
	default:
		return 0, fmt.Errorf("%s must be an integer, got %T", key, value)
	}
}

func optionalInt(args map[string]any, key string, fallback int) (int, error) {
	if _, ok := args[key]; !ok {
		return fallback, nil
	}
	return requiredInt(args, key)
}

func requiredFloat(args map[string]any, key string) (float64, error) {
	value, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("%s is required", key)
	}
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("%s must be a number, got %T", key, value)
	}
}

func optionalBool(args map[string]any, key string, fallback bool) (bool, error) {
	value, ok := args[key]
	if !ok {
		return fallback, nil
	}
	b, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("%s must be a boolean, got %T", key, value)
	}
	return b, nil
}

// tileArg converts the tile table of a step into tile attributes. Numbers
// are formatted the way tile attributes store them.
func tileArg(args map[string]any) (tile.Attributes, error) {
	value, ok := args["tile"]
	if !ok {
		return nil, fmt.Errorf("tile is required")
	}
	table, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("tile must be a table, got %T", value)
	}
	attrs := make(tile.Attributes, len(table))
	for key, value := range table {
		switch v := value.(type) {
		case string:
			attrs[key] = v
		case int:
			attrs[key] = fmt.Sprintf("%d", v)
		case float64:
			attrs[key] = fmt.Sprintf("%g", v)
		case bool:
			attrs[key] = fmt.Sprintf("%t", v)
		default:
			return nil, fmt.Errorf("tile attribute %s has unsupported type %T", key, v)
		}
	}
	return attrs, nil
}
