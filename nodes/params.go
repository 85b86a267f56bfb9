// Copyright 2020, Square, Inc.

package nodes

import (
	"fmt"
)

// Param accessors for the map[string]interface{} that YAML parsing
// produces. Missing keys fall back to the default; present keys with the
// wrong type are an error, not a silent default.

func floatParam(params map[string]interface{}, key string, def float64) (float64, error) {
	val, ok := params[key]
	if !ok {
		return def, nil
	}
	switch v := val.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("param %s: want number, got %T", key, val)
	}
}

func intParam(params map[string]interface{}, key string, def int) (int, error) {
	val, ok := params[key]
	if !ok {
		return def, nil
	}
	switch v := val.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("param %s: want integer, got %v", key, v)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("param %s: want integer, got %T", key, val)
	}
}

func int64Param(params map[string]interface{}, key string, def int64) (int64, error) {
	v, err := intParam(params, key, int(def))
	return int64(v), err
}

func stringParam(params map[string]interface{}, key, def string) (string, error) {
	val, ok := params[key]
	if !ok {
		return def, nil
	}
	s, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("param %s: want string, got %T", key, val)
	}
	return s, nil
}

func boolParam(params map[string]interface{}, key string, def bool) (bool, error) {
	val, ok := params[key]
	if !ok {
		return def, nil
	}
	b, ok := val.(bool)
	if !ok {
		return false, fmt.Errorf("param %s: want bool, got %T", key, val)
	}
	return b, nil
}

// kernelParam parses a square kernel given as a list of rows of numbers.
// YAML hands nested sequences back as []interface{}.
func kernelParam(params map[string]interface{}, key string) ([][]float64, error) {
	val, ok := params[key]
	if !ok {
		return nil, nil
	}
	rows, ok := val.([]interface{})
	if !ok {
		return nil, fmt.Errorf("param %s: want list of rows, got %T", key, val)
	}
	kernel := make([][]float64, len(rows))
	for i, r := range rows {
		cells, ok := r.([]interface{})
		if !ok {
			return nil, fmt.Errorf("param %s: row %d: want list of numbers, got %T", key, i, r)
		}
		kernel[i] = make([]float64, len(cells))
		for j, c := range cells {
			switch v := c.(type) {
			case float64:
				kernel[i][j] = v
			case int:
				kernel[i][j] = float64(v)
			case int64:
				kernel[i][j] = float64(v)
			default:
				return nil, fmt.Errorf("param %s: row %d col %d: want number, got %T", key, i, j, c)
			}
		}
	}
	return kernel, nil
}
