// Package utils holds small helpers for taming LLM output: JSON repair and
// markdown cleanup. Nothing here touches the numeric pipeline.
package utils

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// RepairJSON fixes the usual LLM JSON defects: single quotes, unquoted keys,
// trailing commas, unclosed brackets, markdown code fences.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("repair json: %w", err)
	}
	return repaired, nil
}

// ParseJSON decodes model output into schema, trying strict JSON first, then
// repaired JSON, then Hjson as the most lenient fallback. Returns the form
// that finally parsed.
func ParseJSON(input string, schema interface{}) (string, error) {
	if err := json.Unmarshal([]byte(input), schema); err == nil {
		return input, nil
	}

	if repaired, err := RepairJSON(input); err == nil {
		if err := json.Unmarshal([]byte(repaired), schema); err == nil {
			return repaired, nil
		}
	}

	var loose interface{}
	if err := hjson.Unmarshal([]byte(input), &loose); err == nil {
		if normalized, err := json.Marshal(loose); err == nil {
			if err := json.Unmarshal(normalized, schema); err == nil {
				return string(normalized), nil
			}
		}
	}

	return "", fmt.Errorf("parse json: no strategy produced a valid document")
}
