// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package jsonutil extracts JSON objects from free-form model output.
// Language models wrap their JSON in prose, fenced code blocks, or both;
// ExtractObject applies a fixed fallback ladder so every caller gets the
// same tolerance: fenced block, then leading brace, then brace scan.
package jsonutil

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractObject returns the first JSON object embedded in raw. The ladder:
//
//  1. If raw contains fenced code blocks (```), take the first fence whose
//     contents parse as a JSON object, tolerating a "json" language marker.
//  2. If raw itself starts with "{" and parses, return it as-is.
//  3. Otherwise scan from the first "{" to the last "}" and try that span.
//
// An error is returned only when no step yields valid JSON.
func ExtractObject(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("empty response")
	}

	if strings.Contains(s, "```") {
		for _, part := range strings.Split(s, "```") {
			candidate := strings.TrimSpace(part)
			candidate = strings.TrimSpace(strings.TrimPrefix(candidate, "json"))
			if strings.HasPrefix(candidate, "{") && json.Valid([]byte(candidate)) {
				return candidate, nil
			}
		}
	}

	if strings.HasPrefix(s, "{") && json.Valid([]byte(s)) {
		return s, nil
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		candidate := s[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no JSON object found in response")
}

// ExtractInto extracts a JSON object from raw and unmarshals it into v.
func ExtractInto(raw string, v any) error {
	obj, err := ExtractObject(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(obj), v); err != nil {
		return fmt.Errorf("parsing extracted JSON: %w", err)
	}
	return nil
}
