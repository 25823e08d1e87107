package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// This module feeds generated text into exactly two boundaries: the
// orchestrator decodes one report object per agent response, and the
// planner decodes a step list that arrives either as a bare array or
// wrapped in an envelope object. Providers surround both with markdown
// fences and prose, so extraction strips fence lines and then lets
// json.Decoder read the first complete value out of the remaining text.

// ExtractJSON returns the first complete JSON value in a generative
// response, as written.
func ExtractJSON(response string) (string, error) {
	raw, err := firstValue(stripFences(response))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// ExtractJSONAs extracts the first JSON value and unmarshals it into T.
// The report boundary: one object per agent response.
func ExtractJSONAs[T any](response string) (T, error) {
	var result T

	raw, err := firstValue(stripFences(response))
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal(raw, &result); err != nil {
		return result, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return result, nil
}

// ExtractJSONList extracts a list of T from a response carrying either
// a bare JSON array or an object wrapping the array under one of the
// given envelope keys. The step-list boundary: generators are prompted
// for the bare form but drift into envelopes often enough that both
// shapes are accepted.
func ExtractJSONList[T any](response string, envelopeKeys ...string) ([]T, error) {
	raw, err := firstValue(stripFences(response))
	if err != nil {
		return nil, err
	}

	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, fmt.Errorf("failed to decode envelope object: %w", err)
		}

		var inner json.RawMessage
		found := false
		for _, key := range envelopeKeys {
			if v, ok := envelope[key]; ok {
				inner, found = v, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("envelope object carries none of the keys %v", envelopeKeys)
		}
		raw = inner
	}

	var list []T
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	return list, nil
}

// stripFences drops markdown code fence lines so fenced JSON reads like
// naked JSON. The fence's language tag goes with the fence line; the
// content either decodes or it doesn't.
func stripFences(response string) string {
	if !strings.Contains(response, "```") {
		return response
	}

	var b strings.Builder
	for _, line := range strings.Split(response, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// firstValue scans for the first position where a complete JSON object
// or array decodes. Stray braces in surrounding prose fail to decode
// and the scan moves to the next candidate start.
func firstValue(text string) (json.RawMessage, error) {
	start := strings.IndexAny(text, "{[")
	for start >= 0 {
		var raw json.RawMessage
		dec := json.NewDecoder(strings.NewReader(text[start:]))
		if err := dec.Decode(&raw); err == nil {
			return raw, nil
		}

		next := strings.IndexAny(text[start+1:], "{[")
		if next < 0 {
			break
		}
		start += 1 + next
	}

	return nil, fmt.Errorf("no valid JSON found in response")
}
