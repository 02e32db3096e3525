package types

import (
	"encoding/json"
	"fmt"
)

// Canonical type descriptors used when the table has no answer.
const (
	Auto = "auto"
	Void = "void"
)

// Table is the resolved name→type oracle produced by the analysis stage
// (static inference plus any externally sourced hints). Keys are plain
// variable names or dotted per-function entries: "<fn>.<param>" and
// "<fn>.return". The IR layer only reads it.
type Table map[string]string

// Lookup returns the normalized descriptor for a name, or Auto when the
// table has no entry.
func (t Table) Lookup(name string) string {
	if t == nil {
		return Auto
	}
	descriptor, ok := t[name]
	if !ok || descriptor == "" {
		return Auto
	}
	return Normalize(descriptor)
}

// ParamKey builds the dotted key for a function parameter.
func ParamKey(function, param string) string {
	return fmt.Sprintf("%s.%s", function, param)
}

// ReturnKey builds the dotted key for a function's return type.
func ReturnKey(function string) string {
	return function + ".return"
}

// DecodeTable reads the type checker's JSON output. Both the full envelope
// {"type_info": {...}} and a bare name→type map are accepted.
func DecodeTable(data []byte) (Table, error) {
	var envelope struct {
		TypeInfo map[string]string `json:"type_info"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.TypeInfo != nil {
		return Table(envelope.TypeInfo), nil
	}
	var plain map[string]string
	if err := json.Unmarshal(data, &plain); err != nil {
		return nil, fmt.Errorf("malformed type table: %w", err)
	}
	return Table(plain), nil
}
