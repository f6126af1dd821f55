// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "encoding/json"

// Opt is an explicitly-optional patch field for nullable columns. It
// distinguishes three states a plain pointer cannot: absent from the input
// (Set=false, field untouched), present with a value (Set=true, Value
// non-nil), and present as an explicit null (Set=true, Value nil, which
// clears the stored value).
type Opt[T any] struct {
	Set   bool
	Value *T
}

// Some returns an Opt carrying the given value.
func Some[T any](v T) Opt[T] {
	return Opt[T]{Set: true, Value: &v}
}

// Null returns an Opt that clears the stored value.
func Null[T any]() Opt[T] {
	return Opt[T]{Set: true}
}

// UnmarshalJSON is only invoked for keys present in the input, so Set is
// always true here; a JSON null leaves Value nil.
func (o *Opt[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON round-trips the value; an unset or null Opt encodes as null.
func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Apply merges the field into dst: untouched when absent, cleared on
// explicit null, replaced otherwise.
func (o Opt[T]) Apply(dst **T) {
	if !o.Set {
		return
	}
	*dst = o.Value
}
