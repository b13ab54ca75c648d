// Package enum wraps API enums so that values added on the server after the
// client was generated can still be read and written back unchanged.
package enum

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// ErrUnrecognized is wrapped by every UnknownValueError.
var ErrUnrecognized = errors.New("unrecognized enum value")

// Member is implemented by the generated string enums.
type Member interface {
	~string
	IsKnown() bool
}

// Lister is optionally implemented by enums that can list their members.
type Lister[T any] interface {
	Values() []T
}

// UnknownValueError reports a raw value that maps to no member of the enum.
type UnknownValueError struct {
	Type       string
	Raw        string
	Suggestion string
}

func (e *UnknownValueError) Error() string {
	msg := fmt.Sprintf("%v %q for %s", ErrUnrecognized, e.Raw, e.Type)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

func (e *UnknownValueError) Unwrap() error { return ErrUnrecognized }

// Value holds the raw string of an enum field exactly as it was received or
// assigned.
type Value[T Member] struct {
	raw string
}

// Of wraps a known member.
func Of[T Member](member T) Value[T] {
	return Value[T]{raw: string(member)}
}

// Raw wraps an arbitrary string. It never fails, even when s is not a member.
func Raw[T Member](s string) Value[T] {
	return Value[T]{raw: s}
}

// Raw returns the original string unchanged.
func (v Value[T]) Raw() string {
	return v.raw
}

// Known maps the raw string to a member of T.
func (v Value[T]) Known() (T, error) {
	m := T(v.raw)
	if m.IsKnown() {
		return m, nil
	}
	var zero T
	return zero, &UnknownValueError{
		Type:       fmt.Sprintf("%T", zero),
		Raw:        v.raw,
		Suggestion: suggest(zero, v.raw),
	}
}

// Is reports whether the raw value equals member.
func (v Value[T]) Is(member T) bool {
	return v.raw == string(member)
}

// Validate reports an error when the raw value is not a member of T.
func (v Value[T]) Validate() error {
	_, err := v.Known()
	return err
}

func (v Value[T]) String() string {
	return v.raw
}

func (v Value[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

func (v *Value[T]) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var zero T
		return fmt.Errorf("enum %T: %w", zero, err)
	}
	v.raw = s
	return nil
}

func suggest[T Member](zero T, raw string) string {
	lister, ok := any(zero).(Lister[T])
	if !ok || raw == "" {
		return ""
	}
	best, bestDist := "", -1
	for _, m := range lister.Values() {
		d := levenshtein.ComputeDistance(strings.ToLower(raw), strings.ToLower(string(m)))
		if bestDist == -1 || d < bestDist {
			best, bestDist = string(m), d
		}
	}
	// Only near misses are worth suggesting.
	if bestDist < 0 || bestDist > max(2, len(raw)/3) {
		return ""
	}
	return best
}
