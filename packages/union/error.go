package union

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrResolution matches every *Error with errors.Is.
	ErrResolution = errors.New("union resolution failed")
	// ErrUnknownVariant is returned by Value.Validate for fallback values.
	ErrUnknownVariant = errors.New("unknown union variant")

	errInvalidJSON = errors.New("invalid JSON")
)

// Attempt records one variant that was tried and failed.
type Attempt struct {
	Variant string
	Err     error
}

// Error reports why a payload could not be resolved.
type Error struct {
	Union         string
	Discriminator string
	// Discriminant is the observed tag, empty when the field was absent.
	Discriminant string
	// Eligible lists the variants that could have matched.
	Eligible []string
	Attempts []Attempt
}

func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%v: %s", ErrResolution, e.Union)
	switch {
	case e.Discriminator != "" && len(e.Attempts) == 0:
		if e.Discriminant == "" {
			fmt.Fprintf(&sb, ": missing %s", e.Discriminator)
		} else {
			fmt.Fprintf(&sb, ": no variant for %s %q", e.Discriminator, e.Discriminant)
		}
		fmt.Fprintf(&sb, " (eligible: %s)", strings.Join(e.Eligible, ", "))
	case e.Discriminant != "":
		fmt.Fprintf(&sb, ": %s %q selected %s", e.Discriminator, e.Discriminant, e.Attempts[0].Variant)
		fmt.Fprintf(&sb, " but it failed to decode: %v", e.Attempts[0].Err)
	default:
		sb.WriteString(": no variant matched")
		for _, a := range e.Attempts {
			if a.Variant == "" {
				fmt.Fprintf(&sb, "; %v", a.Err)
				continue
			}
			fmt.Fprintf(&sb, "; %s: %v", a.Variant, a.Err)
		}
	}
	return sb.String()
}

func (e *Error) Is(target error) bool {
	return target == ErrResolution
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		errs = append(errs, a.Err)
	}
	return errs
}
