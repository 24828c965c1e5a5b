package assembler

import (
	"errors"
	"fmt"
	"strings"
)

// Failure kinds. Every error returned by the assembler matches exactly one
// of them under errors.Is.
var (
	// ErrMissingField indicates a required key is absent or has the wrong type.
	ErrMissingField = errors.New("missing required field")

	// ErrUnsupportedSelector indicates a selector outside the implemented set.
	ErrUnsupportedSelector = errors.New("unsupported selector value")

	// ErrDisabledVariant indicates a declared variant that cannot be built yet.
	ErrDisabledVariant = errors.New("variant disabled")

	// ErrConstruction indicates a complete schema whose constructor failed,
	// for instance an unreadable zone file.
	ErrConstruction = errors.New("construction failed")
)

// AssemblyError reports why an operation produced no component.
type AssemblyError struct {
	Op       string
	Variant  string
	Selector int // -1 when no selector was read
	Keys     []string
	Kind     error
	Cause    error
}

func (e *AssemblyError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Selector >= 0 {
		fmt.Fprintf(&b, ": selector %d", e.Selector)
		if e.Variant != "" {
			fmt.Fprintf(&b, " (%s)", e.Variant)
		}
	}
	fmt.Fprintf(&b, ": %v", e.Kind)
	if len(e.Keys) > 0 {
		fmt.Fprintf(&b, ": %s", strings.Join(e.Keys, ", "))
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *AssemblyError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func missing(op string, keys ...string) *AssemblyError {
	return &AssemblyError{Op: op, Selector: -1, Keys: keys, Kind: ErrMissingField}
}

func construction(op string, cause error) *AssemblyError {
	return &AssemblyError{Op: op, Selector: -1, Kind: ErrConstruction, Cause: cause}
}

func disabled(cause error) *AssemblyError {
	return &AssemblyError{Selector: -1, Kind: ErrDisabledVariant, Cause: cause}
}
