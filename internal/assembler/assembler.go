// Package assembler builds the components of a flight simulation from a
// configuration document.
//
// Each family (environment, aircraft, stepper, pilot) is chosen by an
// integer selector. A selector value names a variant, and the variant
// names the exact fields it needs. Construction is all-or-nothing: a
// factory either returns a usable component and a nil error, or a nil
// component and an *AssemblyError whose kind is one of ErrMissingField,
// ErrUnsupportedSelector, ErrDisabledVariant or ErrConstruction.
//
// Angles are read in degrees and leave the assembler in radians.
package assembler

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/soarsim/internal/config"
)

var log = logrus.WithField("module", "assembler")

// Assembler holds no state between calls; one value can serve concurrent
// callers as long as their documents are not mutated.
type Assembler struct {
	log *logrus.Entry
}

func New(logger *logrus.Entry) *Assembler {
	if logger == nil {
		logger = log
	}
	return &Assembler{log: logger}
}

// variant describes one selector value of a family.
type variant[T any] struct {
	name   string
	fields []field
	build  func(a *Assembler, doc *config.Document, v values) (T, error)
}

// dispatch reads the selector, validates the chosen variant's schema and
// builds it. It does not log.
func dispatch[T any](a *Assembler, doc *config.Document, op, selectorKey string, variants map[uint]variant[T]) (T, error) {
	var zero T

	sel, ok := doc.Uint(selectorKey)
	if !ok {
		return zero, missing(op, selectorKey)
	}
	vr, ok := variants[sel]
	if !ok {
		return zero, &AssemblyError{Op: op, Selector: int(sel), Kind: ErrUnsupportedSelector}
	}

	v, absent := read(doc, vr.fields)
	if absent != nil {
		return zero, &AssemblyError{Op: op, Variant: vr.name, Selector: int(sel), Keys: absent, Kind: ErrMissingField}
	}

	built, err := vr.build(a, doc, v)
	if err != nil {
		var ae *AssemblyError
		if !errors.As(err, &ae) {
			ae = construction(op, err)
		}
		ae.Op, ae.Variant, ae.Selector = op, vr.name, int(sel)
		return zero, ae
	}
	return built, nil
}

// report logs a failed operation once and hands the error back.
func (a *Assembler) report(err error) error {
	if err == nil {
		return nil
	}
	entry := a.log
	var ae *AssemblyError
	if errors.As(err, &ae) {
		entry = entry.WithFields(logrus.Fields{
			"op":   ae.Op,
			"kind": ae.Kind.Error(),
		})
		if ae.Selector >= 0 {
			entry = entry.WithField("selector", ae.Selector)
		}
		if len(ae.Keys) > 0 {
			entry = entry.WithField("keys", ae.Keys)
		}
	}
	entry.Warnf("configuration reader stopped: %v", err)
	return err
}

// seed reads the optional seed key used by stochastic components.
func seed(doc *config.Document, op string) (uint64, error) {
	if !doc.Exists("seed") {
		return 0, nil
	}
	s, ok := doc.Uint("seed")
	if !ok {
		return 0, missing(op, "seed")
	}
	return uint64(s), nil
}
