// Copyright (c) 2024 KorenX.
// Licensed under the MIT license.

package prfattack

import "errors"

var (
	// ErrInvalidOracle is returned when an oracle's domain and range sizes
	// violate the birthday-bound coverage assumption domain <= range^2 and
	// range <= domain^2, under which the adapted self-map is well defined,
	// or when a compressing oracle's expanded query points do not fit in a
	// uint64.
	ErrInvalidOracle = errors.New("oracle domain/range sizes not adaptable")

	// ErrDomainExhausted is returned when a cycle-detection loop exceeds its
	// iteration budget. A well-formed self-map over a finite domain always
	// cycles first, so hitting the budget means the adapter invariant was
	// violated or the budget was set below the rho length.
	ErrDomainExhausted = errors.New("iteration budget exhausted before a cycle was found")
)

// SelfMap is one application of a function from a finite working domain to
// itself.
type SelfMap func(x uint64) uint64

// DomainAdapter presents an Oracle as a self-map of a single working size,
// whether the oracle is length-preserving, expanding or compressing.
type DomainAdapter struct {
	f Oracle
}

// NewDomainAdapter wraps f as a self-map. It fails with ErrInvalidOracle
// when the domain/range sizes fall outside the birthday bound; Calc makes
// no further validity checks.
func NewDomainAdapter(f Oracle) (*DomainAdapter, error) {
	db, rb := f.DomainBytes(), f.RangeBytes()
	// Sizes are powers of 256: domain <= range^2 iff db <= 2*rb.
	if db > 2*rb || rb > 2*db {
		return nil, ErrInvalidOracle
	}
	// A compressing oracle is queried at x + ((x+1) mod domain)*range,
	// values up to domain*range + domain - range - 2; already at
	// db+rb == 8 that wraps a uint64.
	if db > rb && db+rb >= 8 {
		return nil, ErrInvalidOracle
	}
	return &DomainAdapter{f: f}, nil
}

// Oracle returns the wrapped oracle.
func (a *DomainAdapter) Oracle() Oracle { return a.f }

// Calc evaluates the adapted self-map at x.
//
// When the domain is smaller than the range the input is reduced mod domain
// before the query, saturating the range. When the domain is larger, the
// iteration value is mixed into the query argument so that repeated
// application keeps exploring the full domain despite the smaller range.
func (a *DomainAdapter) Calc(x uint64) uint64 {
	domain, rng := a.f.Domain(), a.f.Range()
	switch {
	case domain < rng:
		return a.f.Evaluate(x % domain)
	case domain > rng:
		return a.f.Evaluate(x + ((x+1)%domain)*rng)
	default:
		return a.f.Evaluate(x)
	}
}

// RecoverX maps a working-space value x, as returned by the attacks over
// Calc, back to the oracle's native input: Calc(x) == Oracle().Evaluate(RecoverX(x)).
func (a *DomainAdapter) RecoverX(x uint64) uint64 {
	domain, rng := a.f.Domain(), a.f.Range()
	switch {
	case domain < rng:
		return x % domain
	case domain > rng:
		return x + ((x+1)%domain)*rng
	default:
		return x
	}
}
