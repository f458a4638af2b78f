// Copyright (c) 2024 KorenX.
// Licensed under the MIT license.

package prfattack

// FindCycle returns a point guaranteed to lie on the eventual cycle of the
// sequence f(start), f(f(start)), ... using Nivasch's stack algorithm with
// k stacks. Points are partitioned across stacks by value mod k and every
// stack is kept strictly increasing from bottom to top: larger entries are
// popped before a point is pushed, so a revisited value is recognized when
// it surfaces at its stack's top.
//
// Peak memory is the sum of the stack sizes, typically far below the number
// of evaluations; k trades memory against the expected overshoot past the
// cycle entry. budget bounds the number of evaluations and exceeding it
// returns ErrDomainExhausted.
func FindCycle(f SelfMap, k int, start, budget uint64) (uint64, error) {
	if k < 1 {
		panic("prfattack: stack count must be positive")
	}
	stacks := make([][]uint64, k)
	stacks[start%uint64(k)] = append(stacks[start%uint64(k)], start)

	next := start
	for i := uint64(0); i < budget; i++ {
		next = f(next)
		s := stacks[next%uint64(k)]

		for len(s) > 0 && s[len(s)-1] > next {
			s = s[:len(s)-1]
		}
		if len(s) > 0 && s[len(s)-1] == next {
			// Second visit: next is on the cycle.
			return next, nil
		}
		stacks[next%uint64(k)] = append(s, next)
	}
	return 0, ErrDomainExhausted
}
