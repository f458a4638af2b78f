// Copyright (c) 2024 KorenX.
// Licensed under the MIT license.

package prfattack

// FindCollision locates x0 != x1 with f(x0) == f(x1) by Floyd's two-pointer
// cycle detection, using constant memory beyond the two traversal pointers.
// It costs O(mu+lambda) evaluations of f, where mu and lambda are the tail
// and cycle lengths of the iteration sequence from start.
//
// When start itself lies on the cycle no two-preimage collision is reachable
// from it, and the degenerate pair (start, start) is returned with a nil
// error; callers should retry from a different start (see FindCollisionFrom).
// budget bounds the number of detection rounds; exceeding it returns
// ErrDomainExhausted.
func FindCollision(f SelfMap, start, budget uint64) (x0, x1 uint64, err error) {
	if f(start) == start {
		// Fixed point: the cycle is just {start}.
		return start, start, nil
	}

	slow := f(start)
	fast := f(f(start))
	count := uint64(0)
	for slow != fast {
		if count >= budget {
			return 0, 0, ErrDomainExhausted
		}
		count++
		slow = f(slow)
		fast = f(f(fast))
	}

	// If start is reachable from the meeting point within the cycle, start
	// is on the cycle and has a single predecessor along this walk.
	p := slow
	for i := uint64(0); i < 2*count; i++ {
		p = f(p)
		if p == start {
			return start, start, nil
		}
	}

	// Walk from start and from the meeting point in lockstep; the pointers
	// first collide one step after the colliding pair.
	p1, p2 := start, slow
	for f(p1) != f(p2) {
		p1 = f(p1)
		p2 = f(p2)
	}
	return p1, p2, nil
}

// FindCollisionFrom retries FindCollision with successive start points until
// a genuine collision is found, skipping starts that produce the degenerate
// pair. budget bounds each attempt and also the number of starts tried; a
// self-map on which every start is degenerate (a permutation) ends in
// ErrDomainExhausted instead of cycling forever.
func FindCollisionFrom(f SelfMap, start, budget uint64) (x0, x1 uint64, err error) {
	for attempt := uint64(0); attempt < budget; attempt++ {
		x0, x1, err = FindCollision(f, start, budget)
		if err != nil {
			return 0, 0, err
		}
		if x0 != x1 {
			return x0, x1, nil
		}
		start++
	}
	return 0, 0, ErrDomainExhausted
}
