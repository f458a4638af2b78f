// Copyright (c) 2024 KorenX.
// Licensed under the MIT license.

package prfattack

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// HellmanTables holds the precomputed state of Hellman's time-memory
// tradeoff: t tables of m chains of length t over an adapted self-map.
// Table i uses the perturbed step f'((x+i) mod domain), which decorrelates
// the tables so their coverage adds up. Tables are immutable after
// BuildTables returns and safe for concurrent lookups.
type HellmanTables struct {
	adapter *DomainAdapter
	t       int
	// tables[i] maps a chain endpoint to every sampled start whose chain
	// reaches it after exactly t perturbed steps.
	tables []map[uint64][]uint64
}

// BuildTables runs the preprocessing phase: t tables, each from m uniformly
// random start points iterated t steps. The cost is m*t*t self-map
// evaluations; tables are built concurrently since they share no state.
func BuildTables(a *DomainAdapter, m, t int) (*HellmanTables, error) {
	h := &HellmanTables{
		adapter: a,
		t:       t,
		tables:  make([]map[uint64][]uint64, t),
	}
	domain := a.Oracle().Domain()
	domainBytes := a.Oracle().DomainBytes()

	var g errgroup.Group
	for i := 0; i < t; i++ {
		i := i
		g.Go(func() error {
			table := make(map[uint64][]uint64, m)
			for j := 0; j < m; j++ {
				start, err := randomPoint(domainBytes)
				if err != nil {
					return err
				}
				curr := start
				for s := 0; s < t; s++ {
					curr = a.Calc((curr + uint64(i)) % domain)
				}
				table[curr] = append(table[curr], start)
			}
			h.tables[i] = table
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return h, nil
}

// Lookup searches the tables for a working-space preimage of y under the
// adapted self-map: on success Calc(x) == y. ok is false when no table
// confirms a preimage, an expected outcome whose rate is governed by the
// m*t*t coverage of the working domain. Callers must put the result through
// RecoverX to obtain the oracle's native input when domain != range.
//
// All tables are probed concurrently. The winner is always the hit from the
// lowest-indexed table, so repeated lookups of the same target return the
// same preimage regardless of scheduling; probes above a confirmed hit stop
// early.
func (h *HellmanTables) Lookup(y uint64) (x uint64, ok bool) {
	var won atomic.Int64
	won.Store(int64(len(h.tables)))
	results := make([]uint64, len(h.tables))
	found := make([]bool, len(h.tables))

	var wg sync.WaitGroup
	for i := range h.tables {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if x, ok := h.probe(i, y, &won); ok {
				results[i] = x
				found[i] = true
				// Track the lowest confirmed index so later probes can
				// stop; losing a race here only delays that, the final
				// scan below decides the winner.
				for {
					best := won.Load()
					if best <= int64(i) || won.CompareAndSwap(best, int64(i)) {
						break
					}
				}
			}
		}(i)
	}
	wg.Wait()

	for i := range h.tables {
		if found[i] {
			return results[i], true
		}
	}
	return 0, false
}

// probe walks up to t perturbed steps forward from y through table i,
// replaying candidate chains on every endpoint hit.
func (h *HellmanTables) probe(i int, y uint64, won *atomic.Int64) (uint64, bool) {
	domain := h.adapter.Oracle().Domain()
	step := func(x uint64) uint64 {
		return h.adapter.Calc((x + uint64(i)) % domain)
	}

	curr := y
	for s := 0; s < h.t; s++ {
		if won.Load() < int64(i) {
			return 0, false
		}
		for _, a := range h.tables[i][curr] {
			// The endpoint matched, so some prefix of this chain may step
			// onto y; the point queried just before that is a preimage.
			for r := 0; r < h.t; r++ {
				if step(a) == y {
					return (a + uint64(i)) % domain, true
				}
				a = step(a)
			}
		}
		curr = step(curr)
	}
	return 0, false
}

func randomPoint(byteLen int) (uint64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[8-byteLen:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}
