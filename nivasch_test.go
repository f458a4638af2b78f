// Copyright (c) 2024 KorenX.
// Licensed under the MIT license.

package prfattack

import (
	"errors"
	"testing"
)

// onCycle reports whether x recurs when iterating f from x, i.e. x lies on
// a cycle reachable from itself.
func onCycle(f SelfMap, x, limit uint64) bool {
	p := f(x)
	for i := uint64(0); i < limit; i++ {
		if p == x {
			return true
		}
		p = f(p)
	}
	return false
}

func TestFindCycleSynthetic(t *testing.T) {
	tests := []struct {
		name       string
		mu, lambda uint64
		k          int
	}{
		{"short", 3, 7, 5},
		{"long tail", 50, 4, 5},
		{"long cycle", 2, 97, 10},
		{"single stack", 10, 10, 1},
		{"more stacks than points", 4, 6, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := rhoMap(tt.mu, tt.lambda)
			x, err := FindCycle(f, tt.k, 0, 10*(tt.mu+tt.lambda)*(tt.mu+tt.lambda))
			if err != nil {
				t.Fatal(err)
			}
			if x < tt.mu || x >= tt.mu+tt.lambda {
				t.Errorf("FindCycle() = %d, outside cycle [%d, %d)", x, tt.mu, tt.mu+tt.lambda)
			}
			if !onCycle(f, x, tt.mu+tt.lambda) {
				t.Errorf("FindCycle() = %d does not recur under iteration", x)
			}
		})
	}
}

func TestFindCycleBudget(t *testing.T) {
	f := rhoMap(1000, 1000)
	if _, err := FindCycle(f, 10, 0, 5); !errors.Is(err, ErrDomainExhausted) {
		t.Errorf("error = %v, want ErrDomainExhausted", err)
	}
}

// The published test vector for the keyed construction: 4-byte blocks,
// 100 stacks, start 0.
func TestFindCyclePRF(t *testing.T) {
	o := NewBlockOracle(mustKey(t, "f7f2261c616d8f4e7c39a1004ed34022"), 4, 4)
	a, err := NewDomainAdapter(o)
	if err != nil {
		t.Fatal(err)
	}
	x, err := FindCycle(a.Calc, 100, 0, 1<<24)
	if err != nil {
		t.Fatal(err)
	}
	if x != 8391269 {
		t.Errorf("FindCycle() = %d, want 8391269", x)
	}
}

func TestFindCycleCurve(t *testing.T) {
	if testing.Short() {
		t.Skip("curve walk is slow")
	}
	a, err := NewDomainAdapter(NewCurveOracle(2, 2))
	if err != nil {
		t.Fatal(err)
	}
	x, err := FindCycle(a.Calc, 16, 0, 1<<16)
	if err != nil {
		t.Fatal(err)
	}
	if !onCycle(a.Calc, x, 1<<16) {
		t.Errorf("FindCycle() = %d does not recur under iteration", x)
	}
}

func FuzzFindCycle(f *testing.F) {
	f.Add([]byte{1, 2, 3}, uint64(0))
	f.Add([]byte{0xff, 0x00, 0x7f, 0x13}, uint64(7))

	f.Fuzz(func(t *testing.T, table []byte, start uint64) {
		if len(table) == 0 {
			t.Skip()
		}
		// A tiny self-map over 0..63 driven by the fuzz input.
		n := uint64(64)
		m := func(x uint64) uint64 {
			return uint64(table[x%uint64(len(table))]) % n
		}
		start %= n

		x, err := FindCycle(m, 7, start, 4*n)
		if err != nil {
			t.Fatalf("budget exceeded on a %d-point domain: %v", n, err)
		}
		if !onCycle(m, x, n) {
			t.Errorf("FindCycle() = %d does not recur under iteration", x)
		}
	})
}
