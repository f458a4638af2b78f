// Copyright (c) 2024 KorenX.
// Licensed under the MIT license.

// Package prfattack implements generic collision, cycle and preimage
// attacks against keyed PRF oracles: Floyd and Nivasch cycle detection
// over an oracle-derived self-map, and Hellman's time-memory tradeoff
// for repeated preimage recovery.
package prfattack

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Oracle is a black-box keyed function over integer domains. Evaluate is
// the single query operation; the remaining methods publish the input and
// output cardinalities. Domain and range sizes are powers of 256, so
// DomainBytes and RangeBytes fully determine them.
type Oracle interface {
	Evaluate(x uint64) uint64
	Domain() uint64
	Range() uint64
	DomainBytes() int
	RangeBytes() int
}

type blockOracle struct {
	block       cipher.Block
	domainBytes int
	rangeBytes  int
}

// NewBlockOracle returns an AES-128 backed PRF oracle over a domain of
// 2^(8*domainBytes) and a range of 2^(8*rangeBytes). The input is encoded
// as one big-endian cipher block and the output is the trailing rangeBytes
// of the ciphertext.
//
// domainBytes and rangeBytes must each be in 1..7 so that the sizes and
// plain inputs fit in a uint64. A compressing oracle additionally needs
// domainBytes+rangeBytes <= 7 for the adapter's expanded query points to
// fit; NewDomainAdapter enforces that.
func NewBlockOracle(key []byte, domainBytes, rangeBytes int) Oracle {
	if len(key) != 16 {
		panic("prfattack: oracle key must be 16 bytes (AES-128)")
	}
	if domainBytes < 1 || domainBytes > 7 || rangeBytes < 1 || rangeBytes > 7 {
		panic("prfattack: byte lengths must be in 1..7")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		panic(err)
	}
	return &blockOracle{
		block:       block,
		domainBytes: domainBytes,
		rangeBytes:  rangeBytes,
	}
}

func (o *blockOracle) Evaluate(x uint64) uint64 {
	var pt, ct [16]byte
	binary.BigEndian.PutUint64(pt[8:], x)
	o.block.Encrypt(ct[:], pt[:])

	out := binary.BigEndian.Uint64(ct[8:])
	mask := uint64(1)<<(8*o.rangeBytes) - 1
	return out & mask
}

func (o *blockOracle) Domain() uint64 { return 1 << (8 * o.domainBytes) }
func (o *blockOracle) Range() uint64 { return 1 << (8 * o.rangeBytes) }
func (o *blockOracle) DomainBytes() int { return o.domainBytes }
func (o *blockOracle) RangeBytes() int { return o.rangeBytes }

type curveOracle struct {
	domainBytes int
	rangeBytes  int
}

// NewCurveOracle returns an oracle mapping x to the truncated X coordinate
// of (x+1)*G on secp256k1. The map is one-way under the discrete log
// assumption, which makes it a useful structurally different target for
// the cycle finders. The +1 keeps the scalar away from the group identity.
func NewCurveOracle(domainBytes, rangeBytes int) Oracle {
	if domainBytes < 1 || domainBytes > 7 || rangeBytes < 1 || rangeBytes > 7 {
		panic("prfattack: byte lengths must be in 1..7")
	}
	return &curveOracle{domainBytes: domainBytes, rangeBytes: rangeBytes}
}

func (o *curveOracle) Evaluate(x uint64) uint64 {
	var kb [32]byte
	binary.BigEndian.PutUint64(kb[24:], x+1)

	var k secp256k1.ModNScalar
	k.SetBytes(&kb)

	var pt secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&k, &pt)
	pt.ToAffine()

	xb := pt.X.Bytes()
	out := binary.BigEndian.Uint64(xb[24:])
	mask := uint64(1)<<(8*o.rangeBytes) - 1
	return out & mask
}

func (o *curveOracle) Domain() uint64 { return 1 << (8 * o.domainBytes) }
func (o *curveOracle) Range() uint64 { return 1 << (8 * o.rangeBytes) }
func (o *curveOracle) DomainBytes() int { return o.domainBytes }
func (o *curveOracle) RangeBytes() int { return o.rangeBytes }
