package util

import "math/bits"

type BitMask uint64

func (f BitMask) Has(flag BitMask) bool { return f&flag != 0 }
func (f *BitMask) Set(flag BitMask)     { *f |= flag }
func (f *BitMask) Unset(flag BitMask)   { *f &= ^flag }
func (f *BitMask) Toggle(flag BitMask)  { *f ^= flag }

func (f BitMask) PopCount() int { return bits.OnesCount64(uint64(f)) }

func CombineBitMasks(masks ...BitMask) BitMask {
	all := BitMask(0)

	for _, m := range masks {
		all |= m
	}

	return all
}

// LowestUnset returns the lowest single-bit mask not present in f,
// or 0 when all 64 bits are occupied.
func LowestUnset(f BitMask) BitMask {
	for bit := BitMask(1); bit != 0; bit <<= 1 {
		if !f.Has(bit) {
			return bit
		}
	}
	return 0
}
