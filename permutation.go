// Copyright © 2023 by Andrew Ekstedt <andrew.ekstedt@gmail.com>
// All rights reserved. See LICENSE for details.

package ascon

import "math/bits"

// State is the 320-bit Ascon-p state: five 64-bit lanes S0..S4. The zero
// value is the all-zero state.
type State [Lanes]uint64

// Permute applies n rounds of Ascon-p to s. n must be one of 6, 8 or 12;
// the permutation itself is total and has no failure mode.
//
// cfg.UROL groups consecutive rounds into combinational steps of up to
// four rounds each. Every round within a group still runs the identical
// round function in the same order with the same constant, so the
// grouping is purely a code-shape choice: Permute's output does not
// depend on cfg.UROL. TestUnrollEquivalence checks this against every
// KAT vector.
func (s *State) Permute(n int, cfg Config) {
	step := cfg.UROL
	if step <= 0 {
		step = 1
	}
	for r := 0; r < n; r += step {
		group := step
		if r+group > n {
			group = n - r
		}
		for i := 0; i < group; i++ {
			s.round(roundConstant(n, r+i))
		}
	}
}

// round applies one round of Ascon-p: constant addition (folded into the
// pre-affine step below), the bit-sliced χ S-box, and linear diffusion.
func (s *State) round(c uint64) {
	lane0, lane1, lane2, lane3, lane4 := s[0], s[1], s[2], s[3], s[4]

	// Constant addition (Section 2.6.1) folded into the pre-affine map.
	lane2 ^= c

	// Pre-affine map (Section 4.1, step 2).
	lane0 ^= lane4
	lane4 ^= lane3
	lane2 ^= lane1

	// χ: b_i = a_i ^ (^a_{i+1} & a_{i+2}), indices mod 5.
	inv0 := ^lane0
	inv1 := ^lane1
	inv2 := ^lane2
	inv3 := ^lane3
	inv4 := ^lane4

	inv0 &= lane1
	inv1 &= lane2
	inv2 &= lane3
	inv3 &= lane4
	inv4 &= lane0

	lane0 ^= inv1
	lane1 ^= inv2
	lane2 ^= inv3
	lane3 ^= inv4
	lane4 ^= inv0

	// Post-affine map.
	lane1 ^= lane0
	lane0 ^= lane4
	lane3 ^= lane2
	lane2 = ^lane2

	// Linear diffusion layer, per lane.
	lane0 = lane0 ^ bits.RotateLeft64(lane0, -19) ^ bits.RotateLeft64(lane0, -28)
	lane1 = lane1 ^ bits.RotateLeft64(lane1, -61) ^ bits.RotateLeft64(lane1, -39)
	lane2 = lane2 ^ bits.RotateLeft64(lane2, -1) ^ bits.RotateLeft64(lane2, -6)
	lane3 = lane3 ^ bits.RotateLeft64(lane3, -10) ^ bits.RotateLeft64(lane3, -17)
	lane4 = lane4 ^ bits.RotateLeft64(lane4, -7) ^ bits.RotateLeft64(lane4, -41)

	s[0], s[1], s[2], s[3], s[4] = lane0, lane1, lane2, lane3, lane4
}
