package ascon

import "encoding/binary"

// Initialize loads S with IV||K||N, runs the 12-round permutation, and
// mixes the key back in (spec.md §4.3, Initialize). It returns the two
// little-endian key lanes Kh, Kl so callers don't need to re-decode the
// key for Finalize.
func (s *State) Initialize(key, nonce []byte, cfg Config) (kh, kl uint64) {
	if len(key) != KeySize {
		panic(&MisuseError{Reason: "invalid key length"})
	}
	if len(nonce) != NonceSize {
		panic(&MisuseError{Reason: "invalid nonce length"})
	}

	kh = binary.LittleEndian.Uint64(key[0:8])
	kl = binary.LittleEndian.Uint64(key[8:16])

	s[0] = iv
	s[1] = kh
	s[2] = kl
	s[3] = binary.LittleEndian.Uint64(nonce[0:8])
	s[4] = binary.LittleEndian.Uint64(nonce[8:16])

	s.Permute(RoundsA, cfg)

	s[3] ^= kh
	s[4] ^= kl
	return kh, kl
}

// AbsorbAD absorbs associated data in 16-byte blocks with 10* padding on
// the final (possibly empty) block, then fires the domain-separation XOR
// unconditionally (spec.md §4.3, AbsorbAD; invariant 3).
func (s *State) AbsorbAD(ad []byte, cfg Config) {
	for len(ad) >= 16 {
		s.AbsorbBlock(ad[:16], cfg)
		ad = ad[16:]
	}
	s.AbsorbFinal(ad, cfg)
	s.DomainSeparate()
}

// AbsorbBlock absorbs one full 16-byte associated-data block and
// permutes for the next one.
func (s *State) AbsorbBlock(block []byte, cfg Config) {
	s[0] ^= binary.LittleEndian.Uint64(block[0:8])
	s[1] ^= binary.LittleEndian.Uint64(block[8:16])
	s.Permute(RoundsB, cfg)
}

// AbsorbFinal absorbs the final, 10*-padded associated-data block (0 to
// 15 bytes) and permutes. block may be empty, in which case the padded
// block is 0x01 followed by 15 zero bytes.
func (s *State) AbsorbFinal(block []byte, cfg Config) {
	var buf [16]byte
	n := copy(buf[:], block)
	buf[n] = 0x01
	s[0] ^= binary.LittleEndian.Uint64(buf[0:8])
	s[1] ^= binary.LittleEndian.Uint64(buf[8:16])
	s.Permute(RoundsB, cfg)
}

// DomainSeparate sets the most-significant bit of S4, distinguishing
// absorption of empty associated data from absorption of associated
// data that ends exactly on a block boundary. It always runs exactly
// once per operation, regardless of the length of the associated data.
func (s *State) DomainSeparate() {
	s[4] ^= 1 << 63
}

// EncryptFull absorbs one full 16-byte plaintext block, emits the
// corresponding ciphertext block to dst, and permutes for the next
// block. dst must have length at least 16.
func (s *State) EncryptFull(block, dst []byte, cfg Config) {
	s[0] ^= binary.LittleEndian.Uint64(block[0:8])
	s[1] ^= binary.LittleEndian.Uint64(block[8:16])
	binary.LittleEndian.PutUint64(dst[0:8], s[0])
	binary.LittleEndian.PutUint64(dst[8:16], s[1])
	s.Permute(RoundsB, cfg)
}

// EncryptFinal absorbs the final plaintext block (0 to 15 bytes,
// 10*-padded) and emits exactly len(block) bytes of ciphertext to dst.
// No permutation runs afterward; Finalize is the next transform on s.
func (s *State) EncryptFinal(block, dst []byte, cfg Config) {
	var buf [16]byte
	n := copy(buf[:], block)
	buf[n] = 0x01
	s[0] ^= binary.LittleEndian.Uint64(buf[0:8])
	s[1] ^= binary.LittleEndian.Uint64(buf[8:16])

	var out [16]byte
	binary.LittleEndian.PutUint64(out[0:8], s[0])
	binary.LittleEndian.PutUint64(out[8:16], s[1])
	copy(dst, out[:n])
}

// DecryptFull recovers one full 16-byte plaintext block from block
// (ciphertext), writes it to dst, overwrites S0||S1 with the ciphertext,
// and permutes for the next block.
func (s *State) DecryptFull(block, dst []byte, cfg Config) {
	x0 := binary.LittleEndian.Uint64(block[0:8])
	x1 := binary.LittleEndian.Uint64(block[8:16])
	binary.LittleEndian.PutUint64(dst[0:8], x0^s[0])
	binary.LittleEndian.PutUint64(dst[8:16], x1^s[1])
	s[0], s[1] = x0, x1
	s.Permute(RoundsB, cfg)
}

// DecryptFinal recovers the final 0-to-15-byte plaintext tail from block
// (ciphertext) into dst, and updates S0||S1 via the pad2 discipline:
// ciphertext bytes overwrite the state, the first byte past the tail is
// XORed with 0x01, and the rest are left alone. No permutation runs
// afterward.
func (s *State) DecryptFinal(block, dst []byte, cfg Config) {
	n := len(block)

	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], s[0])
	binary.LittleEndian.PutUint64(buf[8:16], s[1])

	for i := 0; i < n; i++ {
		dst[i] = block[i] ^ buf[i]
		buf[i] = block[i]
	}
	buf[n] ^= 0x01

	s[0] = binary.LittleEndian.Uint64(buf[0:8])
	s[1] = binary.LittleEndian.Uint64(buf[8:16])
}

// Finalize mixes the key into S2||S3, runs the 12-round permutation, and
// returns the 128-bit tag T = le64(S3^Kh) || le64(S4^Kl).
func (s *State) Finalize(kh, kl uint64, cfg Config) [TagSize]byte {
	s[2] ^= kh
	s[3] ^= kl
	s.Permute(RoundsA, cfg)

	var tag [TagSize]byte
	binary.LittleEndian.PutUint64(tag[0:8], s[3]^kh)
	binary.LittleEndian.PutUint64(tag[8:16], s[4]^kl)
	return tag
}
