package ascon

// pad and pad2 implement the two word-level padding helpers spec.md's
// padding section describes for a CCW-wide rate word carrying a
// byte-valid mask. Both operate on equal-length byte slices; v[i] is
// the validity bit for byte i. They back the streaming controller
// (stream.go), which accumulates a rate block across arbitrary-sized
// Write calls and needs to padded-finalize it one byte at a time as
// validity arrives. The batch AEAD128 path (aead.go/phases.go) instead
// finalizes the last block in one shot with a 16-byte scratch buffer;
// TestStreamMatchesBatch checks that the two expressions agree.

// pad emits the 10*-padded form of in given validity mask v: valid
// bytes pass through unchanged, the first invalid byte becomes 0x01,
// and all bytes after that are 0x00.
func pad(in []byte, v []bool) []byte {
	out := make([]byte, len(in))
	for i := range in {
		switch {
		case v[i]:
			out[i] = in[i]
		case i == 0 || v[i-1]:
			out[i] = 0x01
		default:
			out[i] = 0x00
		}
	}
	return out
}

// pad2 produces the updated state bytes for a partial final block during
// decryption: valid positions are overwritten by the ciphertext byte,
// the first invalid position is XORed with 0x01, and the remaining
// positions are left as the prior state byte.
func pad2(ct, stateBytes []byte, v []bool) []byte {
	out := make([]byte, len(stateBytes))
	for i := range stateBytes {
		switch {
		case v[i]:
			out[i] = ct[i]
		case i == 0 || v[i-1]:
			out[i] = stateBytes[i] ^ 0x01
		default:
			out[i] = stateBytes[i]
		}
	}
	return out
}
