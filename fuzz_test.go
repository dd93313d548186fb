package ascon

import (
	"bytes"
	"testing"

	fuzz "github.com/trailofbits/go-fuzz-utils"
)

// FuzzStreamDivergence drives a randomized sequence of streaming writes
// through Stream -- varying associated-data/message length, write-chunk
// boundaries, and UROL/CCW -- and checks the result against the batch
// AEAD128 reference for the same inputs. This is the fuzz-driven half of
// testable property 4 (UROL/CCW equivalence) and exercises property 2's
// bit-flip rejection at scale.
func FuzzStreamDivergence(f *testing.F) {
	f.Add([]byte{0x00, 0x10, 0x00, 1, 1, 0x00})
	f.Add([]byte{0x21, 0x40, 3, 17, 5, 0x01, 0x02, 0x03})

	f.Fuzz(func(t *testing.T, data []byte) {
		tp, err := fuzz.NewTypeProvider(data)
		if err != nil {
			t.Skip(err)
		}

		key := make([]byte, KeySize)
		nonce := make([]byte, NonceSize)
		for i := range key {
			b, err := tp.GetByte()
			if err != nil {
				t.Skip(err)
			}
			key[i] = b
		}
		for i := range nonce {
			b, err := tp.GetByte()
			if err != nil {
				t.Skip(err)
			}
			nonce[i] = b
		}

		urolChoice, err := tp.GetByte()
		if err != nil {
			t.Skip(err)
		}
		ccwChoice, err := tp.GetByte()
		if err != nil {
			t.Skip(err)
		}
		urols := []int{1, 2, 4}
		ccws := []int{32, 64}
		cfg := Config{UROL: urols[int(urolChoice)%len(urols)], CCW: ccws[int(ccwChoice)%len(ccws)]}

		ad, err := tp.GetBytes()
		if err != nil {
			t.Skip(err)
		}
		pt, err := tp.GetBytes()
		if err != nil {
			t.Skip(err)
		}
		if len(ad) > 4096 || len(pt) > 4096 {
			t.Skip("input too large")
		}

		adChunk, err := tp.GetByte()
		if err != nil {
			t.Skip(err)
		}
		ptChunk, err := tp.GetByte()
		if err != nil {
			t.Skip(err)
		}

		a, err := NewAEAD128WithConfig(key, cfg)
		if err != nil {
			t.Skip(err)
		}
		want := a.Seal(nil, nonce, pt, ad)
		wantCT, wantTag := want[:len(want)-TagSize], want[len(want)-TagSize:]

		gotCT, gotTag := sealStream(t, key, nonce, ad, pt, cfg, int(adChunk)+1, int(ptChunk)+1)
		if !bytes.Equal(gotCT, wantCT) {
			t.Fatalf("streaming ciphertext diverged from the batch reference (cfg=%+v)", cfg)
		}
		if !bytes.Equal(gotTag, wantTag) {
			t.Fatalf("streaming tag diverged from the batch reference (cfg=%+v)", cfg)
		}

		gotPT, err := openStream(t, key, nonce, ad, gotCT, gotTag, cfg, int(adChunk)+1, int(ptChunk)+1)
		if err != nil {
			t.Fatalf("streaming VerifyClose failed on a value this same Stream produced: %v", err)
		}
		if !bytes.Equal(gotPT, pt) {
			t.Fatalf("streaming plaintext diverged from the original input (cfg=%+v)", cfg)
		}

		if len(gotTag) > 0 {
			badTag := append([]byte{}, gotTag...)
			badTag[0] ^= 1
			if _, err := openStream(t, key, nonce, ad, gotCT, badTag, cfg, int(adChunk)+1, int(ptChunk)+1); err != ErrAuthFailed {
				t.Fatalf("VerifyClose accepted a tampered tag (cfg=%+v)", cfg)
			}
		}
	})
}
