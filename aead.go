package ascon

import (
	"crypto/cipher"
	"crypto/subtle"
	"fmt"
)

// AEAD128 is an Ascon-AEAD128 instance bound to a single 128-bit key. It
// implements crypto/cipher.AEAD. A zero AEAD128 is not valid; use
// NewAEAD128.
type AEAD128 struct {
	key [KeySize]byte
	cfg Config
}

// NewAEAD128 returns an AEAD128 bound to key, using the default
// Config. Use NewAEAD128WithConfig to select a non-default UROL/CCW.
func NewAEAD128(key []byte) (*AEAD128, error) {
	return NewAEAD128WithConfig(key, DefaultConfig())
}

// NewAEAD128WithConfig is NewAEAD128 with an explicit Config.
func NewAEAD128WithConfig(key []byte, cfg Config) (*AEAD128, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("ascon: bad key length %d", len(key))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &AEAD128{cfg: cfg}
	copy(a.key[:], key)
	return a, nil
}

// NonceSize implements cipher.AEAD.
func (a *AEAD128) NonceSize() int { return NonceSize }

// Overhead implements cipher.AEAD.
func (a *AEAD128) Overhead() int { return TagSize }

// Seal encrypts and authenticates plaintext, authenticates
// additionalData, and appends the result to dst, returning the
// extended slice. The nonce must be NonceSize bytes and, for a given
// key and additionalData, must never repeat across calls.
func (a *AEAD128) Seal(dst, nonce, plaintext, additionalData []byte) []byte {
	if len(nonce) != NonceSize {
		panic(&MisuseError{Reason: fmt.Sprintf("bad nonce length %d", len(nonce))})
	}

	var s State
	kh, kl := s.Initialize(a.key[:], nonce, a.cfg)
	s.AbsorbAD(additionalData, a.cfg)

	start := len(dst)
	dst = append(dst, make([]byte, len(plaintext)+TagSize)...)
	ct := dst[start : start+len(plaintext)]

	p := plaintext
	c := ct
	for len(p) >= 16 {
		s.EncryptFull(p[:16], c[:16], a.cfg)
		p, c = p[16:], c[16:]
	}
	s.EncryptFinal(p, c, a.cfg)

	tag := s.Finalize(kh, kl, a.cfg)
	copy(dst[start+len(plaintext):], tag[:])
	return dst
}

// Open decrypts and authenticates ciphertext (which must include the
// trailing tag) and authenticates additionalData, appending the
// recovered plaintext to dst and returning the extended slice. If
// authentication fails, Open returns ErrAuthFailed and dst is returned
// unmodified; no recovered plaintext is ever written to dst in that
// case.
func (a *AEAD128) Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error) {
	if len(nonce) != NonceSize {
		panic(&MisuseError{Reason: fmt.Sprintf("bad nonce length %d", len(nonce))})
	}
	if len(ciphertext) < TagSize {
		return dst, ErrAuthFailed
	}

	ctLen := len(ciphertext) - TagSize
	ct := ciphertext[:ctLen]
	wantTag := ciphertext[ctLen:]

	var s State
	kh, kl := s.Initialize(a.key[:], nonce, a.cfg)
	s.AbsorbAD(additionalData, a.cfg)

	plaintext := make([]byte, ctLen)
	c := ct
	p := plaintext
	for len(c) >= 16 {
		s.DecryptFull(c[:16], p[:16], a.cfg)
		c, p = c[16:], p[16:]
	}
	s.DecryptFinal(c, p, a.cfg)

	tag := s.Finalize(kh, kl, a.cfg)
	if !tagsEqual(tag, wantTag) {
		return dst, ErrAuthFailed
	}

	return append(dst, plaintext...), nil
}

// tagsEqual reports whether the 16-byte tag equals want, in time
// independent of their contents, via crypto/subtle's
// ConstantTimeCompare.
func tagsEqual(tag [TagSize]byte, want []byte) bool {
	if len(want) != TagSize {
		return false
	}
	return subtle.ConstantTimeCompare(tag[:], want) == 1
}

var _ cipher.AEAD = (*AEAD128)(nil)
