package ascon

import (
	"encoding/binary"
	"io"
)

// Stream is the streaming surface of the Ascon-AEAD128 controller
// (spec.md §4.4). Unlike AEAD128, which requires the whole plaintext or
// ciphertext up front, a Stream accepts associated data and message
// bytes in arbitrarily sized chunks across multiple Write calls,
// buffering partial rate blocks internally.
//
// A Stream walks the controller's states in order:
//
//	LOAD_KEY/LOAD_NONCE/INIT_PERMUTE (NewSealStream/NewOpenStream)
//	ABSORB_AD                        (AD)
//	DOMAIN_SEP                       (closing the AD writer)
//	PROCESS_MSG                      (Message)
//	FINAL_PERMUTE/EMIT_OR_VERIFY_TAG (Seal/VerifyClose)
//	IDLE                             (Seal/VerifyClose returned)
//
// Calling AD or Message out of order, or reusing a Stream after Seal or
// VerifyClose, is a MisuseError panic: it is a programming error, not a
// runtime condition (spec.md §7).
type Stream struct {
	cfg    Config
	mode   streamMode
	phase  ctrlState
	s      State
	kh, kl uint64

	buf    [16]byte
	valid  [16]bool
	filled int

	writerOpen bool

	ciphertext []byte // accumulated output, seal mode
	plaintext  []byte // accumulated recovered bytes, open mode; held back until VerifyClose
}

type streamMode int

const (
	streamSeal streamMode = iota
	streamOpen
)

type ctrlState int

const (
	ctrlAbsorbAD   ctrlState = iota // ABSORB_AD
	ctrlProcessMsg                  // PROCESS_MSG
	ctrlFinal                       // message closed, awaiting FINAL_PERMUTE
	ctrlIdle                        // IDLE
)

func newStream(key, nonce []byte, cfg Config, mode streamMode) *Stream {
	if err := cfg.Validate(); err != nil {
		panic(&MisuseError{Reason: err.Error()})
	}
	st := &Stream{cfg: cfg, mode: mode, phase: ctrlAbsorbAD}
	st.kh, st.kl = st.s.Initialize(key, nonce, cfg)
	return st
}

// NewSealStream begins a streaming encryption operation.
func NewSealStream(key, nonce []byte, cfg Config) *Stream {
	return newStream(key, nonce, cfg, streamSeal)
}

// NewOpenStream begins a streaming decryption operation. The recovered
// plaintext is held internally until VerifyClose confirms the tag.
func NewOpenStream(key, nonce []byte, cfg Config) *Stream {
	return newStream(key, nonce, cfg, streamOpen)
}

func (st *Stream) resetBlock() {
	st.buf = [16]byte{}
	st.valid = [16]bool{}
	st.filled = 0
}

// AD returns a writer for associated data. The returned writer must be
// closed — which fires the always-on domain-separation step — before
// Message may be called. AD panics if called outside the ABSORB_AD
// phase or while another streaming writer is open.
func (st *Stream) AD() io.WriteCloser {
	if st.phase != ctrlAbsorbAD {
		panic(&MisuseError{Reason: "AD called outside the ABSORB_AD phase"})
	}
	if st.writerOpen {
		panic(&MisuseError{Reason: "a streaming writer is already open"})
	}
	st.writerOpen = true
	return &phaseWriter{st: st, ad: true}
}

// Message returns a writer for plaintext (seal mode) or ciphertext
// (open mode). The returned writer must be closed before Seal or
// VerifyClose may be called. Message panics if called outside the
// PROCESS_MSG phase or while another streaming writer is open.
func (st *Stream) Message() io.WriteCloser {
	if st.phase != ctrlProcessMsg {
		panic(&MisuseError{Reason: "Message called outside the PROCESS_MSG phase"})
	}
	if st.writerOpen {
		panic(&MisuseError{Reason: "a streaming writer is already open"})
	}
	st.writerOpen = true
	return &phaseWriter{st: st, ad: false}
}

// Seal finalizes a streaming encryption: it runs FINAL_PERMUTE and
// returns the accumulated ciphertext and the 16-byte tag. Seal panics
// if called on an open-mode Stream or before the message writer has
// been closed.
func (st *Stream) Seal() (ciphertext, tag []byte) {
	if st.mode != streamSeal {
		panic(&MisuseError{Reason: "Seal called on a decryption Stream"})
	}
	if st.phase != ctrlFinal {
		panic(&MisuseError{Reason: "Seal called before the message writer was closed"})
	}
	t := st.s.Finalize(st.kh, st.kl, st.cfg)
	st.phase = ctrlIdle
	return st.ciphertext, t[:]
}

// VerifyClose finalizes a streaming decryption: it runs FINAL_PERMUTE,
// compares the computed tag to want, and reports the verdict. On
// success it returns the recovered plaintext accumulated across the
// Message writer's Write calls. On failure it returns ErrAuthFailed and
// a nil plaintext; the internally buffered plaintext is zeroed first, so
// no recovered plaintext escapes an authentication failure (invariant
// 5). VerifyClose panics if called on a seal-mode Stream or before the
// message writer has been closed.
func (st *Stream) VerifyClose(want []byte) (plaintext []byte, err error) {
	if st.mode != streamOpen {
		panic(&MisuseError{Reason: "VerifyClose called on an encryption Stream"})
	}
	if st.phase != ctrlFinal {
		panic(&MisuseError{Reason: "VerifyClose called before the message writer was closed"})
	}
	t := st.s.Finalize(st.kh, st.kl, st.cfg)
	st.phase = ctrlIdle
	if !tagsEqual(t, want) {
		for i := range st.plaintext {
			st.plaintext[i] = 0
		}
		return nil, ErrAuthFailed
	}
	return st.plaintext, nil
}

// phaseWriter is the io.WriteCloser returned by Stream.AD and
// Stream.Message. It buffers writes into 16-byte rate blocks, feeding
// each completed block through the appropriate phase operator and
// padding the final, possibly-partial block on Close.
type phaseWriter struct {
	st     *Stream
	ad     bool
	closed bool
}

func (w *phaseWriter) Write(p []byte) (int, error) {
	if w.closed {
		panic(&MisuseError{Reason: "write to a closed stream writer"})
	}
	total := len(p)
	for len(p) > 0 {
		n := copy(w.st.buf[w.st.filled:], p)
		for i := 0; i < n; i++ {
			w.st.valid[w.st.filled+i] = true
		}
		w.st.filled += n
		p = p[n:]
		if w.st.filled == 16 {
			w.st.consumeFullBlock(w.ad)
			w.st.resetBlock()
		}
	}
	return total, nil
}

func (w *phaseWriter) Close() error {
	if w.closed {
		panic(&MisuseError{Reason: "stream writer closed twice"})
	}
	w.closed = true
	w.st.writerOpen = false
	w.st.consumeFinalBlock(w.ad)
	w.st.resetBlock()
	if w.ad {
		w.st.s.DomainSeparate()
		w.st.phase = ctrlProcessMsg
	} else {
		w.st.phase = ctrlFinal
	}
	return nil
}

func (st *Stream) consumeFullBlock(ad bool) {
	switch {
	case ad:
		st.s.AbsorbBlock(st.buf[:], st.cfg)
	case st.mode == streamSeal:
		var out [16]byte
		st.s.EncryptFull(st.buf[:], out[:], st.cfg)
		st.ciphertext = append(st.ciphertext, out[:]...)
	default: // streamOpen
		var out [16]byte
		st.s.DecryptFull(st.buf[:], out[:], st.cfg)
		st.plaintext = append(st.plaintext, out[:]...)
	}
}

// consumeFinalBlock finalizes a possibly-partial rate block using the
// CCW-word pad/pad2 helpers (pad.go), in contrast to the batch AEAD128
// path, which finalizes the same kind of block with a one-shot
// 16-byte scratch buffer (phases.go's AbsorbFinal/EncryptFinal/
// DecryptFinal). Both expressions implement the same spec.md §4.2
// semantics.
func (st *Stream) consumeFinalBlock(ad bool) {
	switch {
	case ad:
		padded := pad(st.buf[:], st.valid[:])
		st.s[0] ^= binary.LittleEndian.Uint64(padded[0:8])
		st.s[1] ^= binary.LittleEndian.Uint64(padded[8:16])
		st.s.Permute(RoundsB, st.cfg)

	case st.mode == streamSeal:
		padded := pad(st.buf[:], st.valid[:])
		st.s[0] ^= binary.LittleEndian.Uint64(padded[0:8])
		st.s[1] ^= binary.LittleEndian.Uint64(padded[8:16])

		var out [16]byte
		binary.LittleEndian.PutUint64(out[0:8], st.s[0])
		binary.LittleEndian.PutUint64(out[8:16], st.s[1])
		st.ciphertext = append(st.ciphertext, out[:st.filled]...)

	default: // streamOpen
		var stateBytes [16]byte
		binary.LittleEndian.PutUint64(stateBytes[0:8], st.s[0])
		binary.LittleEndian.PutUint64(stateBytes[8:16], st.s[1])

		ptFull := make([]byte, 16)
		for i := 0; i < st.filled; i++ {
			ptFull[i] = st.buf[i] ^ stateBytes[i]
		}
		st.plaintext = append(st.plaintext, ptFull[:st.filled]...)

		newState := pad2(st.buf[:], stateBytes[:], st.valid[:])
		st.s[0] = binary.LittleEndian.Uint64(newState[0:8])
		st.s[1] = binary.LittleEndian.Uint64(newState[8:16])
	}
}

var _ io.WriteCloser = (*phaseWriter)(nil)
