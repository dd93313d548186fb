package ascon

import "errors"

// ErrAuthFailed is returned by AEAD128.Open and Stream.VerifyClose when
// the supplied tag does not match the computed one. No plaintext is
// released alongside this error.
var ErrAuthFailed = errors.New("ascon: message authentication failed")

// MisuseError reports a programming error at the package's interface:
// a wrong key/nonce length, or a streaming call made out of the
// LOAD_KEY -> LOAD_NONCE -> ABSORB_AD -> PROCESS_MSG -> IDLE order.
// It is not a runtime condition a caller can recover from, so it is
// raised with panic rather than returned.
type MisuseError struct {
	Reason string
}

func (e *MisuseError) Error() string { return "ascon: " + e.Reason }
