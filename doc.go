// Package ascon implements Ascon-AEAD128, the authenticated-encryption
// algorithm standardized in NIST SP 800-232.
//
// https://csrc.nist.gov/pubs/sp/800/232/final
package ascon
