package models

import "crypto/rand"

// Unambiguous uppercase alphabet for referral codes and TrxIDs
// (no 0/O or 1/I lookalikes).
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewCode returns a random human-facing code of n characters.
// Uniqueness is the caller's problem; see ledger.UniqueReferralCode.
func NewCode(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails if the OS entropy source is broken;
		// nothing sensible to do but panic at that point.
		panic(err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf)
}
