package binkp

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"strings"
)

const cramPrefix = "CRAM-MD5-"

// generateChallenge returns a random hex token suitable for an M_NUL OPT
// CRAM-MD5 challenge.
func generateChallenge() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// cramDigest computes HMAC-MD5(password, challenge) hex-encoded, the digest
// BinkP's CRAM-MD5 variant sends in place of a plaintext password.
func cramDigest(password, challenge string) string {
	mac := hmac.New(md5.New, []byte(password))
	mac.Write([]byte(challenge))
	return hex.EncodeToString(mac.Sum(nil))
}

// formatCRAMPassword builds the M_PWD argument for a CRAM-MD5 response.
func formatCRAMPassword(password, challenge string) string {
	return cramPrefix + cramDigest(password, challenge)
}

// parseCRAMChallenge extracts the challenge token from an M_NUL "OPT"
// value such as "CRAM-MD5-a1b2c3...", returning ok=false if OPT did not
// advertise CRAM-MD5.
func parseCRAMChallenge(optValue string) (challenge string, ok bool) {
	for _, tok := range strings.Fields(optValue) {
		if strings.HasPrefix(tok, cramPrefix) {
			return strings.TrimPrefix(tok, cramPrefix), true
		}
	}
	return "", false
}

// parseCRAMResponse extracts the digest from an M_PWD value of the form
// "CRAM-MD5-<digest>", returning ok=false for a plaintext password.
func parseCRAMResponse(pwdValue string) (digest string, ok bool) {
	if strings.HasPrefix(pwdValue, cramPrefix) {
		return strings.TrimPrefix(pwdValue, cramPrefix), true
	}
	return "", false
}

// checkPassword verifies a peer's M_PWD value against the expected
// plaintext password, accounting for both the CRAM-MD5 and the plain-text
// forms the spec allows.
func checkPassword(pwdValue, expected, challenge string) bool {
	if digest, ok := parseCRAMResponse(pwdValue); ok {
		return challenge != "" && digest == cramDigest(expected, challenge)
	}
	return pwdValue == expected
}
