package openid4vp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrEphemeralIDMismatch is returned when a status poll presents an
// ephemeral ID that does not match the one derived for its claimed
// sequence number.
var ErrEphemeralIDMismatch = errors.New("openid4vp: ephemeral id does not match session")

// EphemeralIDSecret is the verifier-held HMAC key used to derive rotating
// per-poll session identifiers, so that a disclosure session's static
// session token never appears in a URL a status-polling client (or a
// network observer) could otherwise correlate across requests.
type EphemeralIDSecret struct {
	key []byte
}

// NewEphemeralIDSecret wraps key for use with EphemeralID. key should be
// generated once at verifier startup and kept in memory only: any
// serialized form of it should be guarded to the same degree as a
// session-signing key.
func NewEphemeralIDSecret(key []byte) EphemeralIDSecret {
	return EphemeralIDSecret{key: key}
}

// EphemeralID derives the rotating identifier a client must present to
// poll sessionID's status at sequence number seq. Sequence is bumped by
// the verifier on every accepted poll, so an identifier leaked from one
// poll (e.g. via a shared QR scanner or proxy log) cannot be replayed for
// the next one.
func (s EphemeralIDSecret) EphemeralID(sessionID string, seq uint64) string {
	mac := hmac.New(sha256.New, s.key)
	fmt.Fprintf(mac, "%s:%d", sessionID, seq)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Verify reports whether candidate is the ephemeral ID for sessionID at
// seq, using a constant-time comparison to avoid leaking how many
// leading bytes matched.
func (s EphemeralIDSecret) Verify(sessionID string, seq uint64, candidate string) error {
	want := s.EphemeralID(sessionID, seq)
	if !hmac.Equal([]byte(want), []byte(candidate)) {
		return ErrEphemeralIDMismatch
	}
	return nil
}
