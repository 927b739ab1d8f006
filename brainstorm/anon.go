package brainstorm

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// anonIDLength is the number of hex characters kept from the HMAC digest.
const anonIDLength = 16

// AnonID derives the session-scoped pseudonym for a real user id. The mapping
// is deterministic within a session and unrelated across sessions; it is not
// reversible without the server secret.
func AnonID(secret, sessionID, userID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(sessionID + ":" + userID))
	return hex.EncodeToString(mac.Sum(nil))[:anonIDLength]
}
