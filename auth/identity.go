// Package auth is the boundary to the external identity provider. The
// upstream gateway authenticates users and forwards the verified identity as
// request headers; this package only names the roles and validates the
// websocket connect credential. It performs no authentication of its own.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// Stream roles as supplied by the identity provider.
const (
	RoleStudent     = "student"
	RoleStreamAdmin = "stream_admin"
	RoleAdmin       = "admin"
)

// Identity headers injected by the gateway.
const (
	UserIDHeader     = "x-user-id"
	StreamRoleHeader = "x-stream-role"
)

var ErrInvalidToken = errors.New("invalid connect token")

// IsStreamAdmin reports whether the role may administer a stream.
func IsStreamAdmin(role string) bool {
	return role == RoleStreamAdmin || role == RoleAdmin
}

// TokenValidator checks the credential a client presents once when opening a
// persistent connection and resolves it to a user id.
type TokenValidator interface {
	Validate(token string) (string, error)
}

// HMACTokenValidator accepts tokens of the form "userID:signature" where the
// signature is hex(HMAC-SHA256(secret, userID)). The gateway mints these for
// authenticated users.
type HMACTokenValidator struct {
	Secret string
}

func (v *HMACTokenValidator) Validate(token string) (string, error) {
	userID, signature, ok := strings.Cut(token, ":")
	if !ok || userID == "" {
		return "", ErrInvalidToken
	}
	if !hmac.Equal([]byte(signature), []byte(v.sign(userID))) {
		return "", ErrInvalidToken
	}
	return userID, nil
}

// MintToken issues a connect token for a user. Exposed for the gateway and
// for tests.
func (v *HMACTokenValidator) MintToken(userID string) string {
	return userID + ":" + v.sign(userID)
}

func (v *HMACTokenValidator) sign(userID string) string {
	mac := hmac.New(sha256.New, []byte(v.Secret))
	mac.Write([]byte(userID))
	return hex.EncodeToString(mac.Sum(nil))
}
