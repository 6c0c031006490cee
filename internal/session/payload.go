package session

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// DefaultIssuer is written to the iss claim of every token.
const DefaultIssuer = "epicevents_crm"

// DefaultTTL is the validity window applied on issuance.
const DefaultTTL = 12 * time.Hour

// Payload is the decoded content of a session token.
type Payload struct {
	UserID    int64
	Subject   string
	Issuer    string
	ExpiresAt time.Time
}

// SamePrincipal reports whether both payloads identify the same collaborator.
func (p Payload) SamePrincipal(other Payload) bool {
	return p.UserID == other.UserID && p.Subject == other.Subject
}

// Claims is the wire form of Payload. Sub is declared at the top level so an
// empty subject is still written for superusers.
type Claims struct {
	UserID  int64  `json:"user_id"`
	Subject string `json:"sub"`
	jwt.RegisteredClaims
}

func claimsFromPayload(p Payload) *Claims {
	return &Claims{
		UserID:  p.UserID,
		Subject: p.Subject,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.Issuer,
			ExpiresAt: jwt.NewNumericDate(p.ExpiresAt),
		},
	}
}

func (c *Claims) payload() *Payload {
	p := &Payload{
		UserID:  c.UserID,
		Subject: c.Subject,
		Issuer:  c.Issuer,
	}
	if c.ExpiresAt != nil {
		p.ExpiresAt = c.ExpiresAt.Time.UTC()
	}
	return p
}
