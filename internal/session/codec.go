package session

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Status classifies the outcome of TryDecode.
type Status int

const (
	// StatusInvalid covers malformed tokens and signature mismatches.
	StatusInvalid Status = iota
	// StatusExpired means the signature checked out but exp is in the past.
	StatusExpired
	// StatusValid means the payload can be trusted.
	StatusValid
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusExpired:
		return "expired"
	default:
		return "invalid"
	}
}

// Result is the tagged outcome of decoding a token once.
type Result struct {
	Status  Status
	Payload *Payload
	// Err is one of ErrMalformedToken, ErrSignatureInvalid or ErrTokenExpired
	// when Status is not StatusValid.
	Err error
}

// Option customises a Codec.
type Option func(*Codec)

// WithTTL overrides the validity window injected on Encode.
func WithTTL(ttl time.Duration) Option {
	return func(c *Codec) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithIssuer overrides the iss claim injected on Encode.
func WithIssuer(issuer string) Option {
	return func(c *Codec) {
		if issuer != "" {
			c.issuer = issuer
		}
	}
}

// WithClock replaces time.Now for issuance and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// Codec signs and verifies session tokens with a symmetric key.
type Codec struct {
	key    []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewCodec builds a codec for the given secret key.
func NewCodec(secretKey string, opts ...Option) (*Codec, error) {
	if secretKey == "" {
		return nil, ErrSecretKeyNotFound
	}
	c := &Codec{
		key:    []byte(secretKey),
		ttl:    DefaultTTL,
		issuer: DefaultIssuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL returns the validity window used on issuance.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// NewPayload builds a payload for a principal, expiring one TTL from now.
func (c *Codec) NewPayload(userID int64, subject string) Payload {
	return Payload{
		UserID:    userID,
		Subject:   subject,
		Issuer:    c.issuer,
		ExpiresAt: c.now().UTC().Add(c.ttl),
	}
}

// Encode signs the payload with HS256. A zero ExpiresAt is replaced by now + TTL.
func (c *Codec) Encode(p Payload) (string, error) {
	if p.ExpiresAt.IsZero() {
		p.ExpiresAt = c.now().UTC().Add(c.ttl)
	}
	if p.Issuer == "" {
		p.Issuer = c.issuer
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claimsFromPayload(p))
	return token.SignedString(c.key)
}

// Decode verifies the token. In strict mode signature and expiry failures are
// returned as errors; otherwise they yield a nil payload and a nil error.
// Malformed input fails in both modes.
func (c *Codec) Decode(tokenStr string, strict bool) (*Payload, error) {
	res := c.TryDecode(tokenStr)
	if res.Status == StatusValid {
		return res.Payload, nil
	}
	if strict || errors.Is(res.Err, ErrMalformedToken) {
		return nil, res.Err
	}
	return nil, nil
}

// TryDecode verifies the token once and classifies the outcome.
func (c *Codec) TryDecode(tokenStr string) Result {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)

	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return c.key, nil
	})
	switch {
	case err == nil && parsed.Valid:
		return Result{Status: StatusValid, Payload: claims.payload()}
	case errors.Is(err, jwt.ErrTokenExpired):
		return Result{Status: StatusExpired, Err: ErrTokenExpired}
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return Result{Status: StatusInvalid, Err: ErrSignatureInvalid}
	default:
		return Result{Status: StatusInvalid, Err: ErrMalformedToken}
	}
}
