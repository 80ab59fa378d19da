package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var hmacMethods = []string{
	jwt.SigningMethodHS256.Alg(),
	jwt.SigningMethodHS384.Alg(),
	jwt.SigningMethodHS512.Alg(),
}

// Verification is the outcome of checking one token. Claims is set only when
// Kind is NoFailure.
type Verification struct {
	Claims jwt.MapClaims
	Kind   FailureKind
	Err    error
}

func (v Verification) OK() bool {
	return v.Kind == NoFailure
}

func invalid(err error) Verification {
	return Verification{Kind: InvalidToken, Err: fmt.Errorf("%w: %v", ErrInvalidToken, err)}
}

type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify checks the HMAC signature and the exp/nbf claims of token.
func (v *Verifier) Verify(token string) (result Verification) {
	defer func() {
		if rec := recover(); rec != nil {
			result = invalid(fmt.Errorf("verifier panic: %v", rec))
		}
	}()

	if len(v.secret) == 0 {
		return invalid(fmt.Errorf("signing secret is not configured"))
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods(hmacMethods))
	if err != nil {
		return invalid(err)
	}
	if !parsed.Valid {
		return invalid(fmt.Errorf("token is not valid"))
	}

	return Verification{Claims: claims}
}
