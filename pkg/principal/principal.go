// Package principal issues and verifies the HS256 operator tokens accepted by the admin API.
package principal

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

const Issuer = "clubdesk"

// Claims carries the operator id in the standard subject claim.
type Claims struct {
	Name string `json:"name,omitempty"`
	jwt.StandardClaims
}

type Principal struct {
	OperatorID string
	Name       string
}

// Sign issues a token for operatorID valid for ttl.
func Sign(secret []byte, operatorID, name string, ttl time.Duration, now time.Time) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("empty signing secret")
	}
	claims := &Claims{
		Name: name,
		StandardClaims: jwt.StandardClaims{
			Subject:   operatorID,
			Issuer:    Issuer,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Parse verifies token and returns its principal. Only HS256 is accepted.
func Parse(secret []byte, token string) (*Principal, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return &Principal{OperatorID: claims.Subject, Name: claims.Name}, nil
}
