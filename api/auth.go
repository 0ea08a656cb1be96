package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/fulldump/box"
	"github.com/golang-jwt/jwt/v5"
)

var ErrUnauthorized = errors.New("unauthorized")

// Authenticate accepts either the X-Api-Key/X-Api-Secret pair or a bearer
// token signed with jwtSecret. With no credentials configured every request
// passes.
func Authenticate(apiKey, apiSecret, jwtSecret string) box.I {

	open := apiKey == "" && apiSecret == "" && jwtSecret == ""

	return func(next box.H) box.H {
		return func(ctx context.Context) {

			if open {
				next(ctx)
				return
			}

			r := box.GetRequest(ctx)

			if bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok && jwtSecret != "" {
				err := validateToken(strings.TrimSpace(bearer), jwtSecret)
				if err != nil {
					box.SetError(ctx, fmt.Errorf("%w: %s", ErrUnauthorized, err.Error()))
					return
				}
				next(ctx)
				return
			}

			if apiKey == "" && apiSecret == "" {
				box.SetError(ctx, ErrUnauthorized)
				return
			}

			key := r.Header.Get("X-Api-Key")
			secret := r.Header.Get("X-Api-Secret")
			if !equal(key, apiKey) || !equal(secret, apiSecret) {
				box.SetError(ctx, ErrUnauthorized)
				return
			}

			next(ctx)
		}
	}
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func validateToken(tokenString, secret string) error {

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}

	if !token.Valid {
		return errors.New("invalid token")
	}

	return nil
}
