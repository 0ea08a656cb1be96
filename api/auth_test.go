package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
	"github.com/golang-jwt/jwt/v5"

	"github.com/fulldump/inmemdb/database"
	"github.com/fulldump/inmemdb/service"
)

func signToken(secret string, expires time.Time) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"name": "tester",
		"exp":  expires.Unix(),
	})
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		panic(err)
	}
	return s
}

func TestAuthentication(t *testing.T) {

	biff.Alternative("Authentication", func(a *biff.A) {

		db := database.NewDatabase(&database.Config{})

		s := service.NewService(db)

		apiKey := "my-key"
		apiSecret := "my-secret"
		jwtSecret := "my-jwt-secret"

		b := Build(s, Options{
			Version:   "test",
			ApiKey:    apiKey,
			ApiSecret: apiSecret,
			JwtSecret: jwtSecret,
		})
		b.WithInterceptors(
			PrettyErrorInterceptor,
		)

		api := apitest.NewWithHandler(b)

		a.Alternative("Missing headers", func(a *biff.A) {
			resp := api.Request("GET", "/v1/sessions").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusUnauthorized)
			biff.AssertEqualJson(resp.BodyJson(), map[string]any{
				"error": map[string]any{
					"message":     "unauthorized",
					"description": "user is not authenticated",
				},
			})
		})

		a.Alternative("Wrong Key", func(a *biff.A) {
			resp := api.Request("GET", "/v1/sessions").
				WithHeader("X-Api-Key", "wrong-key").
				WithHeader("X-Api-Secret", apiSecret).
				Do()
			biff.AssertEqual(resp.StatusCode, http.StatusUnauthorized)
		})

		a.Alternative("Wrong Secret", func(a *biff.A) {
			resp := api.Request("GET", "/v1/sessions").
				WithHeader("X-Api-Key", apiKey).
				WithHeader("X-Api-Secret", "wrong-secret").
				Do()
			biff.AssertEqual(resp.StatusCode, http.StatusUnauthorized)
		})

		a.Alternative("Correct credentials", func(a *biff.A) {
			resp := api.Request("GET", "/v1/sessions").
				WithHeader("X-Api-Key", apiKey).
				WithHeader("X-Api-Secret", apiSecret).
				Do()
			biff.AssertEqual(resp.StatusCode, http.StatusOK)
		})

		a.Alternative("Valid token", func(a *biff.A) {
			resp := api.Request("GET", "/v1/sessions").
				WithHeader("Authorization", "Bearer "+signToken(jwtSecret, time.Now().Add(time.Hour))).
				Do()
			biff.AssertEqual(resp.StatusCode, http.StatusOK)
		})

		a.Alternative("Token signed with another secret", func(a *biff.A) {
			resp := api.Request("GET", "/v1/sessions").
				WithHeader("Authorization", "Bearer "+signToken("other", time.Now().Add(time.Hour))).
				Do()
			biff.AssertEqual(resp.StatusCode, http.StatusUnauthorized)
		})

		a.Alternative("Expired token", func(a *biff.A) {
			resp := api.Request("GET", "/v1/sessions").
				WithHeader("Authorization", "Bearer "+signToken(jwtSecret, time.Now().Add(-time.Hour))).
				Do()
			biff.AssertEqual(resp.StatusCode, http.StatusUnauthorized)
		})

	})
}
