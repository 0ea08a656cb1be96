package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fulldump/box"
	jsonv2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/fulldump/inmemdb/command"
	"github.com/fulldump/inmemdb/database"
	"github.com/fulldump/inmemdb/engine"
)

var ErrUnavailable = errors.New("temporary unavailable")

type PrettyError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
}

func (p PrettyError) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"error": struct {
			Message     string `json:"message"`
			Description string `json:"description"`
		}{
			p.Message,
			p.Description,
		},
	})
}

func InterceptorUnavailable(db *database.Database) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {

			status := db.GetStatus()
			if status == database.StatusOpening {
				box.SetError(ctx, fmt.Errorf("%w: opening", ErrUnavailable))
				return
			}
			if status == database.StatusClosing {
				box.SetError(ctx, fmt.Errorf("%w: closing", ErrUnavailable))
				return
			}
			next(ctx)
		}
	}
}

// errorStatus classifies err into an http status and a human description.
func errorStatus(ctx context.Context, err error) (int, string) {

	var arityErr *command.ArityError
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var streamSyntaxErr *jsontext.SyntacticError
	var streamSemanticErr *jsonv2.SemanticError

	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "user is not authenticated"
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "database is not operating, try again later"
	case errors.Is(err, box.ErrResourceNotFound):
		return http.StatusNotFound, fmt.Sprintf("resource '%s' not found", box.GetRequest(ctx).URL.String())
	case errors.Is(err, box.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, fmt.Sprintf("method '%s' not allowed", box.GetRequest(ctx).Method)
	case errors.Is(err, database.ErrSessionNotFound):
		return http.StatusNotFound, fmt.Sprintf("session '%s' not found", box.GetUrlParameter(ctx, "sessionId"))
	case errors.Is(err, database.ErrSessionAlreadyExists):
		return http.StatusConflict, "session name is already in use"
	case errors.Is(err, database.ErrSessionEnded):
		return http.StatusGone, "session has ended"
	case errors.Is(err, engine.ErrNoTransaction):
		return http.StatusConflict, command.OutputNoTransaction
	case errors.Is(err, engine.ErrEmptyKey):
		return http.StatusBadRequest, "key is required"
	case errors.Is(err, command.ErrUnknownCommand):
		return http.StatusBadRequest, command.OutputNotFound
	case errors.As(err, &arityErr):
		return http.StatusBadRequest, "Missing or unexpected arguments"
	case errors.As(err, &syntaxErr), errors.As(err, &streamSyntaxErr):
		return http.StatusBadRequest, "Malformed JSON"
	case errors.As(err, &typeErr), errors.As(err, &streamSemanticErr):
		return http.StatusBadRequest, "Unexpected JSON type"
	case errors.Is(err, io.EOF):
		return http.StatusBadRequest, "Empty body"
	}

	return http.StatusInternalServerError, "Unexpected error"
}

func PrettyErrorInterceptor(next box.H) box.H {
	return func(ctx context.Context) {

		next(ctx)

		err := box.GetError(ctx)
		if err == nil {
			return
		}
		w := box.GetResponse(ctx)

		status, description := errorStatus(ctx, err)

		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"message":     err.Error(),
				"description": description,
			},
		})
	}
}
