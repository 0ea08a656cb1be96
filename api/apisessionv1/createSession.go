package apisessionv1

import (
	"context"
	"net/http"
)

type createSessionRequest struct {
	Name string `json:"name"`
}

func createSession(ctx context.Context, w http.ResponseWriter, input *createSessionRequest) (*SessionResponse, error) {

	s := GetServicer(ctx)

	session, err := s.CreateSession(input.Name)
	if err != nil {
		return nil, err
	}

	w.WriteHeader(http.StatusCreated)
	return newSessionResponse(session), nil
}
