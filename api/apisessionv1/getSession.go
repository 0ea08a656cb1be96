package apisessionv1

import (
	"context"
)

func getSession(ctx context.Context) (*SessionResponse, error) {

	session, err := lookupSession(ctx)
	if err != nil {
		return nil, err
	}

	return newSessionResponse(session), nil
}
