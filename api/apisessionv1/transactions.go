package apisessionv1

import (
	"context"

	"github.com/fulldump/inmemdb/engine"
)

type transactionResponse struct {
	Depth int `json:"depth"`
}

func transaction(ctx context.Context, f func(e *engine.Engine) error) (*transactionResponse, error) {

	session, err := lookupSession(ctx)
	if err != nil {
		return nil, err
	}

	result := &transactionResponse{}
	err = session.Do(func(e *engine.Engine) error {
		err := f(e)
		result.Depth = e.Depth()
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func begin(ctx context.Context) (*transactionResponse, error) {
	return transaction(ctx, func(e *engine.Engine) error {
		e.Begin()
		return nil
	})
}

func rollback(ctx context.Context) (*transactionResponse, error) {
	return transaction(ctx, func(e *engine.Engine) error {
		return e.Rollback()
	})
}

func commit(ctx context.Context) (*transactionResponse, error) {
	return transaction(ctx, func(e *engine.Engine) error {
		return e.Commit()
	})
}

type endResponse struct {
	Finalized int  `json:"finalized"`
	Committed bool `json:"committed"`
}

// end terminates the session. Open transactions are committed or abandoned
// depending on the server configuration.
func end(ctx context.Context) (*endResponse, error) {

	s := GetServicer(ctx)

	session, err := lookupSession(ctx)
	if err != nil {
		return nil, err
	}

	n, err := s.EndSession(session.ID)
	if err != nil {
		return nil, err
	}

	return &endResponse{
		Finalized: n,
		Committed: n > 0 && s.CommitOnEnd(),
	}, nil
}
