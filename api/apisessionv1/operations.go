package apisessionv1

import (
	"context"

	"github.com/fulldump/inmemdb/command"
	"github.com/fulldump/inmemdb/engine"
)

type setRequest struct {
	Key   string  `json:"key"`
	Value *string `json:"value"`
}

func set(ctx context.Context, input *setRequest) error {

	session, err := lookupSession(ctx)
	if err != nil {
		return err
	}

	if input.Value == nil {
		return &command.ArityError{Kind: command.KindSet, Want: 2, Got: 1}
	}

	return session.Do(func(e *engine.Engine) error {
		return e.Set(input.Key, *input.Value)
	})
}

type keyRequest struct {
	Key string `json:"key"`
}

type getResponse struct {
	Key   string  `json:"key"`
	Value *string `json:"value"`
	Found bool    `json:"found"`
}

func get(ctx context.Context, input *keyRequest) (*getResponse, error) {

	session, err := lookupSession(ctx)
	if err != nil {
		return nil, err
	}

	result := &getResponse{
		Key: input.Key,
	}
	err = session.Do(func(e *engine.Engine) error {
		value, found := e.Get(input.Key)
		if found {
			result.Value = &value
			result.Found = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func unset(ctx context.Context, input *keyRequest) error {

	session, err := lookupSession(ctx)
	if err != nil {
		return err
	}

	return session.Do(func(e *engine.Engine) error {
		return e.Unset(input.Key)
	})
}

type numEqualToRequest struct {
	Value string `json:"value"`
}

type numEqualToResponse struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

func numEqualTo(ctx context.Context, input *numEqualToRequest) (*numEqualToResponse, error) {

	session, err := lookupSession(ctx)
	if err != nil {
		return nil, err
	}

	result := &numEqualToResponse{
		Value: input.Value,
	}
	err = session.Do(func(e *engine.Engine) error {
		result.Count = e.NumEqualTo(input.Value)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func stats(ctx context.Context) (*engine.Stats, error) {

	session, err := lookupSession(ctx)
	if err != nil {
		return nil, err
	}

	result := session.Stats()
	return &result, nil
}
