package apisessionv1

import (
	"context"
	"fmt"

	"github.com/SierraSoftworks/connor"

	"github.com/fulldump/inmemdb/utils"
)

type findSessionsRequest struct {
	Filter map[string]interface{} `json:"filter"`
	Skip   int64                  `json:"skip"`
	Limit  int64                  `json:"limit"`
}

// findSessions filters the session summaries with a mongo-like expression,
// eg: {"filter": {"depth": {"$gt": 0}}}
func findSessions(ctx context.Context, input *findSessionsRequest) ([]*SessionResponse, error) {

	s := GetServicer(ctx)

	hasFilter := len(input.Filter) > 0

	skip := input.Skip
	limit := input.Limit
	if limit <= 0 {
		limit = 100
	}

	result := []*SessionResponse{}
	for _, session := range s.ListSessions() {

		if limit == 0 {
			break
		}

		summary := newSessionResponse(session)

		if hasFilter {
			data, err := utils.Remarshal[map[string]interface{}](summary)
			if err != nil {
				return nil, fmt.Errorf("remarshal session: %w", err)
			}

			match, err := connor.Match(input.Filter, data)
			if err != nil {
				return nil, fmt.Errorf("match: %w", err)
			}
			if !match {
				continue
			}
		}

		if skip > 0 {
			skip--
			continue
		}

		limit--
		result = append(result, summary)
	}

	return result, nil
}
