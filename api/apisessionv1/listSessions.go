package apisessionv1

import (
	"context"

	"github.com/fulldump/inmemdb/service"
)

func listSessions(s service.Servicer) interface{} {
	return func(ctx context.Context) []*SessionResponse {

		result := []*SessionResponse{}
		for _, session := range s.ListSessions() {
			result = append(result, newSessionResponse(session))
		}

		return result
	}
}
