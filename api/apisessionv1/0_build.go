package apisessionv1

import (
	"github.com/fulldump/box"

	"github.com/fulldump/inmemdb/service"
)

func BuildV1Session(v1 *box.R, s service.Servicer) *box.R {

	sessions := v1.Resource("/sessions").
		WithActions(
			box.Get(listSessions(s)),
			box.Post(createSession),
			box.ActionPost(findSessions).WithName("find"),
		)

	v1.Resource("/sessions/{sessionId}").
		WithActions(
			box.Get(getSession),
			box.ActionPost(set).WithName("set"),
			box.ActionPost(get).WithName("get"),
			box.ActionPost(unset).WithName("unset"),
			box.ActionPost(numEqualTo).WithName("numEqualTo"),
			box.ActionPost(begin).WithName("begin"),
			box.ActionPost(rollback).WithName("rollback"),
			box.ActionPost(commit).WithName("commit"),
			box.ActionPost(end).WithName("end"),
			box.ActionPost(stats).WithName("stats"),
			box.ActionPost(exec).WithName("exec"),
		)

	return sessions
}
