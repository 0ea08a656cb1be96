package api

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
	"github.com/fulldump/box/boxopenapi"

	"github.com/fulldump/inmemdb/api/apisessionv1"
	"github.com/fulldump/inmemdb/service"
)

type Options struct {
	Version   string
	ApiKey    string
	ApiSecret string
	JwtSecret string
}

func Build(s service.Servicer, options Options) *box.B {

	b := box.NewBox()

	v1 := b.Resource("/v1")
	v1.WithInterceptors(
		box.SetResponseHeader("Content-Type", "application/json"),
		Authenticate(options.ApiKey, options.ApiSecret, options.JwtSecret),
	)

	apisessionv1.BuildV1Session(v1, s).
		WithInterceptors(
			injectServicer(s),
		)

	b.Resource("/v1/*").
		WithActions(box.AnyMethod(func(w http.ResponseWriter) interface{} {
			w.WriteHeader(http.StatusNotImplemented)
			return PrettyError{
				Message:     "not implemented",
				Description: "this endpoint does not exist, please check the documentation",
			}
		}))

	b.Resource("/release").
		WithActions(box.Get(func() string {
			return options.Version
		}))

	spec := boxopenapi.Spec(b)
	spec.Info.Title = "InMemDB"
	spec.Info.Description = "An in-memory key/value store with nested transactions."
	spec.Info.Contact = &boxopenapi.Contact{
		Url: "https://github.com/fulldump/inmemdb/issues/new",
	}
	b.Handle("GET", "/openapi.json", func(r *http.Request) any {

		spec.Servers = []boxopenapi.Server{
			{
				Url: "https://" + r.Host,
			},
			{
				Url: "http://" + r.Host,
			},
		}

		return spec
	})

	return b
}

func injectServicer(s service.Servicer) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			next(apisessionv1.SetServicer(ctx, s))
		}
	}
}
