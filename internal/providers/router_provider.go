package providers

import (
	"net/http"
	"talentpay/internal/structures"

	"github.com/go-chi/chi/v5"
)

// Guard builds the middleware protecting a route for the given roles. A
// route without roles is public.
type Guard func(roles []string) func(http.Handler) http.Handler

type RouterProviderInterface interface {
	Get(url string, handler http.Handler, roles ...string)
	Post(url string, handler http.Handler, roles ...string)
	Put(url string, handler http.Handler, roles ...string)
	Delete(url string, handler http.Handler, roles ...string)
	GetRoutes() []structures.Route
	Mount(r chi.Router, guard Guard)
}

type RouterProvider struct {
	routes []structures.Route
}

func (rp *RouterProvider) add(method, url string, handler http.Handler, roles []string) {
	rp.routes = append(rp.routes, structures.Route{
		Method:  method,
		Url:     url,
		Handler: handler,
		Roles:   roles,
	})
}

func (rp *RouterProvider) Get(url string, handler http.Handler, roles ...string) {
	rp.add(http.MethodGet, url, handler, roles)
}

func (rp *RouterProvider) Post(url string, handler http.Handler, roles ...string) {
	rp.add(http.MethodPost, url, handler, roles)
}

func (rp *RouterProvider) Put(url string, handler http.Handler, roles ...string) {
	rp.add(http.MethodPut, url, handler, roles)
}

func (rp *RouterProvider) Delete(url string, handler http.Handler, roles ...string) {
	rp.add(http.MethodDelete, url, handler, roles)
}

func (rp *RouterProvider) GetRoutes() []structures.Route {
	return rp.routes
}

// Mount registers every collected route on r. chi answers wrong methods
// with 405 on its own.
func (rp *RouterProvider) Mount(r chi.Router, guard Guard) {
	for _, route := range rp.routes {
		if len(route.Roles) == 0 || guard == nil {
			r.Method(route.Method, route.Url, route.Handler)
			continue
		}
		r.With(guard(route.Roles)).Method(route.Method, route.Url, route.Handler)
	}
}

func NewRouterProvider() RouterProviderInterface {
	return &RouterProvider{}
}
