package http

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/km-arc/simpledi/framework/container"
	"github.com/km-arc/simpledi/framework/routing"
)

// Inspector exposes a container's registry over HTTP, read-only.
//
// It is registered as a once-constructor depending on "container", so its
// only field is filled by the resolver.
type Inspector struct {
	Container *container.Container
}

// EntryInfo is the body of GET /di/entries/{name}.
type EntryInfo struct {
	Name     string `json:"name"`
	Memoized bool   `json:"memoized"`
	Count    int    `json:"count"`
}

// Mount registers the inspector routes under prefix, all served with
// no-cache headers:
//
//	GET {prefix}/counts          → {"data": {"name": count, ...}}
//	GET {prefix}/entries         → {"data": ["name", ...]}
//	GET {prefix}/entries/{name}  → {"data": EntryInfo} or 404 unknown_dependency
func (in *Inspector) Mount(r *routing.Router, prefix string) {
	r.Prefix(prefix, func(r *routing.Router) {
		r.Middleware(middleware.NoCache)
		r.Get("/counts", in.Counts)
		r.Get("/entries", in.Entries)
		r.Get("/entries/{name}", in.Entry)
	})
}

// Counts serves the resolution counters.
func (in *Inspector) Counts(w http.ResponseWriter, _ *http.Request) {
	NewResponse(w).Success(in.Container.ResolvedCounts())
}

// Entries serves the sorted registered names.
func (in *Inspector) Entries(w http.ResponseWriter, _ *http.Request) {
	NewResponse(w).Success(in.Container.Names())
}

// Entry serves one name.
func (in *Inspector) Entry(w http.ResponseWriter, r *http.Request) {
	res := NewResponse(w)
	name := routing.Param(r, "name")
	if !in.Container.Has(name) {
		res.Fail(&container.UnknownDependencyError{Name: name})
		return
	}
	res.Success(EntryInfo{
		Name:     name,
		Memoized: in.Container.Memoized(name),
		Count:    in.Container.ResolvedCount(name),
	})
}
