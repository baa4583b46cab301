// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"maps"
	"net/http"
	"net/http/httptest"

	"codeberg.org/dogapi/dogapi/server/middleware"
	"codeberg.org/dogapi/dogapi/server/routes"
)

// Router wraps http.ServeMux and provides middleware chaining functionality.
type Router struct {
	*http.ServeMux

	middlewares []middleware.Middleware
}

// NewRouter creates a new Router instance.
func NewRouter() *Router {
	return &Router{
		ServeMux: http.NewServeMux(),
	}
}

// Use adds a middleware to the router's chain.
func (router *Router) Use(middleware middleware.Middleware) {
	router.middlewares = append(router.middlewares, middleware)
}

// runs router.middlewares[i] and every thereafter
func (router *Router) serve(i int, w http.ResponseWriter, r *http.Request) {
	if i < len(router.middlewares) {
		router.middlewares[i](w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			router.serve(i+1, w, r)
		}))
	} else {
		router.dispatch(w, r)
	}
}

// runs all middleware
func (router *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	router.serve(0, w, r)
}

// dispatch hands r to the matching route. Requests no route matches get the
// JSON error envelope instead of the plain-text pages of http.ServeMux.
func (router *Router) dispatch(w http.ResponseWriter, r *http.Request) {
	if _, pattern := router.Handler(r); pattern != "" {
		router.ServeMux.ServeHTTP(w, r)

		return
	}

	// ServeMux decides between 404, 405 and its own path-cleaning redirects.
	recorder := httptest.NewRecorder()
	router.ServeMux.ServeHTTP(recorder, r)

	switch recorder.Code {
	case http.StatusNotFound:
		routes.WriteError(w, http.StatusNotFound, "Not Found")
	case http.StatusMethodNotAllowed:
		w.Header().Set("Allow", recorder.Header().Get("Allow"))
		routes.WriteError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	default:
		maps.Copy(w.Header(), recorder.Header())
		w.WriteHeader(recorder.Code)
		_, _ = recorder.Body.WriteTo(w)
	}
}
