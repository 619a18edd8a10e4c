// Package middleware provides net/http middleware used by the runner's HTTP
// surface: request IDs for tracing, structured request logging, and security
// headers with separate policies for the management UI and for executed
// applications.
//
// Middleware composes with plain http.Handler chaining:
//
//	var h http.Handler = mux
//	h = middleware.Logging(log)(h)
//	h = middleware.RequestID()(h)
package middleware
