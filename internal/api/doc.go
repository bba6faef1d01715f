// Package api exposes a kv.Reader over HTTP and gRPC.
//
// HTTP
//
// Server is an http.Handler with two GET routes:
//
//   - /healthcheck: probes the store; 200 with "{ok: true}", or 500 with an
//     empty body when the store cannot be queried.
//   - {prefix}{key}: looks up key, taken verbatim from the escaped request
//     path; 200 with the raw value, 404 with an empty body, or 500 when the
//     store fails.
//
// Anything else gets net/http's default not-found response.
//
// gRPC
//
// HealthServer implements grpc.health.v1.Health on top of the same probe.
//
// Admin
//
// NewAdminHandler serves store metrics as JSON on a separate listener so
// that no lookup key is shadowed.
package api
