// Package remote abstracts the remote service holding bundles.
//
// A Service speaks the wire protocol: bundle queries, commands and job status queries.
// The Repository builds the few requests a sync cycle needs on top of it.
//
// Implementations:
//   - webapi: the service's HTTP/JSON Web API
//   - fake: an in-memory service, for tests
package remote
