// Package server runs the remote authority's transports.
//
// The chi router is served over HTTP and the grpc.health.v1 service over
// gRPC, each only when its address is configured. [Server.RunServer] blocks
// until a termination signal arrives and then stops both, the gRPC side after its health
// watcher has been cancelled.
package server
