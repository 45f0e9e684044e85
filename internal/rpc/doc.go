// Package rpc holds the protobuf messages and gRPC service stubs shared by the
// Marmot client and server. The wire schema lives in ../rpc_proto; the Go
// types here are kept in golang/protobuf's struct-tag form so they build
// without running protoc. Field numbers must stay in step with the .proto files.
package rpc
