// Package api describes the moodiary gRPC service: request and response
// messages, the service descriptor, typed client and server bindings and
// the codec the messages travel with.
//
// Messages are plain Go structs encoded in the protobuf binary format laid
// out in proto/moodiary.proto, so any protobuf client can talk to the
// server while this package stays free of generated code. Clients built
// with NewDiaryServiceClient select the codec automatically; servers only
// need the package imported.
package api
