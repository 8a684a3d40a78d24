// Package transport implements the gRPC client for the Canton participant
// admin PackageService and defines the narrow PackageService interface the
// coordinators depend on, so tests can substitute fake participants.
//
// Payloads use the admin API's JSON field names and are carried with a JSON
// content-subtype codec; no generated protobuf types are involved.
package transport
