// Package common holds constants and sentinel errors shared by the client
// and the server.
package common

// AccessTokenHeaderName is the gRPC metadata key carrying the bearer token.
const AccessTokenHeaderName = "access_token"
