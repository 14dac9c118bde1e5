package client

import (
	"github.com/dmitrijs2005/growthjournal/internal/remote"
)

// Client is what the journal needs from a connection to the document
// server: the document store, upload presigning and a way to hang up.
type Client interface {
	remote.Store
	remote.Presigner
	Close() error
}

var _ Client = (*GRPCClient)(nil)
