package client

import (
	"fmt"

	"github.com/ValentinKolb/esclient/rpc/common"
	"github.com/ValentinKolb/esclient/rpc/serializer"
	"github.com/ValentinKolb/esclient/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	Logger = logger.GetLogger(common.LoggerClient)
)

// Client is the typed search engine client. It owns a transport and a
// serializer; all typed APIs (Alias, GetAliases, ...) go through Dispatch.
//
// A Client is safe for concurrent use.
type Client struct {
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.ISerializer
	raw        *RawDispatch
}

// NewClient creates a new client and connects the transport.
// The function takes a config, a transport and a serializer as parameters
// It returns the client and an error if the transport could not be connected
func NewClient(
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.ISerializer,
) (*Client, error) {

	// Connect the transport
	if err := transport.Connect(config); err != nil {
		return nil, fmt.Errorf("connecting transport: %w", err)
	}

	c := &Client{
		config:     config,
		transport:  transport,
		serializer: serializer,
		raw:        &RawDispatch{transport: transport, serializer: serializer},
	}

	Logger.Debugf("Created client with %d endpoints (throw exceptions: %t)", len(config.Endpoints), config.ThrowExceptions)
	return c, nil
}

// Config returns the configuration the client was created with
func (c *Client) Config() common.ClientConfig {
	return c.config
}

// Serializer returns the serializer used for request and response bodies
func (c *Client) Serializer() serializer.ISerializer {
	return c.serializer
}

// Raw returns the untyped per API dispatch of this client
func (c *Client) Raw() *RawDispatch {
	return c.raw
}

// Close closes the underlying transport
func (c *Client) Close() error {
	return c.transport.Close()
}
