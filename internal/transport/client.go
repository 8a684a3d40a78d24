package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/oshokin/dar-publisher/internal/config"
)

// Client talks to participant admin APIs over gRPC. Connections are dialed
// lazily per address and reused for the lifetime of the client.
type Client struct {
	// mu protects conns.
	mu sync.Mutex
	// conns caches one gRPC connection per participant address.
	conns map[string]*grpc.ClientConn

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// NewClient creates a client for participant admin calls.
// Note: this uses insecure transport credentials; LocalNet participant admin
// ports are plaintext, terminate TLS in a proxy for anything else.
func NewClient(opts ...Option) *Client {
	client := &Client{
		conns:       make(map[string]*grpc.ClientConn),
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Close releases all underlying gRPC connections.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error

	for address, conn := range c.conns {
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close connection to %s: %w", address, err)
		}

		delete(c.conns, address)
	}

	return firstErr
}

// UploadDar pushes a DAR to the participant at the given address.
func (c *Client) UploadDar(
	ctx context.Context,
	address string,
	req *UploadDarRequest,
) (*UploadDarResponse, error) {
	var resp UploadDarResponse
	if err := c.invoke(ctx, address, UploadDarMethod, req, &resp); err != nil {
		return nil, fmt.Errorf("upload dar: %w", err)
	}

	return &resp, nil
}

// VetDar marks a package as usable on the participant at the given address.
func (c *Client) VetDar(ctx context.Context, address string, req *VetDarRequest) error {
	// The vet call has no structured success payload; a nil error is the result.
	var resp struct{}
	if err := c.invoke(ctx, address, VetDarMethod, req, &resp); err != nil {
		return fmt.Errorf("vet dar: %w", err)
	}

	return nil
}

// invoke performs a unary call against the participant using the JSON codec.
func (c *Client) invoke(ctx context.Context, address, method string, req, resp any) error {
	conn, err := c.conn(address)
	if err != nil {
		return err
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if err := conn.Invoke(callCtx, method, req, resp, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return err
	}

	return nil
}

// conn returns the cached connection for an address, dialing it on first use.
func (c *Client) conn(address string) (*grpc.ClientConn, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if conn, ok := c.conns[address]; ok {
		return conn, nil
	}

	// Use the non-context NewClient API recommended by grpc-go
	// (DialContext is deprecated as of grpc-go v1.60+).
	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial participant %s: %w", address, err)
	}

	c.conns[address] = conn

	return conn, nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
