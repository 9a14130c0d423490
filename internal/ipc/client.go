package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Imprint.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FingerprintList returns summaries of every stored fingerprint.
func (c *Client) FingerprintList() (*FingerprintListResponse, error) {
	var resp FingerprintListResponse
	if err := c.client.Call("Imprint.FingerprintList", FingerprintListRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FingerprintDescribe returns one fingerprint with its full payload.
func (c *Client) FingerprintDescribe(hash string) (*FingerprintDescribeResponse, error) {
	var resp FingerprintDescribeResponse
	if err := c.client.Call("Imprint.FingerprintDescribe", FingerprintDescribeRequest{Hash: hash}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FingerprintDelete removes a fingerprint by hash.
func (c *Client) FingerprintDelete(hash string) (*FingerprintDeleteResponse, error) {
	var resp FingerprintDeleteResponse
	if err := c.client.Call("Imprint.FingerprintDelete", FingerprintDeleteRequest{Hash: hash}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FingerprintClear removes every stored fingerprint.
func (c *Client) FingerprintClear() (*FingerprintClearResponse, error) {
	var resp FingerprintClearResponse
	if err := c.client.Call("Imprint.FingerprintClear", FingerprintClearRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DatabaseHealth retrieves detailed database diagnostics.
func (c *Client) DatabaseHealth() (*DatabaseHealthResponse, error) {
	var resp DatabaseHealthResponse
	if err := c.client.Call("Imprint.DatabaseHealth", DatabaseHealthRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
