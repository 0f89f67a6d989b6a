package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client calls a remote walletd. Each method returns the envelope text.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Dial opens a plaintext connection to addr.
func Dial(addr string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	return conn, nil
}

func (c *Client) Provision(ctx context.Context, path, rawKey string) (string, error) {
	return c.invoke(ctx, "Provision", map[string]string{FieldPath: path, FieldRawKey: rawKey})
}

func (c *Client) InsertEntry(ctx context.Context, path, rawKey, name, value string) (string, error) {
	return c.invoke(ctx, "InsertEntry", map[string]string{
		FieldPath: path, FieldRawKey: rawKey, FieldName: name, FieldValue: value,
	})
}

func (c *Client) ListEntries(ctx context.Context, path, rawKey string) (string, error) {
	return c.invoke(ctx, "ListEntries", map[string]string{FieldPath: path, FieldRawKey: rawKey})
}

func (c *Client) ImportBulk(ctx context.Context, path, rawKey, payload string) (string, error) {
	return c.invoke(ctx, "ImportBulk", map[string]string{
		FieldPath: path, FieldRawKey: rawKey, FieldPayload: payload,
	})
}

func (c *Client) ListCategories(ctx context.Context, path, rawKey string) (string, error) {
	return c.invoke(ctx, "ListCategories", map[string]string{FieldPath: path, FieldRawKey: rawKey})
}

func (c *Client) invoke(ctx context.Context, name string, fields map[string]string) (string, error) {
	req := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(fields))}
	for k, v := range fields {
		req.Fields[k] = structpb.NewStringValue(v)
	}
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, FullMethod(name), req, out); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}
