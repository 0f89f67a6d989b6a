package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "walletbridge.v1.WalletBridge"

// Request field names.
const (
	FieldPath    = "path"
	FieldRawKey  = "raw_key"
	FieldName    = "name"
	FieldValue   = "value"
	FieldPayload = "payload"
)

// WalletBridgeServer is the server API. Every method takes a Struct of string
// fields and returns the bridge envelope as text.
type WalletBridgeServer interface {
	Provision(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)
	InsertEntry(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)
	ListEntries(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)
	ImportBulk(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)
	ListCategories(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)
}

type unaryCall func(WalletBridgeServer, context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)

func method(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(WalletBridgeServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*structpb.Struct))
			})
		},
	}
}

// FullMethod returns "/walletbridge.v1.WalletBridge/<name>".
func FullMethod(name string) string { return "/" + ServiceName + "/" + name }

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*WalletBridgeServer)(nil),
	Methods: []grpc.MethodDesc{
		method("Provision", WalletBridgeServer.Provision),
		method("InsertEntry", WalletBridgeServer.InsertEntry),
		method("ListEntries", WalletBridgeServer.ListEntries),
		method("ImportBulk", WalletBridgeServer.ImportBulk),
		method("ListCategories", WalletBridgeServer.ListCategories),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "walletbridge/v1/walletbridge.proto",
}

// RegisterWalletBridgeServer registers srv on s.
func RegisterWalletBridgeServer(s grpc.ServiceRegistrar, srv WalletBridgeServer) {
	s.RegisterService(&serviceDesc, srv)
}
