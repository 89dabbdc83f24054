package protos

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "tablesorter.v1.TableSorterService"

	ReconcileMethod           = "/" + ServiceName + "/Reconcile"
	CommitConfigurationMethod = "/" + ServiceName + "/CommitConfiguration"
	GetConfigurationMethod    = "/" + ServiceName + "/GetConfiguration"
	DeleteConfigurationMethod = "/" + ServiceName + "/DeleteConfiguration"
)

type TableSorterServiceServer interface {
	Reconcile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CommitConfiguration(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetConfiguration(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteConfiguration(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type TableSorterServiceClient interface {
	Reconcile(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	CommitConfiguration(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetConfiguration(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	DeleteConfiguration(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type tableSorterServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewTableSorterServiceClient(cc grpc.ClientConnInterface) TableSorterServiceClient {
	return &tableSorterServiceClient{cc}
}

func (c *tableSorterServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *tableSorterServiceClient) Reconcile(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ReconcileMethod, in, opts)
}

func (c *tableSorterServiceClient) CommitConfiguration(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CommitConfigurationMethod, in, opts)
}

func (c *tableSorterServiceClient) GetConfiguration(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetConfigurationMethod, in, opts)
}

func (c *tableSorterServiceClient) DeleteConfiguration(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, DeleteConfigurationMethod, in, opts)
}

func RegisterTableSorterServiceServer(s grpc.ServiceRegistrar, srv TableSorterServiceServer) {
	s.RegisterService(&TableSorterService_ServiceDesc, srv)
}

type unaryMethod func(TableSorterServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TableSorterServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(TableSorterServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// TableSorterService_ServiceDesc is the grpc.ServiceDesc for TableSorterService.
var TableSorterService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TableSorterServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Reconcile",
			Handler:    unaryHandler(ReconcileMethod, TableSorterServiceServer.Reconcile),
		},
		{
			MethodName: "CommitConfiguration",
			Handler:    unaryHandler(CommitConfigurationMethod, TableSorterServiceServer.CommitConfiguration),
		},
		{
			MethodName: "GetConfiguration",
			Handler:    unaryHandler(GetConfigurationMethod, TableSorterServiceServer.GetConfiguration),
		},
		{
			MethodName: "DeleteConfiguration",
			Handler:    unaryHandler(DeleteConfigurationMethod, TableSorterServiceServer.DeleteConfiguration),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tablesorter.proto",
}
