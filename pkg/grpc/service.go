package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Messages travel as structpb.Struct so the service needs no generated code.
const (
	ServiceName = "safezone.v1.LocationService"

	ReportLocationMethod = "/" + ServiceName + "/ReportLocation"
	GetAlertsMethod      = "/" + ServiceName + "/GetAlerts"
	SetLimiterMethod     = "/" + ServiceName + "/SetLimiter"
)

type LocationServiceServer interface {
	ReportLocation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAlerts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetLimiter(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterLocationServiceServer(s grpc.ServiceRegistrar, srv LocationServiceServer) {
	s.RegisterService(&LocationServiceDesc, srv)
}

func unaryHandler(
	fullMethod string,
	call func(LocationServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LocationServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(LocationServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var LocationServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LocationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ReportLocation",
			Handler:    unaryHandler(ReportLocationMethod, LocationServiceServer.ReportLocation),
		},
		{
			MethodName: "GetAlerts",
			Handler:    unaryHandler(GetAlertsMethod, LocationServiceServer.GetAlerts),
		},
		{
			MethodName: "SetLimiter",
			Handler:    unaryHandler(SetLimiterMethod, LocationServiceServer.SetLimiter),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "safezone/v1/location_service",
}

type LocationServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewLocationServiceClient(cc grpc.ClientConnInterface) *LocationServiceClient {
	return &LocationServiceClient{cc: cc}
}

func (c *LocationServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *LocationServiceClient) ReportLocation(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ReportLocationMethod, in, opts...)
}

func (c *LocationServiceClient) GetAlerts(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetAlertsMethod, in, opts...)
}

func (c *LocationServiceClient) SetLimiter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, SetLimiterMethod, in, opts...)
}
