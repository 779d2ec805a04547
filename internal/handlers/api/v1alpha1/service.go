package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// WorldServiceName is the fully qualified gRPC service name
const WorldServiceName = "treasure.api.v1alpha1.WorldService"

// WorldServiceServer is the server API for WorldService. Messages are
// protobuf Structs carrying the same JSON documents the websocket
// transport exchanges.
type WorldServiceServer interface {
	Join(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Leave(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Act(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSnapshot(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Leaderboard(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type worldServiceMethod func(WorldServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryMethod(name string, call worldServiceMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(WorldServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + WorldServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(WorldServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// WorldServiceDesc describes WorldService for grpc.Server registration. No
// file descriptor backs it, so server reflection lists the service name but
// cannot describe its methods.
var WorldServiceDesc = grpc.ServiceDesc{
	ServiceName: WorldServiceName,
	HandlerType: (*WorldServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("Join", WorldServiceServer.Join),
		unaryMethod("Leave", WorldServiceServer.Leave),
		unaryMethod("Act", WorldServiceServer.Act),
		unaryMethod("GetSnapshot", WorldServiceServer.GetSnapshot),
		unaryMethod("Leaderboard", WorldServiceServer.Leaderboard),
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterWorldServiceServer registers srv on s
func RegisterWorldServiceServer(s grpc.ServiceRegistrar, srv WorldServiceServer) {
	s.RegisterService(&WorldServiceDesc, srv)
}

// WorldServiceClient is the client API for WorldService
type WorldServiceClient interface {
	Join(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Leave(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Act(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetSnapshot(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Leaderboard(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type worldServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewWorldServiceClient creates a client on an existing connection
func NewWorldServiceClient(cc grpc.ClientConnInterface) WorldServiceClient {
	return &worldServiceClient{cc: cc}
}

func (c *worldServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+WorldServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *worldServiceClient) Join(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Join", in, opts)
}

func (c *worldServiceClient) Leave(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Leave", in, opts)
}

func (c *worldServiceClient) Act(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Act", in, opts)
}

func (c *worldServiceClient) GetSnapshot(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetSnapshot", in, opts)
}

func (c *worldServiceClient) Leaderboard(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Leaderboard", in, opts)
}
