package grpc

import (
	"context"

	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"google.golang.org/grpc"
)

const ServiceName = "staffdir.v1.Directory"

// directoryServer is the handler set registered under ServiceName.
type directoryServer interface {
	Search(context.Context, *SearchRequest) (*models.SearchResult, error)
	SyncNow(context.Context, *Empty) (*models.SyncResult, error)
	CheckForUpdates(context.Context, *Empty) (*UpdatesResponse, error)
	Status(context.Context, *Empty) (*models.Status, error)
	GetEmployee(context.Context, *EmployeeRequest) (*models.Employee, error)
	FilterOptions(context.Context, *Empty) (*models.FilterOptions, error)
	Stats(context.Context, *Empty) (*models.Stats, error)
	Team(context.Context, *TeamRequest) (*models.Team, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*directoryServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Search", directoryServer.Search),
		unary("SyncNow", directoryServer.SyncNow),
		unary("CheckForUpdates", directoryServer.CheckForUpdates),
		unary("Status", directoryServer.Status),
		unary("GetEmployee", directoryServer.GetEmployee),
		unary("FilterOptions", directoryServer.FilterOptions),
		unary("Stats", directoryServer.Stats),
		unary("Team", directoryServer.Team),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "staffdir/v1/directory",
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unary adapts a typed handler to the generic grpc.MethodDesc shape, running
// it through the server's interceptor chain.
func unary[Req, Resp any](method string, call func(directoryServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}

			s := srv.(directoryServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}

			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			})
		},
	}
}
