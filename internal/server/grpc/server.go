package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"github.com/dmitrijs2005/staffdir/internal/logging"
	"google.golang.org/grpc"
)

// Directory is the behaviour exposed over gRPC. *services.Directory
// satisfies it.
type Directory interface {
	Search(ctx context.Context, query string, filters models.Filters) (models.SearchResult, error)
	SyncNow(ctx context.Context) models.SyncResult
	CheckForUpdates(ctx context.Context) bool
	Status(ctx context.Context) (models.Status, error)
	Employee(ctx context.Context, id string) (models.Employee, error)
	FilterOptions(ctx context.Context) (models.FilterOptions, error)
	Stats(ctx context.Context) (models.Stats, error)
	Team(ctx context.Context, managerName string) (models.Team, error)
}

type GRPCServer struct {
	address string
	dir     Directory
	logger  logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, dir Directory) *GRPCServer {
	return &GRPCServer{
		address: a,
		dir:     dir,
		logger:  logging.OrDiscard(l).With("module", "grpc_server"),
	}
}

// NewServer builds a grpc.Server with the directory service and the
// interceptor chain registered.
func (s *GRPCServer) NewServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.recoveryInterceptor, s.loggingInterceptor))
	srv.RegisterService(&serviceDesc, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(10 * time.Second):
			srv.Stop()
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
