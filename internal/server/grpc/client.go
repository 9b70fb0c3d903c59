package grpc

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"github.com/dmitrijs2005/staffdir/internal/client/services"
	"github.com/dmitrijs2005/staffdir/internal/common"
	"github.com/dmitrijs2005/staffdir/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// Dial connects to a directory daemon at addr.
func Dial(addr string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	}, opts...)
	return grpc.NewClient(addr, opts...)
}

// DirectoryClient calls a remote directory daemon. It offers the same
// methods as the in-process directory so the CLI can use either.
type DirectoryClient struct {
	cc  grpc.ClientConnInterface
	log logging.Logger
}

func NewDirectoryClient(cc grpc.ClientConnInterface, l logging.Logger) *DirectoryClient {
	return &DirectoryClient{cc: cc, log: logging.OrDiscard(l).With("module", "grpc_client")}
}

func (c *DirectoryClient) invoke(ctx context.Context, method string, in, out any) error {
	return fromStatus(c.cc.Invoke(ctx, fullMethod(method), in, out, grpc.CallContentSubtype(codecName)))
}

// fromStatus maps status codes back onto the common sentinels.
func fromStatus(err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %s", common.ErrNotFound, status.Convert(err).Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %w", common.ErrTransport, err)
	}
	return err
}

func (c *DirectoryClient) Search(ctx context.Context, query string, filters models.Filters) (models.SearchResult, error) {
	var out models.SearchResult
	if err := c.invoke(ctx, "Search", &SearchRequest{Query: query, Filters: filters}, &out); err != nil {
		return models.SearchResult{Employees: []models.Employee{}}, err
	}
	if out.Employees == nil {
		out.Employees = []models.Employee{}
	}
	return out, nil
}

// SyncNow reports an unreachable daemon as a transport failure.
func (c *DirectoryClient) SyncNow(ctx context.Context) models.SyncResult {
	var out models.SyncResult
	if err := c.invoke(ctx, "SyncNow", &Empty{}, &out); err != nil {
		c.log.Warn(ctx, "sync call failed", "error", err)
		return models.SyncResult{Success: false, Message: services.MsgConnectivity, Failure: models.FailureTransport}
	}
	return out
}

func (c *DirectoryClient) CheckForUpdates(ctx context.Context) bool {
	var out UpdatesResponse
	if err := c.invoke(ctx, "CheckForUpdates", &Empty{}, &out); err != nil {
		c.log.Warn(ctx, "update check failed", "error", err)
		return false
	}
	return out.Available
}

func (c *DirectoryClient) Status(ctx context.Context) (models.Status, error) {
	var out models.Status
	err := c.invoke(ctx, "Status", &Empty{}, &out)
	return out, err
}

func (c *DirectoryClient) Employee(ctx context.Context, id string) (models.Employee, error) {
	var out models.Employee
	err := c.invoke(ctx, "GetEmployee", &EmployeeRequest{ID: id}, &out)
	return out, err
}

func (c *DirectoryClient) FilterOptions(ctx context.Context) (models.FilterOptions, error) {
	var out models.FilterOptions
	err := c.invoke(ctx, "FilterOptions", &Empty{}, &out)
	return out, err
}

func (c *DirectoryClient) Stats(ctx context.Context) (models.Stats, error) {
	var out models.Stats
	err := c.invoke(ctx, "Stats", &Empty{}, &out)
	return out, err
}

func (c *DirectoryClient) Team(ctx context.Context, managerName string) (models.Team, error) {
	var out models.Team
	err := c.invoke(ctx, "Team", &TeamRequest{Manager: managerName}, &out)
	return out, err
}
