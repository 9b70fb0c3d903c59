package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"github.com/dmitrijs2005/staffdir/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Search(ctx context.Context, req *SearchRequest) (*models.SearchResult, error) {
	res, err := s.dir.Search(ctx, req.Query, req.Filters)
	if err != nil {
		return nil, toStatus(err)
	}
	return &res, nil
}

func (s *GRPCServer) SyncNow(ctx context.Context, _ *Empty) (*models.SyncResult, error) {
	res := s.dir.SyncNow(ctx)
	return &res, nil
}

func (s *GRPCServer) CheckForUpdates(ctx context.Context, _ *Empty) (*UpdatesResponse, error) {
	return &UpdatesResponse{Available: s.dir.CheckForUpdates(ctx)}, nil
}

func (s *GRPCServer) Status(ctx context.Context, _ *Empty) (*models.Status, error) {
	st, err := s.dir.Status(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &st, nil
}

func (s *GRPCServer) GetEmployee(ctx context.Context, req *EmployeeRequest) (*models.Employee, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	e, err := s.dir.Employee(ctx, req.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &e, nil
}

func (s *GRPCServer) FilterOptions(ctx context.Context, _ *Empty) (*models.FilterOptions, error) {
	opts, err := s.dir.FilterOptions(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &opts, nil
}

func (s *GRPCServer) Stats(ctx context.Context, _ *Empty) (*models.Stats, error) {
	st, err := s.dir.Stats(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &st, nil
}

func (s *GRPCServer) Team(ctx context.Context, req *TeamRequest) (*models.Team, error) {
	if strings.TrimSpace(req.Manager) == "" {
		return nil, status.Error(codes.InvalidArgument, "manager is required")
	}

	team, err := s.dir.Team(ctx, req.Manager)
	if err != nil {
		return nil, toStatus(err)
	}
	return &team, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrStorage):
		return status.Error(codes.Unavailable, "local cache unavailable")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, "internal error")
}
