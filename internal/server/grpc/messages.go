package grpc

import "github.com/dmitrijs2005/staffdir/internal/client/models"

type Empty struct{}

type SearchRequest struct {
	Query   string         `json:"query"`
	Filters models.Filters `json:"filters"`
}

type EmployeeRequest struct {
	ID string `json:"id"`
}

type TeamRequest struct {
	Manager string `json:"manager"`
}

type UpdatesResponse struct {
	Available bool `json:"available"`
}
