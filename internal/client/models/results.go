package models

import "time"

// Sync failure kinds reported in SyncResult.Failure.
const (
	FailureTransport = "transport"
	FailureStorage   = "storage"
)

// SyncResult summarizes one reconciliation run. Failed runs carry only
// Success, Message and Failure.
type SyncResult struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	NewRecords     int    `json:"new_records"`
	UpdatedRecords int    `json:"updated_records"`
	RemovedRecords int    `json:"removed_records"`
	TotalRecords   int    `json:"total_records"`
	Failure        string `json:"failure,omitempty"`
	// Shared is set when one run served more than one concurrent caller.
	Shared bool `json:"shared,omitempty"`
}

// Search result sources.
const (
	SourceLocal  = "local"
	SourceCache  = "cache"
	SourceRemote = "remote"
)

type SearchResult struct {
	Employees []Employee    `json:"employees"`
	Source    string        `json:"source"`
	Took      time.Duration `json:"took"`
}

// FilterOptions lists the distinct values available for each filter.
type FilterOptions struct {
	Locations []string `json:"locations"`
	Brands    []string `json:"brands"`
	Areas     []string `json:"areas"`
	Titles    []string `json:"titles"`
}

type Stats struct {
	Total      int            `json:"total"`
	ByStage    map[string]int `json:"by_stage"`
	ByLocation map[string]int `json:"by_location"`
	ByTitle    map[string]int `json:"by_title"`
	ByArea     map[string]int `json:"by_area"`
}

// Team is a manager and the employees reporting to them. Manager is nil
// when no cached employee carries the manager's name.
type Team struct {
	ManagerName string     `json:"manager_name"`
	Manager     *Employee  `json:"manager,omitempty"`
	Members     []Employee `json:"members"`
}

// Status is the cache state shown to users.
type Status struct {
	HasLocalData     bool      `json:"has_local_data"`
	Records          int       `json:"records"`
	LastSync         time.Time `json:"last_sync,omitzero"`
	SinceLastSync    string    `json:"since_last_sync"`
	UpdatesAvailable bool      `json:"updates_available"`
}
