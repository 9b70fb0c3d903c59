// Package models holds the data types of the local staff cache.
package models

import "time"

// Employee is one cached staff entry. Optional attributes are empty strings
// (or nil for numbers) when the remote source does not provide them.
// SearchBlob is derived from the attributes on every write.
type Employee struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Code           string    `json:"code,omitempty"`
	Title          string    `json:"title,omitempty"`
	Location       string    `json:"location,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	CorporatePhone string    `json:"corporate_phone,omitempty"`
	Email          string    `json:"email,omitempty"`
	Company        string    `json:"company,omitempty"`
	Manager        string    `json:"manager,omitempty"`
	Stage          string    `json:"stage,omitempty"`
	Sex            string    `json:"sex,omitempty"`
	NationalID     string    `json:"national_id,omitempty"`
	Brand          string    `json:"brand,omitempty"`
	Area           string    `json:"area,omitempty"`
	WorkerType     string    `json:"worker_type,omitempty"`
	Address        string    `json:"address,omitempty"`
	Sector         string    `json:"sector,omitempty"`
	TenureDays     *int      `json:"tenure_days,omitempty"`
	TenureMonths   *int      `json:"tenure_months,omitempty"`
	HireDate       string    `json:"hire_date,omitempty"`
	SearchBlob     string    `json:"-"`
	LastUpdated    time.Time `json:"last_updated,omitzero"`
}

// SignificantlyDiffers reports whether any attribute whose change counts as
// an update during sync differs between e and other.
func (e Employee) SignificantlyDiffers(other Employee) bool {
	return e.Name != other.Name ||
		e.Title != other.Title ||
		e.Location != other.Location ||
		e.Phone != other.Phone ||
		e.Email != other.Email ||
		e.Manager != other.Manager ||
		e.Area != other.Area ||
		e.Brand != other.Brand
}
