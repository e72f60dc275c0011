package domain

import (
	"time"
)

type AutoPart struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CategoryID  int64     `json:"category_id"`
	Category    Category  `json:"category"`
	Cost        float64   `json:"cost"`
	Price       float64   `json:"price"`
	Location    string    `json:"location,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
	Brands      []Brand   `json:"brands"`
	Vehicles    []Vehicle `json:"vehicles"`
}

// HasVehicle reports whether the part is already linked to the vehicle.
func (p *AutoPart) HasVehicle(vehicleID int64) bool {
	for _, v := range p.Vehicles {
		if v.ID == vehicleID {
			return true
		}
	}
	return false
}

// Vehicle is a (brand, model, year range) compatibility descriptor. Rows are
// created lazily the first time a part is linked against a combination that
// has not been seen before, and are never deleted.
type Vehicle struct {
	ID        int64  `json:"id"`
	BrandID   int64  `json:"brand_id"`
	Model     string `json:"model"`
	StartYear int    `json:"start_year"`
	EndYear   *int   `json:"end_year,omitempty"`
}

// AutoPartQuery carries the optional list filters plus pagination.
type AutoPartQuery struct {
	CategoryID  *int64
	BrandID     *int64
	Name        string
	Description string
	PageNumber  int
	PageSize    int
}

type PagedResult[T any] struct {
	Items      []T `json:"items"`
	PageNumber int `json:"page_number"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
