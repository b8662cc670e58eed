// internal/models/listing.go
package models

// ListingStatus is the lifecycle state of a rental listing. Only Active
// listings are eligible for selection or scoring.
type ListingStatus string

const (
	ListingStatusActive   ListingStatus = "Active"
	ListingStatusInactive ListingStatus = "Inactive"
	ListingStatusRented   ListingStatus = "Rented"
	ListingStatusExpired  ListingStatus = "Expired"
)

// Listing is a rental unit as stored in the listings table. The id column
// is the single stable identifier; there is deliberately no alternate key.
type Listing struct {
	ID           string        `json:"id" db:"id"`
	Price        int           `json:"price" db:"price"`
	Bedrooms     int           `json:"bedrooms" db:"bedrooms"`
	Bathrooms    float64       `json:"bathrooms" db:"bathrooms"`
	Borough      string        `json:"borough" db:"borough"`
	Neighborhood string        `json:"neighborhood" db:"neighborhood"`
	PetsAllowed  *bool         `json:"petsAllowed,omitempty" db:"pets_allowed"`
	Description  string        `json:"description,omitempty" db:"description"`
	ImageURL     string        `json:"imageUrl,omitempty" db:"image_url"`
	ApplyURL     string        `json:"applyUrl,omitempty" db:"apply_url"`
	Amenities    []string      `json:"amenities,omitempty" db:"amenities"`
	Status       ListingStatus `json:"status" db:"status"`
	CreatedAt    string        `json:"createdAt,omitempty" db:"created_at"`
	UpdatedAt    string        `json:"updatedAt,omitempty" db:"updated_at"`
}

// IsActive reports whether the listing may be selected or scored.
func (l *Listing) IsActive() bool {
	return l.Status == ListingStatusActive
}

// HasPhoto reports whether the listing carries a usable image. Photo-less
// listings are score-capped and excluded from the selection candidate set.
func (l *Listing) HasPhoto() bool {
	return l.ImageURL != ""
}
