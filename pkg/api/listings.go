package api

// Listing statuses.
const (
	ListingOpen       = "open"
	ListingInProgress = "in_progress"
	ListingCompleted  = "completed"
	ListingCancelled  = "cancelled"
)

// Budget is a listing budget range.
type Budget struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

// Listing is a job posted by a client.
type Listing struct {
	ID               string   `json:"_id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Category         string   `json:"category"`
	Location         string   `json:"location"`
	Budget           *Budget  `json:"budget,omitempty"`
	ClientID         string   `json:"clientId"`
	Status           string   `json:"status"`
	Skills           []string `json:"skills,omitempty"`
	Urgency          string   `json:"urgency,omitempty"`
	ApplicationCount int      `json:"applicationCount"`
	CreatedAt        string   `json:"createdAt,omitempty"`
	UpdatedAt        string   `json:"updatedAt,omitempty"`
}

// CreateListingRequest is the body of POST /listings.
type CreateListingRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Location    string   `json:"location"`
	Budget      *Budget  `json:"budget,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	Urgency     string   `json:"urgency,omitempty"`
}

// ListingsPage is the paginated response of GET /listings.
type ListingsPage struct {
	Listings []Listing `json:"listings"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}
