package api

// User roles known to the platform.
const (
	RoleClient     = "client"
	RoleContractor = "contractor"
	RoleAdmin      = "admin"
)

// ProfileImage is an uploaded avatar reference.
type ProfileImage struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// User is the server-owned profile mirrored by the client.
// It is a read-mostly cache: any mutation that could change server-side
// fields (profile edit, subscription change) is followed by a re-fetch.
type User struct {
	ID            string        `json:"_id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Role          string        `json:"role"`
	Avatar        string        `json:"avatar,omitempty"`
	ProfileImage  *ProfileImage `json:"profileImage,omitempty"`
	Phone         string        `json:"phone,omitempty"`
	Location      string        `json:"location,omitempty"`
	Bio           string        `json:"bio,omitempty"`
	Trade         string        `json:"trade,omitempty"`
	HourlyRate    float64       `json:"hourlyRate,omitempty"`
	Skills        []string      `json:"skills,omitempty"`
	IsVerified    bool          `json:"isVerified"`
	IsActive      bool          `json:"isActive"`
	AverageRating float64       `json:"averageRating"`
	ReviewCount   int           `json:"reviewCount"`

	SubscriptionPlan      string `json:"subscriptionPlan,omitempty"`
	SubscriptionStatus    string `json:"subscriptionStatus,omitempty"`
	SubscriptionExpiresAt string `json:"subscriptionExpiresAt,omitempty"`

	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// UpdateUserRequest is the body of PATCH /users/me.
// Zero-valued fields are omitted and left unchanged server-side.
type UpdateUserRequest struct {
	Name       string   `json:"name,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	Location   string   `json:"location,omitempty"`
	Bio        string   `json:"bio,omitempty"`
	Trade      string   `json:"trade,omitempty"`
	HourlyRate float64  `json:"hourlyRate,omitempty"`
	Skills     []string `json:"skills,omitempty"`
}
