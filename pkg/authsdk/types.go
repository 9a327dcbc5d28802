package authsdk

import "time"

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	// Error is a stable machine-readable code (e.g., "unauthorized", "validation_error")
	Error string `json:"error"`

	// Message is a human-readable description of the error
	Message string `json:"message,omitempty"`

	// Status repeats the HTTP status code
	Status int `json:"status"`

	// Fields holds per-field messages for validation errors
	Fields map[string]string `json:"fields,omitempty"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by GET /livez and GET /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each dependency checked by /readyz.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// ============================================================================
// Authentication Types
// ============================================================================

// AuthenticateRequest is the body of POST /authenticate. Username may be a
// login or an email address.
type AuthenticateRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

// AuthenticateResponse carries the session token.
type AuthenticateResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenRequest is the body of POST /auth/token.
type TokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest is the body of POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse is returned from POST /auth/token and POST /auth/refresh.
type TokenResponse struct {
	// AccessToken is the JWT used as the bearer credential
	AccessToken string `json:"access_token"`

	// RefreshToken renews the access token; it is not accepted as a bearer credential
	RefreshToken string `json:"refresh_token"`

	// TokenType is always "Bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime in seconds of the access token
	ExpiresIn int `json:"expires_in"`
}

// ============================================================================
// Account Types
// ============================================================================

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Login       string `json:"login"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	LangKey     string `json:"langKey,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Location    string `json:"location,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
}

// RegisterResponse confirms a registration. ActivationKey is only present
// when the server is configured to expose it (deployments without mail).
type RegisterResponse struct {
	Message       string `json:"message"`
	ActivationKey string `json:"activationKey,omitempty"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// AccountResponse is returned from GET /account.
type AccountResponse struct {
	ID          int64            `json:"id"`
	Login       string           `json:"login"`
	FirstName   string           `json:"firstName"`
	LastName    string           `json:"lastName"`
	Email       string           `json:"email"`
	Activated   bool             `json:"activated"`
	LangKey     string           `json:"langKey"`
	Authorities []string         `json:"authorities"`
	Profile     *ProfileResponse `json:"profile,omitempty"`
}

// ProfileResponse is the marketplace profile linked to an account.
type ProfileResponse struct {
	Phone       string `json:"phone,omitempty"`
	Location    string `json:"location,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
}

// ============================================================================
// Notification Types
// ============================================================================

// NotificationResponse is a single notification addressed to the caller.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Data      *string   `json:"data,omitempty"`
	Priority  string    `json:"priority"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// CountResponse carries a single count.
type CountResponse struct {
	Count int64 `json:"count"`
}

// AdminNotificationRequest is the body of POST /admin/notifications.
// Ref is required for TRANSACTION_UPDATE and DELIVERY_UPDATE.
type AdminNotificationRequest struct {
	UserID int64  `json:"userId"`
	Type   string `json:"type"`
	Detail string `json:"detail,omitempty"`
	Ref    string `json:"ref,omitempty"`
}

// ============================================================================
// Listing Types
// ============================================================================

// SellerRef is the seller embedded in a listing.
type SellerRef struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

// ListingResponse is a listing as exposed by the API.
type ListingResponse struct {
	ID          string     `json:"id"`
	Seller      SellerRef  `json:"seller"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Tags        []string   `json:"tags"`
	PriceCents  int64      `json:"priceCents"`
	Currency    string     `json:"currency"`
	Quantity    int        `json:"quantity"`
	Location    string     `json:"location,omitempty"`
	Status      string     `json:"status"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// CreateListingRequest is the body of POST /listings. Currency defaults to AUD.
type CreateListingRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	PriceCents  int64      `json:"priceCents"`
	Currency    string     `json:"currency,omitempty"`
	Quantity    int        `json:"quantity"`
	Location    string     `json:"location,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

// ListingQuery filters GET /listings. Zero values are omitted.
type ListingQuery struct {
	Keyword  string
	Status   string
	Location string
	MinPrice *int64
	MaxPrice *int64
	Page     int
	Size     int
}

// ListingPage is one page of listings plus the pagination headers.
type ListingPage struct {
	Items []ListingResponse

	// Total is the X-Total-Count header
	Total int64

	// Links maps Link relations ("next", "prev", "first", "last") to URLs
	Links map[string]string
}
