package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// User operations - standard user-facing operations

// ============================================================================
// Account
// ============================================================================

// GetAccount returns the account of the authenticated user.
func (s *Session) GetAccount(ctx context.Context) (*AccountResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/account", nil)
	if err != nil {
		return nil, err
	}

	var account AccountResponse
	if err := decodeJSON(resp, &account, http.StatusOK); err != nil {
		return nil, err
	}

	return &account, nil
}

// ============================================================================
// Notifications
// ============================================================================

// UnreadNotifications lists the caller's unread notifications, newest first.
func (s *Session) UnreadNotifications(ctx context.Context) ([]NotificationResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/notifications/unread", nil)
	if err != nil {
		return nil, err
	}

	var out []NotificationResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// UnreadCount returns how many unread notifications the caller has.
func (s *Session) UnreadCount(ctx context.Context) (int64, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/notifications/unread/count", nil)
	if err != nil {
		return 0, err
	}

	var out CountResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// MarkNotificationRead marks one of the caller's notifications read.
// Notifications owned by someone else are left untouched.
func (s *Session) MarkNotificationRead(ctx context.Context, id string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPut, "/notifications/"+url.PathEscape(id)+"/read", nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// MarkAllNotificationsRead marks every unread notification read and returns
// how many changed.
func (s *Session) MarkAllNotificationsRead(ctx context.Context) (int64, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPut, "/notifications/read-all", nil)
	if err != nil {
		return 0, err
	}

	var out CountResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// ============================================================================
// Listings
// ============================================================================

// CreateListing publishes a listing owned by the caller.
func (s *Session) CreateListing(ctx context.Context, req CreateListingRequest) (*ListingResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/listings", req)
	if err != nil {
		return nil, err
	}

	var out ListingResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
