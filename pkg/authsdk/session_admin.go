package authsdk

import (
	"context"
	"net/http"
)

// Admin operations - require ROLE_ADMIN

// SendNotification creates a notification for another user.
func (s *Session) SendNotification(ctx context.Context, req AdminNotificationRequest) (*NotificationResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/admin/notifications", req)
	if err != nil {
		return nil, err
	}

	var out NotificationResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
