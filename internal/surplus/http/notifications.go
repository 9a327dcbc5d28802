package http

import (
	"net/http"

	"github.com/aussiebroadwan/surplus360/internal/surplus/domain"
	"github.com/aussiebroadwan/surplus360/internal/surplus/service"
	"github.com/aussiebroadwan/surplus360/pkg/authsdk"
	"github.com/aussiebroadwan/surplus360/pkg/httpx"
	"github.com/aussiebroadwan/surplus360/pkg/idx"
)

type NotificationsHandler struct {
	NotificationService *service.NotificationService
	AccountService      *service.AccountService
}

// HandleUnread lists the caller's unread notifications.
//
//	@Summary		Unread notifications
//	@Description	Lists the caller's unread notifications, newest first.
//	@Tags			Notifications
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		authsdk.NotificationResponse	"Unread notifications"
//	@Failure		401	{object}	authsdk.ErrorResponse			"Invalid or missing token"
//	@Router			/notifications/unread [get].
func (h *NotificationsHandler) HandleUnread(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(w, r, h.AccountService)
	if !ok {
		return
	}

	ns, err := h.NotificationService.Unread(r.Context(), id.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toNotificationResponses(ns))
}

// HandleCount returns the caller's unread count.
//
//	@Summary		Unread notification count
//	@Tags			Notifications
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.CountResponse	"Unread count"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid or missing token"
//	@Router			/notifications/unread/count [get].
func (h *NotificationsHandler) HandleCount(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(w, r, h.AccountService)
	if !ok {
		return
	}

	n, err := h.NotificationService.CountUnread(r.Context(), id.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.CountResponse{Count: n})
}

// HandleMarkRead marks one notification read.
//
//	@Summary		Mark notification read
//	@Description	Marks the notification read when it belongs to the caller.
//	@Description	Unknown notifications and notifications of other users are left untouched and still answer 204.
//	@Tags			Notifications
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Notification ID"
//	@Success		204	"Done"
//	@Failure		400	{object}	authsdk.ErrorResponse	"Malformed id"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid or missing token"
//	@Router			/notifications/{id}/read [put].
func (h *NotificationsHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(w, r, h.AccountService)
	if !ok {
		return
	}

	nid, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		authsdk.ErrBadRequest.WithMessage("invalid notification id").WriteError(w)
		return
	}

	if err := h.NotificationService.MarkAsRead(r.Context(), nid, id.UserID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMarkAll marks every unread notification read.
//
//	@Summary		Mark all notifications read
//	@Tags			Notifications
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.CountResponse	"Number of notifications marked"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid or missing token"
//	@Router			/notifications/read-all [put].
func (h *NotificationsHandler) HandleMarkAll(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(w, r, h.AccountService)
	if !ok {
		return
	}

	n, err := h.NotificationService.MarkAllAsRead(r.Context(), id.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.CountResponse{Count: int64(n)})
}

type AdminNotificationHandler struct {
	NotificationService *service.NotificationService
}

// ServeHTTP creates a notification for any user.
//
//	@Summary		Send notification
//	@Description	Creates a notification from the template of its type. Requires ROLE_ADMIN.
//	@Description	ref is required for TRANSACTION_UPDATE and DELIVERY_UPDATE.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.AdminNotificationRequest	true	"Event"
//	@Success		201		{object}	authsdk.NotificationResponse		"Created"
//	@Failure		400		{object}	authsdk.ErrorResponse				"Validation failed"
//	@Failure		401		{object}	authsdk.ErrorResponse				"Invalid or missing token"
//	@Failure		403		{object}	authsdk.ErrorResponse				"Not an administrator"
//	@Failure		404		{object}	authsdk.ErrorResponse				"Unknown user"
//	@Router			/admin/notifications [post].
func (h *AdminNotificationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.AdminNotificationRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}

	n, err := h.NotificationService.Notify(r.Context(), service.Event{
		UserID: req.UserID,
		Kind:   domain.NotificationType(req.Type),
		Detail: req.Detail,
		Ref:    req.Ref,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toNotificationResponse(n))
}
