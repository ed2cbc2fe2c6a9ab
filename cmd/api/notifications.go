package main

import (
	"errors"
	"net/http"

	"skilllinkup/internal/domain/inbox"
	"skilllinkup/internal/params"
)

type NotificationsResponse struct {
	Notifications []inbox.Notification `json:"notifications"`
	UnreadCount   int                  `json:"unread_count"`
	Pagination    params.Pagination    `json:"pagination"`
}

// listNotificationsHandler godoc
//
//	@Summary		List notifications
//	@Description	The caller's in-app notifications, newest first, with the unread count.
//	@Tags			notifications
//	@Produce		json
//	@Param			page	query		int	false	"Page number"
//	@Param			limit	query		int	false	"Items per page (max 30)"
//	@Success		200		{object}	NotificationsResponse
//	@Failure		401		{object}	error
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/notifications [get]
func (app *application) listNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	ctx := r.Context()

	p := params.ParsePagination(r.URL.Query())

	list, total, err := app.store.Inbox.ListByUser(ctx, user.ID, p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	unread, err := app.store.Inbox.UnreadCount(ctx, user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	if list == nil {
		list = []inbox.Notification{}
	}

	resp := NotificationsResponse{Notifications: list, UnreadCount: unread, Pagination: p}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

// markNotificationReadHandler godoc
//
//	@Summary		Mark a notification as read
//	@Tags			notifications
//	@Param			notificationID	path	int	true	"Notification ID"
//	@Success		204
//	@Failure		400	{object}	ErrorBadRequestResponse
//	@Failure		401	{object}	error
//	@Failure		404	{object}	error
//	@Failure		500	{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/notifications/{notificationID}/read [patch]
func (app *application) markNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	id, err := parseIDParam(r, "notificationID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Inbox.MarkRead(r.Context(), id, user.ID); err != nil {
		if errors.Is(err, inbox.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
