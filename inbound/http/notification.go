package http

import (
	"log/slog"
	"net/http"

	"clubdesk/common"
	"clubdesk/common/constant"
	"clubdesk/common/otel"
	"clubdesk/outbound/store"

	"github.com/redis/go-redis/v9"
)

type NotificationHttp struct {
	Store store.NotificationStore
	Cache *redis.Client
}

func RegisterNotificationHttp(mux *http.ServeMux, st store.NotificationStore, cache *redis.Client) *NotificationHttp {
	in := &NotificationHttp{Store: st, Cache: cache}

	mux.HandleFunc("GET /api/notifications", in.list)
	mux.HandleFunc("POST /api/notifications/{id}/read", in.toggleRead)
	mux.HandleFunc("POST /api/notifications/read-all", in.readAll)
	mux.HandleFunc("GET /api/notifications/unread-count", in.unreadCount)

	return in
}

func (in *NotificationHttp) list(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "NotificationHttp.list")
	defer span.End()

	notifications, err := in.Store.ListNotifications(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list notifications", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, storeError(err))
		return
	}

	writeJSONResponse(w, http.StatusOK, notifications)
}

func (in *NotificationHttp) toggleRead(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "NotificationHttp.toggleRead")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	n, err := in.Store.ToggleNotificationRead(ctx, r.PathValue("id"))
	if err != nil {
		slog.WarnContext(ctx, "failed to toggle notification", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, storeError(err))
		return
	}

	delta := int64(1)
	if n.IsRead {
		delta = -1
	}
	if err := in.Cache.IncrBy(ctx, constant.NotificationUnreadCountKey, delta).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to adjust unread counter", traceIdAttr, slog.Any(constant.LogFieldErr, err))
	}

	writeJSONResponse(w, http.StatusOK, n)
}

func (in *NotificationHttp) readAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "NotificationHttp.readAll")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	marked, err := in.Store.MarkAllNotificationsRead(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to mark notifications read", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, storeError(err))
		return
	}

	if err := in.Cache.Set(ctx, constant.NotificationUnreadCountKey, 0, 0).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to reset unread counter", traceIdAttr, slog.Any(constant.LogFieldErr, err))
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{"marked": marked})
}

// unreadCount serves the bell badge. The counter lives in the cache so
// the queue consumers can bump it without touching the store; a missing
// key degrades to zero.
func (in *NotificationHttp) unreadCount(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "NotificationHttp.unreadCount")
	defer span.End()

	count, err := in.Cache.Get(ctx, constant.NotificationUnreadCountKey).Int()
	if err != nil && err != redis.Nil {
		slog.ErrorContext(ctx, "failed to read unread counter", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]int{"unread": count})
}
