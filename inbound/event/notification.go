package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"clubdesk/common"
	"clubdesk/common/constant"
	"clubdesk/common/otel"
	"clubdesk/model"
	"clubdesk/outbound/store"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
)

// NotificationEvent turns ticket lifecycle events into staff
// notifications and keeps the unread badge counter in sync.
type NotificationEvent struct {
	Store store.NotificationStore
	Cache *redis.Client

	Timeout time.Duration
	TimeNow func() time.Time
}

func (in NotificationEvent) TicketReplyHandler(ctx context.Context, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, in.Timeout)
	defer cancel()

	var req model.TicketReplyEventMessage
	err := json.Unmarshal(msg, &req)
	if err != nil {
		slog.WarnContext(ctx, "ticket reply event unmarshal error", slog.Any(constant.LogFieldErr, err))
		return nil
	}

	ctx, span := otel.Tracer.Start(ctx, "NotificationEvent.TicketReplyHandler")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	reqAttr := slog.Any(constant.LogFieldPayload, string(msg))

	// Internal notes and staff replies stay off the notification feed;
	// only member activity raises a badge.
	if req.IsInternal || req.SenderType != model.SenderTypeMember {
		slog.DebugContext(ctx, "ticket reply event skipped", reqAttr, traceIdAttr)
		return nil
	}

	notification := model.Notification{
		ID:        ulid.Make().String(),
		Type:      model.NotificationTicketReply,
		Title:     fmt.Sprintf("Neue Nachricht zu %s", req.Number),
		Message:   fmt.Sprintf("%s: %s", req.SenderName, req.Preview),
		CreatedAt: in.now(),
	}

	_, err = in.Store.AddNotification(ctx, notification)
	if err != nil {
		slog.ErrorContext(ctx, "failed to add notification", traceIdAttr, reqAttr, slog.Any(constant.LogFieldErr, err))
		return err
	}

	err = in.Cache.Incr(ctx, constant.NotificationUnreadCountKey).Err()
	if err != nil {
		slog.ErrorContext(ctx, "failed to increment unread counter", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		return err
	}

	slog.InfoContext(ctx, "ticket reply notification created", traceIdAttr)

	return nil
}

func (in NotificationEvent) TicketAssignedHandler(ctx context.Context, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, in.Timeout)
	defer cancel()

	var req model.TicketAssignedEventMessage
	err := json.Unmarshal(msg, &req)
	if err != nil {
		slog.WarnContext(ctx, "ticket assigned event unmarshal error", slog.Any(constant.LogFieldErr, err))
		return nil
	}

	ctx, span := otel.Tracer.Start(ctx, "NotificationEvent.TicketAssignedHandler")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	notification := model.Notification{
		ID:        ulid.Make().String(),
		Type:      model.NotificationTicketAssigned,
		Title:     fmt.Sprintf("Ticket %s zugewiesen", req.Number),
		Message:   fmt.Sprintf("%s wurde %s zugewiesen", req.Subject, req.StaffName),
		CreatedAt: in.now(),
	}

	_, err = in.Store.AddNotification(ctx, notification)
	if err != nil {
		slog.ErrorContext(ctx, "failed to add notification", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		return err
	}

	err = in.Cache.Incr(ctx, constant.NotificationUnreadCountKey).Err()
	if err != nil {
		slog.ErrorContext(ctx, "failed to increment unread counter", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		return err
	}

	slog.InfoContext(ctx, "ticket assigned notification created", traceIdAttr)

	return nil
}

func (in NotificationEvent) now() time.Time {
	if in.TimeNow != nil {
		return in.TimeNow()
	}
	return time.Now()
}
