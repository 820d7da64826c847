package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"clubdesk/common"
	"clubdesk/common/constant"
	"clubdesk/common/vars"
	"clubdesk/model"
	"clubdesk/outbound/store"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// InboxCron keeps the dashboard stats snapshot warm and seeds the redis
// unread counters from the store on startup.
type InboxCron struct {
	Cfg   *viper.Viper
	Cache *redis.Client
	Store store.Store
}

func (in InboxCron) Start(ctx context.Context) {
	refreshTicker := time.NewTicker(in.Cfg.GetDuration("cron.inbox.refresh.interval"))
	defer refreshTicker.Stop()

	// Run initial refresh
	in.refresh(ctx)

	slog.Info("inbox cron started")

	// Block in the main function, not in a goroutine
	for {
		select {
		case <-refreshTicker.C:
			in.refresh(ctx)
		case <-ctx.Done():
			slog.Info("inbox cron stopped")
			return
		}
	}
}

func (in InboxCron) refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, in.Cfg.GetDuration("cron.inbox.refresh.timeout"))
	defer cancel()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	slog.DebugContext(ctx, "refreshing inbox stats", traceIdAttr)

	tickets, err := in.Store.ListTickets(ctx, model.TicketFilter{Scope: model.ScopeAll})
	if err != nil {
		slog.ErrorContext(ctx, "failed to list tickets", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		return
	}

	stats := model.InboxStats{Total: len(tickets)}
	for _, t := range tickets {
		switch t.Status {
		case model.TicketStatusOpen:
			stats.Open++
		case model.TicketStatusPending:
			stats.Pending++
		case model.TicketStatusResolved:
			stats.Resolved++
		case model.TicketStatusClosed:
			stats.Closed++
		}
		if t.AssignedTo == nil {
			stats.Unassigned++
		}
	}

	vars.SetInboxStats(stats)

	slog.DebugContext(ctx, "inbox stats refreshed successfully", traceIdAttr)
}

func (in InboxCron) InitUnreadCache(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tickets, err := in.Store.ListTickets(ctx, model.TicketFilter{Scope: model.ScopeAll})
	if err != nil {
		slog.ErrorContext(ctx, "failed to list tickets", slog.Any(constant.LogFieldErr, err))
		return fmt.Errorf("list tickets: %w", err)
	}

	notifications, err := in.Store.ListNotifications(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list notifications", slog.Any(constant.LogFieldErr, err))
		return fmt.Errorf("list notifications: %w", err)
	}

	unreadNotifications := 0
	for _, n := range notifications {
		if !n.IsRead {
			unreadNotifications++
		}
	}

	pipe := in.Cache.TxPipeline()
	for _, t := range tickets {
		pipe.SetNX(ctx, fmt.Sprintf(constant.TicketUnreadCountKey, t.ID), t.UnreadCount, 0)
	}
	pipe.SetNX(ctx, constant.NotificationUnreadCountKey, unreadNotifications, 0)

	if _, err = pipe.Exec(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to initialize unread counters in cache", slog.Any(constant.LogFieldErr, err))
		return fmt.Errorf("execute pipeline: %w", err)
	}

	slog.InfoContext(ctx, "unread counters initialized successfully")
	return nil
}
