package cron

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"clubdesk/common/constant"
	"clubdesk/common/vars"
	"clubdesk/outbound/store"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/suite"
)

type InboxCronTestSuite struct {
	suite.Suite

	Store     *store.MemoryStore
	Cache     *redis.Client
	CacheMock redismock.ClientMock

	inboxCron InboxCron
}

func (s *InboxCronTestSuite) SetupTest() {
	rdb, mock := redismock.NewClientMock()
	s.Cache = rdb
	s.CacheMock = mock

	s.Store = store.NewMemoryStore()

	cfg := viper.New()
	cfg.Set("cron.inbox.refresh.interval", "1s")
	cfg.Set("cron.inbox.refresh.timeout", "5s")

	s.inboxCron = InboxCron{
		Cfg:   cfg,
		Cache: s.Cache,
		Store: s.Store,
	}

	slog.SetLogLoggerLevel(slog.LevelError)
}

func (s *InboxCronTestSuite) TearDownTest() {
	if err := s.Cache.Close(); err != nil {
		s.T().Fatalf("failed to close redis mock: %v", err)
	}
}

func TestInboxCronTestSuite(t *testing.T) {
	suite.Run(t, new(InboxCronTestSuite))
}

func (s *InboxCronTestSuite) TestRefresh() {
	s.inboxCron.refresh(context.Background())

	stats := vars.GetInboxStats()
	s.Assert().Equal(2, stats.Open)
	s.Assert().Equal(1, stats.Pending)
	s.Assert().Equal(1, stats.Resolved)
	s.Assert().Equal(1, stats.Closed)
	s.Assert().Equal(2, stats.Unassigned)
	s.Assert().Equal(5, stats.Total)
}

func (s *InboxCronTestSuite) TestStartStopsOnContextCancel() {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.inboxCron.Start(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		s.T().Fatal("cron did not stop after context cancellation")
	}
}

func (s *InboxCronTestSuite) TestInitUnreadCache() {
	s.CacheMock.ExpectTxPipeline()
	// Tickets arrive in inbox order, newest activity first.
	s.CacheMock.ExpectSetNX(fmt.Sprintf(constant.TicketUnreadCountKey, "tck-03"), 2, 0).SetVal(true)
	s.CacheMock.ExpectSetNX(fmt.Sprintf(constant.TicketUnreadCountKey, "tck-01"), 1, 0).SetVal(true)
	s.CacheMock.ExpectSetNX(fmt.Sprintf(constant.TicketUnreadCountKey, "tck-02"), 0, 0).SetVal(true)
	s.CacheMock.ExpectSetNX(fmt.Sprintf(constant.TicketUnreadCountKey, "tck-05"), 0, 0).SetVal(true)
	s.CacheMock.ExpectSetNX(fmt.Sprintf(constant.TicketUnreadCountKey, "tck-04"), 0, 0).SetVal(true)
	s.CacheMock.ExpectSetNX(constant.NotificationUnreadCountKey, 2, 0).SetVal(true)
	s.CacheMock.ExpectTxPipelineExec()

	err := s.inboxCron.InitUnreadCache(context.Background())
	s.Require().NoError(err)
	s.Require().NoError(s.CacheMock.ExpectationsWereMet())
}

func (s *InboxCronTestSuite) TestInitUnreadCachePipelineError() {
	s.CacheMock.ExpectTxPipeline()
	s.CacheMock.ExpectSetNX(fmt.Sprintf(constant.TicketUnreadCountKey, "tck-03"), 2, 0).SetErr(fmt.Errorf("connection refused"))

	err := s.inboxCron.InitUnreadCache(context.Background())
	s.Require().Error(err)
}
