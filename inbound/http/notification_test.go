package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clubdesk/common/constant"
	"clubdesk/model"
	"clubdesk/outbound/store"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type NotificationHttpTestSuite struct {
	suite.Suite

	Store *store.MemoryStore

	Cache     *redis.Client
	CacheMock redismock.ClientMock

	Mux *http.ServeMux
}

func (s *NotificationHttpTestSuite) SetupTest() {
	rdb, mock := redismock.NewClientMock()
	s.Cache = rdb
	s.CacheMock = mock

	s.Store = store.NewMemoryStore()
	s.Store.TimeNow = func() time.Time {
		return time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	}

	s.Mux = http.NewServeMux()
	RegisterNotificationHttp(s.Mux, s.Store, s.Cache)

	slog.SetLogLoggerLevel(slog.LevelError)
}

func (s *NotificationHttpTestSuite) TearDownTest() {
	if err := s.Cache.Close(); err != nil {
		s.T().Fatalf("failed to close redis mock: %v", err)
	}
}

func TestNotificationHttpTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationHttpTestSuite))
}

func (s *NotificationHttpTestSuite) serve(method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	s.Mux.ServeHTTP(w, req)
	return w
}

func (s *NotificationHttpTestSuite) TestList() {
	w := s.serve(http.MethodGet, "/api/notifications")
	s.Require().Equal(http.StatusOK, w.Code)

	var notifications []model.Notification
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &notifications))
	s.Require().Len(notifications, 3)
	s.Assert().Equal("ntf-1", notifications[0].ID)
	s.Assert().False(notifications[0].IsRead)
	s.Assert().True(notifications[1].IsRead)
}

func (s *NotificationHttpTestSuite) TestToggleRead() {
	s.Run("marking read decrements the counter", func() {
		s.CacheMock.ExpectIncrBy(constant.NotificationUnreadCountKey, -1).SetVal(1)

		w := s.serve(http.MethodPost, "/api/notifications/ntf-1/read")
		s.Require().Equal(http.StatusOK, w.Code)

		var n model.Notification
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &n))
		s.Assert().True(n.IsRead)
		s.Require().NoError(s.CacheMock.ExpectationsWereMet())
	})

	s.Run("toggling back increments it again", func() {
		s.CacheMock.ExpectIncrBy(constant.NotificationUnreadCountKey, 1).SetVal(2)

		w := s.serve(http.MethodPost, "/api/notifications/ntf-1/read")
		s.Require().Equal(http.StatusOK, w.Code)

		var n model.Notification
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &n))
		s.Assert().False(n.IsRead)
		s.Require().NoError(s.CacheMock.ExpectationsWereMet())
	})

	s.Run("unknown notification", func() {
		w := s.serve(http.MethodPost, "/api/notifications/ntf-99/read")
		s.Assert().Equal(http.StatusNotFound, w.Code)
	})
}

func (s *NotificationHttpTestSuite) TestReadAll() {
	s.CacheMock.ExpectSet(constant.NotificationUnreadCountKey, 0, 0).SetVal("OK")

	w := s.serve(http.MethodPost, "/api/notifications/read-all")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Assert().JSONEq(`{"marked":2}`, w.Body.String())
	s.Require().NoError(s.CacheMock.ExpectationsWereMet())

	// Second pass finds nothing left to mark.
	s.CacheMock.ExpectSet(constant.NotificationUnreadCountKey, 0, 0).SetVal("OK")

	w = s.serve(http.MethodPost, "/api/notifications/read-all")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Assert().JSONEq(`{"marked":0}`, w.Body.String())
}

func (s *NotificationHttpTestSuite) TestUnreadCount() {
	s.Run("counter present", func() {
		s.CacheMock.ExpectGet(constant.NotificationUnreadCountKey).SetVal("2")

		w := s.serve(http.MethodGet, "/api/notifications/unread-count")
		s.Require().Equal(http.StatusOK, w.Code)
		s.Assert().JSONEq(`{"unread":2}`, w.Body.String())
	})

	s.Run("missing key degrades to zero", func() {
		s.CacheMock.ExpectGet(constant.NotificationUnreadCountKey).RedisNil()

		w := s.serve(http.MethodGet, "/api/notifications/unread-count")
		s.Require().Equal(http.StatusOK, w.Code)
		s.Assert().JSONEq(`{"unread":0}`, w.Body.String())
	})
}
