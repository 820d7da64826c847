package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clubdesk/common/constant"
	jetstreamMock "clubdesk/common/jetstream/mocks"
	"clubdesk/model"
	"clubdesk/outbound/store"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type PortalHttpTestSuite struct {
	suite.Suite

	Store *store.MemoryStore

	Cache     *redis.Client
	CacheMock redismock.ClientMock

	Validate  *validator.Validate
	Publisher *jetstreamMock.MockPublisher

	Mux *http.ServeMux
}

func (s *PortalHttpTestSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())

	rdb, mock := redismock.NewClientMock()
	s.Cache = rdb
	s.CacheMock = mock

	s.Store = store.NewMemoryStore()
	s.Store.TimeNow = func() time.Time {
		return time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	}

	s.Validate = validator.New()
	s.Publisher = jetstreamMock.NewMockPublisher(ctrl)

	s.Mux = http.NewServeMux()
	RegisterPortalHttp(s.Mux, s.Store, s.Cache, s.Publisher, s.Validate, message.NewPrinter(language.German))

	slog.SetLogLoggerLevel(slog.LevelError)
}

func (s *PortalHttpTestSuite) TearDownTest() {
	if err := s.Cache.Close(); err != nil {
		s.T().Fatalf("failed to close redis mock: %v", err)
	}
}

func TestPortalHttpTestSuite(t *testing.T) {
	suite.Run(t, new(PortalHttpTestSuite))
}

func (s *PortalHttpTestSuite) serve(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	w := httptest.NewRecorder()
	s.Mux.ServeHTTP(w, req)
	return w
}

func (s *PortalHttpTestSuite) TestListTickets() {
	s.Run("member_id is required", func() {
		w := s.serve(http.MethodGet, "/api/portal/tickets", "")
		s.Require().Equal(http.StatusBadRequest, w.Code)
		s.Assert().JSONEq(`{"error":"member_id is required"}`, w.Body.String())
	})

	s.Run("only the member's own tickets", func() {
		w := s.serve(http.MethodGet, "/api/portal/tickets?member_id=member-1", "")
		s.Require().Equal(http.StatusOK, w.Code)

		var resp model.ListTicketsResponse
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.Require().Len(resp.Tickets, 2)
		for _, t := range resp.Tickets {
			s.Assert().Equal("member-1", t.Requester.ID)
		}
	})

	s.Run("member without tickets", func() {
		w := s.serve(http.MethodGet, "/api/portal/tickets?member_id=member-99", "")
		s.Require().Equal(http.StatusOK, w.Code)

		var resp model.ListTicketsResponse
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.Assert().Empty(resp.Tickets)
	})
}

func (s *PortalHttpTestSuite) TestTicketDetail() {
	s.Run("internal notes stay hidden", func() {
		w := s.serve(http.MethodGet, "/api/portal/tickets/tck-01?member_id=member-1", "")
		s.Require().Equal(http.StatusOK, w.Code)

		var resp model.TicketDetailResponse
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.Assert().Equal("tck-01", resp.Ticket.ID)
		s.Require().Len(resp.Messages, 2)
		for _, m := range resp.Messages {
			s.Assert().False(m.IsInternal)
			s.Assert().NotEmpty(m.ContentHTML)
		}
	})

	s.Run("another member's ticket reads as absent", func() {
		w := s.serve(http.MethodGet, "/api/portal/tickets/tck-01?member_id=member-2", "")
		s.Require().Equal(http.StatusNotFound, w.Code)
		s.Assert().JSONEq(`{"error":"Not Found"}`, w.Body.String())
	})

	s.Run("unknown ticket", func() {
		w := s.serve(http.MethodGet, "/api/portal/tickets/nope?member_id=member-1", "")
		s.Assert().Equal(http.StatusNotFound, w.Code)
	})

	s.Run("opening the thread clears the member unread counter", func() {
		w := s.serve(http.MethodGet, "/api/portal/tickets/tck-02?member_id=member-2", "")
		s.Require().Equal(http.StatusOK, w.Code)

		var resp model.TicketDetailResponse
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.Assert().Zero(resp.Ticket.MemberUnreadCount)

		ticket, err := s.Store.GetTicket(context.Background(), "tck-02")
		s.Require().NoError(err)
		s.Assert().Zero(ticket.MemberUnreadCount)
		s.Assert().Zero(ticket.UnreadCount, "the staff-side counter is untouched")
	})
}

func (s *PortalHttpTestSuite) TestCreateTicket() {
	lockKey := fmt.Sprintf(constant.PortalSubmitLock, "member-1")

	s.Run("submission lock held", func() {
		s.CacheMock.ExpectSetNX(lockKey, true, constant.PortalSubmitLockDefaultTTL).SetVal(false)

		w := s.serve(http.MethodPost, "/api/portal/tickets",
			`{"member_id":"member-1","member_name":"Petra Schmidt","member_email":"petra@example.org","category":"general","values":{"subject":"Test","message":"Hallo"}}`)
		s.Require().Equal(http.StatusConflict, w.Code)
		s.Assert().JSONEq(`{"error":"Submission already in progress"}`, w.Body.String())
		s.Require().NoError(s.CacheMock.ExpectationsWereMet())
	})

	s.Run("missing required form fields release the lock", func() {
		s.CacheMock.ExpectSetNX(lockKey, true, constant.PortalSubmitLockDefaultTTL).SetVal(true)
		s.CacheMock.ExpectDel(lockKey).SetVal(1)

		w := s.serve(http.MethodPost, "/api/portal/tickets",
			`{"member_id":"member-1","member_name":"Petra Schmidt","member_email":"petra@example.org","category":"fee_question","values":{"subject":"Beitrag"}}`)
		s.Require().Equal(http.StatusBadRequest, w.Code)
		s.Assert().JSONEq(`{"error":"Validation failed","data":["member_number","message"]}`, w.Body.String())
		s.Require().NoError(s.CacheMock.ExpectationsWereMet())
	})

	s.Run("corrected resubmission posts ticket and confirmation mail", func() {
		// The failed attempt above released the lock, so the same member
		// acquires it again immediately.
		s.CacheMock.ExpectSetNX(lockKey, true, constant.PortalSubmitLockDefaultTTL).SetVal(true)
		s.Publisher.EXPECT().Publish(gomock.Any(), constant.SubjectTicketReply, gomock.Any()).Return(nil, nil)
		s.Publisher.EXPECT().Publish(gomock.Any(), constant.SubjectSendEmail, gomock.Any()).Return(nil, nil)

		w := s.serve(http.MethodPost, "/api/portal/tickets",
			`{"member_id":"member-1","member_name":"Petra Schmidt","member_email":"petra@example.org","category":"fee_question","values":{"subject":"Beitrag zu hoch","member_number":"M-4711","message":"Es wurde mehr abgebucht als erwartet."}}`)
		s.Require().Equal(http.StatusCreated, w.Code)

		var created model.Ticket
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
		s.Assert().Equal("TCK-1006", created.Number)
		s.Assert().Equal("Beitrag zu hoch", created.Subject)
		s.Assert().Equal(model.TicketStatusOpen, created.Status)
		s.Assert().Equal(1, created.UnreadCount)
		s.Assert().Nil(created.AssignedTo)

		messages, err := s.Store.ListMessages(context.Background(), created.ID, false)
		s.Require().NoError(err)
		s.Require().Len(messages, 1)
		s.Assert().Equal("**Mitgliedsnummer:** M-4711\n\nEs wurde mehr abgebucht als erwartet.", messages[0].Content)
	})

	s.Run("unknown category falls back to the general form", func() {
		s.CacheMock.ExpectSetNX(fmt.Sprintf(constant.PortalSubmitLock, "member-2"), true, constant.PortalSubmitLockDefaultTTL).SetVal(true)
		s.Publisher.EXPECT().Publish(gomock.Any(), constant.SubjectTicketReply, gomock.Any()).Return(nil, nil)
		s.Publisher.EXPECT().Publish(gomock.Any(), constant.SubjectSendEmail, gomock.Any()).Return(nil, nil)

		w := s.serve(http.MethodPost, "/api/portal/tickets",
			`{"member_id":"member-2","member_name":"Karl Vogt","member_email":"karl@example.org","category":"complaint","values":{"message":"Die Umkleiden sind seit Wochen nicht geputzt."}}`)
		s.Require().Equal(http.StatusCreated, w.Code)

		var created model.Ticket
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
		s.Assert().Equal(model.TicketCategoryComplaint, created.Category)
		s.Assert().Equal(constant.CategoryLabel(model.TicketCategoryComplaint), created.Subject)
	})
}

func (s *PortalHttpTestSuite) TestReply() {
	s.Run("member replies to own ticket", func() {
		s.CacheMock.ExpectIncr(fmt.Sprintf(constant.TicketUnreadCountKey, "tck-01")).SetVal(1)
		s.Publisher.EXPECT().Publish(gomock.Any(), constant.SubjectTicketReply, gomock.Any()).Return(nil, nil)

		w := s.serve(http.MethodPost, "/api/portal/tickets/tck-01/messages",
			`{"sender_id":"member-1","sender_name":"Petra Schmidt","content":"Vielen Dank, das klärt *fast* alles."}`)
		s.Require().Equal(http.StatusCreated, w.Code)

		var msg model.TicketMessage
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &msg))
		s.Assert().Equal("tck-01", msg.TicketID)
		s.Assert().Contains(msg.ContentHTML, "<em>fast</em>")

		ticket, err := s.Store.GetTicket(context.Background(), "tck-01")
		s.Require().NoError(err)
		s.Assert().Equal("Vielen Dank, das klärt *fast* alles.", ticket.Preview)
	})

	s.Run("reply to another member's ticket reads as absent", func() {
		w := s.serve(http.MethodPost, "/api/portal/tickets/tck-01/messages",
			`{"sender_id":"member-2","sender_name":"Karl Vogt","content":"Hallo?"}`)
		s.Require().Equal(http.StatusNotFound, w.Code)
	})

	s.Run("missing content", func() {
		w := s.serve(http.MethodPost, "/api/portal/tickets/tck-01/messages",
			`{"sender_id":"member-1","sender_name":"Petra Schmidt"}`)
		s.Require().Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *PortalHttpTestSuite) TestForms() {
	s.Run("list", func() {
		w := s.serve(http.MethodGet, "/api/portal/forms", "")
		s.Require().Equal(http.StatusOK, w.Code)

		var forms []model.TicketForm
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &forms))
		s.Assert().Len(forms, 5)
	})

	s.Run("by category", func() {
		w := s.serve(http.MethodGet, "/api/portal/forms/fee_question", "")
		s.Require().Equal(http.StatusOK, w.Code)

		var form model.TicketForm
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &form))
		s.Assert().Equal("form-fee", form.ID)
	})

	s.Run("unknown category", func() {
		w := s.serve(http.MethodGet, "/api/portal/forms/complaint", "")
		s.Assert().Equal(http.StatusNotFound, w.Code)
	})
}

func (s *PortalHttpTestSuite) TestChats() {
	s.Run("list for member", func() {
		w := s.serve(http.MethodGet, "/api/portal/chats?member_id=member-1", "")
		s.Require().Equal(http.StatusOK, w.Code)

		var chats []model.Chat
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &chats))
		s.Require().Len(chats, 2)
		s.Assert().Equal("chat-1", chats[0].ID)
	})

	s.Run("messages", func() {
		w := s.serve(http.MethodGet, "/api/portal/chats/chat-1/messages", "")
		s.Require().Equal(http.StatusOK, w.Code)

		var messages []model.ChatMessage
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &messages))
		s.Require().Len(messages, 2)
		s.Assert().Equal("cmsg-11", messages[0].ID)
	})

	s.Run("send bumps the chat preview", func() {
		w := s.serve(http.MethodPost, "/api/portal/chats/chat-1/messages",
			`{"sender_id":"member-1","sender_name":"Petra Schmidt","content":"Passt Donnerstag 17 Uhr?"}`)
		s.Require().Equal(http.StatusCreated, w.Code)

		var resp struct {
			Chat    model.Chat        `json:"chat"`
			Message model.ChatMessage `json:"message"`
		}
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.Assert().Equal("Passt Donnerstag 17 Uhr?", resp.Chat.LastMessage)
		s.Assert().True(resp.Message.Read)
	})

	s.Run("mark read", func() {
		w := s.serve(http.MethodPost, "/api/portal/chats/chat-1/read", "")
		s.Require().Equal(http.StatusOK, w.Code)

		chats, err := s.Store.ListMemberChats(context.Background(), "member-1")
		s.Require().NoError(err)
		s.Assert().Zero(chats[0].UnreadCount)
	})

	s.Run("unknown chat", func() {
		w := s.serve(http.MethodPost, "/api/portal/chats/nope/read", "")
		s.Assert().Equal(http.StatusNotFound, w.Code)
	})
}
