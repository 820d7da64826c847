package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"clubdesk/model"

	"github.com/stretchr/testify/suite"
)

type recordingSender struct {
	to      []string
	subject string
	body    string
	err     error
}

func (r *recordingSender) Send(to []string, subject string, body string) error {
	r.to = to
	r.subject = subject
	r.body = body
	return r.err
}

type EmailEventTestSuite struct {
	suite.Suite

	sender     *recordingSender
	emailEvent EmailEvent
}

func (s *EmailEventTestSuite) SetupTest() {
	s.sender = &recordingSender{}
	s.emailEvent = EmailEvent{
		EmailOutbound: s.sender,
		Timeout:       10 * time.Second,
	}

	slog.SetLogLoggerLevel(slog.LevelError)
}

func TestEmailEventTestSuite(t *testing.T) {
	suite.Run(t, new(EmailEventTestSuite))
}

func (s *EmailEventTestSuite) TestSendEmailHandler() {
	msg, err := json.Marshal(model.SendEmailEventMessage{
		To:      "petra@example.org",
		Subject: "[TCK-1006] Beitrag zu hoch",
		Body:    "Hallo Petra Schmidt,\n\nwir haben Ihre Anfrage erhalten.",
	})
	s.Require().NoError(err)

	err = s.emailEvent.SendEmailHandler(context.Background(), msg)
	s.Require().NoError(err)

	s.Assert().Equal([]string{"petra@example.org"}, s.sender.to)
	s.Assert().Equal("[TCK-1006] Beitrag zu hoch", s.sender.subject)
	s.Assert().Contains(s.sender.body, "Petra Schmidt")
}

func (s *EmailEventTestSuite) TestSendEmailHandlerDeliveryError() {
	s.sender.err = fmt.Errorf("smtp unavailable")

	msg, err := json.Marshal(model.SendEmailEventMessage{To: "petra@example.org"})
	s.Require().NoError(err)

	err = s.emailEvent.SendEmailHandler(context.Background(), msg)
	s.Require().Error(err)
}

func (s *EmailEventTestSuite) TestSendEmailHandlerBadPayload() {
	err := s.emailEvent.SendEmailHandler(context.Background(), []byte("not json"))
	s.Require().NoError(err)
	s.Assert().Empty(s.sender.to)
}
