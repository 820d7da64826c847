package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"clubdesk/model"

	"github.com/pashagolub/pgxmock/v4"
)

func TestDebugCreateTicketRollback(t *testing.T) {
	pool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	st := NewPgStore(pool)

	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	ticket := model.Ticket{
		ID:      "tck-new",
		Subject: "Neues Anliegen",
		Requester: model.Requester{
			ID: "member-9", Name: "Lena Roth", Email: "lena.roth@example.com",
		},
		Category:  model.TicketCategoryGeneral,
		Status:    model.TicketStatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	first := model.TicketMessage{
		ID:        "msg-new",
		Sender:    model.Sender{ID: "member-9", Name: "Lena Roth", Type: model.SenderTypeMember},
		Content:   "Hallo, ich hätte eine Frage.",
		CreatedAt: now,
	}

	pool.ExpectBegin()
	pool.ExpectQuery(`INSERT INTO tickets`).
		WithArgs(
			"tck-new", "Neues Anliegen", "member-9", "Lena Roth", "lena.roth@example.com",
			"", "", model.TicketCategoryGeneral, model.TicketStatusOpen,
			(*string)(nil), (*string)(nil),
			0, 0, "Hallo, ich hätte eine Frage.", now, now,
		).
		WillReturnRows(pgxmock.NewRows([]string{"number"}).AddRow("TCK-1006"))
	pool.ExpectExec(`INSERT INTO ticket_messages`).
		WillReturnError(fmt.Errorf("database error"))
	pool.ExpectRollback()

	_, err = st.CreateTicket(context.Background(), ticket, first)
	t.Logf("CreateTicket err: %v", err)
	t.Logf("ExpectationsWereMet: %v", pool.ExpectationsWereMet())
}
