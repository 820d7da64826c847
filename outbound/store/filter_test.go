package store

import (
	"testing"
	"time"

	"clubdesk/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filterFixture() []model.Ticket {
	anna := model.StaffRef{ID: "staff-1", Name: "Anna Berger"}
	jonas := model.StaffRef{ID: "staff-2", Name: "Jonas Keller"}

	at := func(day int) time.Time {
		return time.Date(2026, time.March, day, 12, 0, 0, 0, time.UTC)
	}

	return []model.Ticket{
		{
			ID: "t1", Number: "TCK-1001", Subject: "Frage zum Jahresbeitrag",
			Requester: model.Requester{Name: "Petra Schmidt", Department: "Turnen"},
			Category:  model.TicketCategoryFeeQuestion, Status: model.TicketStatusOpen,
			AssignedTo: &anna, UpdatedAt: at(3),
		},
		{
			ID: "t2", Number: "TCK-1002", Subject: "Mitgliedsbescheinigung",
			Requester: model.Requester{Name: "Karl Weber", Department: "Fußball"},
			Category:  model.TicketCategoryDocuments, Status: model.TicketStatusPending,
			AssignedTo: &jonas, UpdatedAt: at(2),
		},
		{
			ID: "t3", Number: "TCK-1003", Subject: "Anmeldung Sommerturnier",
			Requester: model.Requester{Name: "Mia Lorenz", Department: "Tennis"},
			Category:  model.TicketCategoryRegistration, Status: model.TicketStatusOpen,
			UpdatedAt: at(4),
		},
		{
			ID: "t4", Number: "TCK-1004", Subject: "Login funktioniert nicht",
			Requester: model.Requester{Name: "Petra Schmidt", Department: "Turnen"},
			Category:  model.TicketCategoryTechnical, Status: model.TicketStatusResolved,
			AssignedTo: &anna, UpdatedAt: at(1),
		},
	}
}

func TestFilterTickets(t *testing.T) {
	tickets := filterFixture()

	tests := []struct {
		name    string
		filter  model.TicketFilter
		wantIDs []string
	}{
		{
			name:    "no filter returns everything newest first",
			filter:  model.TicketFilter{Scope: model.ScopeAll},
			wantIDs: []string{"t3", "t1", "t2", "t4"},
		},
		{
			name:    "scope mine",
			filter:  model.TicketFilter{Scope: model.ScopeMine, StaffID: "staff-1"},
			wantIDs: []string{"t1", "t4"},
		},
		{
			name:    "scope mine for other staff",
			filter:  model.TicketFilter{Scope: model.ScopeMine, StaffID: "staff-2"},
			wantIDs: []string{"t2"},
		},
		{
			name:    "scope unassigned",
			filter:  model.TicketFilter{Scope: model.ScopeUnassigned},
			wantIDs: []string{"t3"},
		},
		{
			name:    "search by subject is case insensitive",
			filter:  model.TicketFilter{Scope: model.ScopeAll, Search: "JAHRESBEITRAG"},
			wantIDs: []string{"t1"},
		},
		{
			name:    "search by requester name",
			filter:  model.TicketFilter{Scope: model.ScopeAll, Search: "petra"},
			wantIDs: []string{"t1", "t4"},
		},
		{
			name:    "search by ticket number",
			filter:  model.TicketFilter{Scope: model.ScopeAll, Search: "1003"},
			wantIDs: []string{"t3"},
		},
		{
			name:    "search by department",
			filter:  model.TicketFilter{Scope: model.ScopeAll, Search: "tennis"},
			wantIDs: []string{"t3"},
		},
		{
			name:    "status filter",
			filter:  model.TicketFilter{Scope: model.ScopeAll, Status: model.TicketStatusOpen},
			wantIDs: []string{"t3", "t1"},
		},
		{
			name:    "category filter",
			filter:  model.TicketFilter{Scope: model.ScopeAll, Category: model.TicketCategoryDocuments},
			wantIDs: []string{"t2"},
		},
		{
			name: "all filters combined",
			filter: model.TicketFilter{
				Scope: model.ScopeMine, StaffID: "staff-1",
				Search: "petra", Status: model.TicketStatusOpen,
				Category: model.TicketCategoryFeeQuestion,
			},
			wantIDs: []string{"t1"},
		},
		{
			name:    "no match",
			filter:  model.TicketFilter{Scope: model.ScopeAll, Search: "schwimmen"},
			wantIDs: []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := FilterTickets(tickets, tc.filter)

			ids := make([]string, 0, len(result))
			for _, tk := range result {
				ids = append(ids, tk.ID)
			}

			assert.Equal(t, tc.wantIDs, ids)
		})
	}
}

func TestFilterTicketsDoesNotModifyInput(t *testing.T) {
	tickets := filterFixture()
	order := []string{tickets[0].ID, tickets[1].ID, tickets[2].ID, tickets[3].ID}

	FilterTickets(tickets, model.TicketFilter{Scope: model.ScopeAll, Search: "petra"})

	for i, id := range order {
		assert.Equal(t, id, tickets[i].ID)
	}
}

func TestFilterTicketsNarrowsOnly(t *testing.T) {
	// Adding a predicate can only remove tickets from the result, never
	// add ones the broader filter did not contain.
	tickets := filterFixture()

	broad := FilterTickets(tickets, model.TicketFilter{Scope: model.ScopeAll})
	narrow := FilterTickets(tickets, model.TicketFilter{Scope: model.ScopeAll, Status: model.TicketStatusOpen})

	require.LessOrEqual(t, len(narrow), len(broad))

	broadIDs := make(map[string]bool, len(broad))
	for _, tk := range broad {
		broadIDs[tk.ID] = true
	}
	for _, tk := range narrow {
		assert.True(t, broadIDs[tk.ID])
	}
}

func TestFilterTicketsStableOnEqualTimestamps(t *testing.T) {
	ts := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	tickets := []model.Ticket{
		{ID: "a", UpdatedAt: ts},
		{ID: "b", UpdatedAt: ts},
		{ID: "c", UpdatedAt: ts},
	}

	result := FilterTickets(tickets, model.TicketFilter{Scope: model.ScopeAll})

	require.Len(t, result, 3)
	assert.Equal(t, "a", result[0].ID)
	assert.Equal(t, "b", result[1].ID)
	assert.Equal(t, "c", result[2].ID)
}
