package store

import (
	"sort"
	"strings"

	"clubdesk/model"
)

// FilterTickets applies the staff inbox filter tuple to the full ticket
// set and returns a new, sorted slice. The pipeline runs in a fixed
// order: assignment scope, search term, status, category, then a stable
// sort by UpdatedAt descending so tickets with equal timestamps keep
// their input order. The function is pure; the input slice is not
// modified.
func FilterTickets(tickets []model.Ticket, f model.TicketFilter) []model.Ticket {
	result := make([]model.Ticket, 0, len(tickets))

	for _, t := range tickets {
		if !matchesScope(t, f) {
			continue
		}
		if !matchesSearch(t, f.Search) {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Category != "" && t.Category != f.Category {
			continue
		}

		result = append(result, t)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})

	return result
}

func matchesScope(t model.Ticket, f model.TicketFilter) bool {
	switch f.Scope {
	case model.ScopeMine:
		return t.AssignedTo != nil && t.AssignedTo.ID == f.StaffID
	case model.ScopeUnassigned:
		return t.AssignedTo == nil
	default:
		return true
	}
}

// matchesSearch does a case-insensitive substring match against subject,
// requester name, ticket number and requester department. An empty term
// restricts nothing.
func matchesSearch(t model.Ticket, term string) bool {
	if term == "" {
		return true
	}

	term = strings.ToLower(term)
	for _, field := range []string{t.Subject, t.Requester.Name, t.Number, t.Requester.Department} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}

	return false
}
