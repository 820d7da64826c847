package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"clubdesk/common"
	"clubdesk/model"
)

// MemoryStore is the seeded in-memory implementation of Store. Updates
// replace whole records rather than mutating them in place, so slices
// handed out to callers are never written to afterwards. Latency
// simulates the fetch delay of a remote collaborator and is zero in
// tests.
type MemoryStore struct {
	mu sync.RWMutex

	tickets       []model.Ticket
	messages      map[string][]model.TicketMessage
	templates     []model.MessageTemplate
	forms         []model.TicketForm
	notifications []model.Notification
	chats         []model.Chat
	chatMessages  map[string][]model.ChatMessage

	nextNumber int

	Latency time.Duration
	TimeNow func() time.Time
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		messages:     make(map[string][]model.TicketMessage),
		chatMessages: make(map[string][]model.ChatMessage),
		TimeNow:      time.Now,
	}
	s.seed()
	return s
}

// wait simulates the resolution delay of the mock data layer.
func (s *MemoryStore) wait(ctx context.Context) error {
	if s.Latency <= 0 {
		return nil
	}

	select {
	case <-time.After(s.Latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *MemoryStore) ListTickets(ctx context.Context, f model.TicketFilter) ([]model.Ticket, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return FilterTickets(s.tickets, f), nil
}

func (s *MemoryStore) GetTicket(ctx context.Context, id string) (model.Ticket, error) {
	if err := s.wait(ctx); err != nil {
		return model.Ticket{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tickets {
		if t.ID == id {
			return t, nil
		}
	}

	return model.Ticket{}, ErrNotFound
}

func (s *MemoryStore) ListMemberTickets(ctx context.Context, memberID string) ([]model.Ticket, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []model.Ticket
	for _, t := range s.tickets {
		if t.Requester.ID == memberID {
			result = append(result, t)
		}
	}

	return FilterTickets(result, model.TicketFilter{}), nil
}

func (s *MemoryStore) CreateTicket(ctx context.Context, t model.Ticket, first model.TicketMessage) (model.Ticket, error) {
	if err := s.wait(ctx); err != nil {
		return model.Ticket{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Number == "" {
		t.Number = fmt.Sprintf("TCK-%d", s.nextNumber)
		s.nextNumber++
	}
	if t.Preview == "" {
		t.Preview = common.Preview(first.Content, 120)
	}

	s.tickets = append(s.tickets, t)

	first.TicketID = t.ID
	s.messages[t.ID] = append(s.messages[t.ID], first)

	return t, nil
}

// replaceTicket applies fn to the ticket with the given id and swaps the
// backing slice for a new one containing the updated copy.
func (s *MemoryStore) replaceTicket(id string, fn func(model.Ticket) model.Ticket) (model.Ticket, error) {
	for i, t := range s.tickets {
		if t.ID != id {
			continue
		}

		updated := fn(t)
		next := make([]model.Ticket, len(s.tickets))
		copy(next, s.tickets)
		next[i] = updated
		s.tickets = next

		return updated, nil
	}

	return model.Ticket{}, ErrNotFound
}

func (s *MemoryStore) UpdateTicketStatus(ctx context.Context, id string, status model.TicketStatus) (model.Ticket, error) {
	if err := s.wait(ctx); err != nil {
		return model.Ticket{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.replaceTicket(id, func(t model.Ticket) model.Ticket {
		t.Status = status
		t.UpdatedAt = s.TimeNow()
		return t
	})
}

func (s *MemoryStore) UpdateTicketAssignee(ctx context.Context, id string, assignee *model.StaffRef) (model.Ticket, error) {
	if err := s.wait(ctx); err != nil {
		return model.Ticket{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.replaceTicket(id, func(t model.Ticket) model.Ticket {
		t.AssignedTo = assignee
		t.UpdatedAt = s.TimeNow()
		return t
	})
}

func (s *MemoryStore) ListMessages(ctx context.Context, ticketID string, includeInternal bool) ([]model.TicketMessage, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	thread := s.messages[ticketID]
	result := make([]model.TicketMessage, 0, len(thread))
	for _, m := range thread {
		if m.IsInternal && !includeInternal {
			continue
		}
		result = append(result, m)
	}

	return result, nil
}

func (s *MemoryStore) AppendMessage(ctx context.Context, msg model.TicketMessage) (model.Ticket, error) {
	if err := s.wait(ctx); err != nil {
		return model.Ticket{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := s.replaceTicket(msg.TicketID, func(t model.Ticket) model.Ticket {
		t.UpdatedAt = msg.CreatedAt
		if !msg.IsInternal {
			t.Preview = common.Preview(msg.Content, 120)
		}
		if msg.Sender.Type == model.SenderTypeMember {
			t.UnreadCount++
		}
		if msg.Sender.Type == model.SenderTypeStaff && !msg.IsInternal {
			t.MemberUnreadCount++
		}
		return t
	})
	if err != nil {
		return model.Ticket{}, err
	}

	s.messages[msg.TicketID] = append(s.messages[msg.TicketID], msg)

	return updated, nil
}

func (s *MemoryStore) MarkTicketRead(ctx context.Context, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.replaceTicket(id, func(t model.Ticket) model.Ticket {
		t.UnreadCount = 0
		return t
	})

	return err
}

func (s *MemoryStore) MarkTicketReadForMember(ctx context.Context, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.replaceTicket(id, func(t model.Ticket) model.Ticket {
		t.MemberUnreadCount = 0
		return t
	})

	return err
}

func (s *MemoryStore) ListTemplates(ctx context.Context) ([]model.MessageTemplate, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.MessageTemplate, len(s.templates))
	copy(result, s.templates)

	return result, nil
}

func (s *MemoryStore) GetTemplate(ctx context.Context, id string) (model.MessageTemplate, error) {
	if err := s.wait(ctx); err != nil {
		return model.MessageTemplate{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.templates {
		if t.ID == id {
			return t, nil
		}
	}

	return model.MessageTemplate{}, ErrNotFound
}

func (s *MemoryStore) CreateTemplate(ctx context.Context, t model.MessageTemplate) (model.MessageTemplate, error) {
	if err := s.wait(ctx); err != nil {
		return model.MessageTemplate{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.templates = append(s.templates, t)

	return t, nil
}

func (s *MemoryStore) UpdateTemplate(ctx context.Context, t model.MessageTemplate) (model.MessageTemplate, error) {
	if err := s.wait(ctx); err != nil {
		return model.MessageTemplate{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.templates {
		if existing.ID != t.ID {
			continue
		}

		existing.Name = t.Name
		existing.Content = t.Content
		existing.Category = t.Category
		existing.UpdatedAt = t.UpdatedAt

		next := make([]model.MessageTemplate, len(s.templates))
		copy(next, s.templates)
		next[i] = existing
		s.templates = next

		return existing, nil
	}

	return model.MessageTemplate{}, ErrNotFound
}

func (s *MemoryStore) DeleteTemplate(ctx context.Context, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.templates {
		if t.ID != id {
			continue
		}

		if t.IsDefault {
			return ErrDefaultTemplate
		}

		next := make([]model.MessageTemplate, 0, len(s.templates)-1)
		next = append(next, s.templates[:i]...)
		next = append(next, s.templates[i+1:]...)
		s.templates = next

		return nil
	}

	return ErrNotFound
}

func (s *MemoryStore) ListForms(ctx context.Context) ([]model.TicketForm, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.TicketForm, len(s.forms))
	copy(result, s.forms)

	return result, nil
}

func (s *MemoryStore) GetFormByCategory(ctx context.Context, category model.TicketCategory) (model.TicketForm, error) {
	if err := s.wait(ctx); err != nil {
		return model.TicketForm{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.forms {
		if f.Category == category {
			return f, nil
		}
	}

	return model.TicketForm{}, ErrNotFound
}

func (s *MemoryStore) ListNotifications(ctx context.Context) ([]model.Notification, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Notification, len(s.notifications))
	copy(result, s.notifications)

	return result, nil
}

func (s *MemoryStore) AddNotification(ctx context.Context, n model.Notification) (model.Notification, error) {
	if err := s.wait(ctx); err != nil {
		return model.Notification{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = append([]model.Notification{n}, s.notifications...)

	return n, nil
}

func (s *MemoryStore) ToggleNotificationRead(ctx context.Context, id string) (model.Notification, error) {
	if err := s.wait(ctx); err != nil {
		return model.Notification{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID != id {
			continue
		}

		n.IsRead = !n.IsRead

		next := make([]model.Notification, len(s.notifications))
		copy(next, s.notifications)
		next[i] = n
		s.notifications = next

		return n, nil
	}

	return model.Notification{}, ErrNotFound
}

func (s *MemoryStore) MarkAllNotificationsRead(ctx context.Context) (int, error) {
	if err := s.wait(ctx); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	marked := 0
	next := make([]model.Notification, len(s.notifications))
	copy(next, s.notifications)
	for i, n := range next {
		if !n.IsRead {
			n.IsRead = true
			next[i] = n
			marked++
		}
	}
	s.notifications = next

	return marked, nil
}

func (s *MemoryStore) ListMemberChats(ctx context.Context, memberID string) ([]model.Chat, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []model.Chat
	for _, c := range s.chats {
		for _, p := range c.Participants {
			if p == memberID {
				result = append(result, c)
				break
			}
		}
	}

	return result, nil
}

func (s *MemoryStore) ListChatMessages(ctx context.Context, chatID string) ([]model.ChatMessage, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	thread := s.chatMessages[chatID]
	result := make([]model.ChatMessage, len(thread))
	copy(result, thread)

	return result, nil
}

func (s *MemoryStore) AppendChatMessage(ctx context.Context, msg model.ChatMessage) (model.Chat, error) {
	if err := s.wait(ctx); err != nil {
		return model.Chat{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.chats {
		if c.ID != msg.ChatID {
			continue
		}

		c.LastMessage = common.Preview(msg.Content, 80)
		c.UpdatedAt = msg.CreatedAt
		if msg.Sender.Type == model.SenderTypeStaff {
			c.UnreadCount++
		}

		next := make([]model.Chat, len(s.chats))
		copy(next, s.chats)
		next[i] = c
		s.chats = next

		s.chatMessages[msg.ChatID] = append(s.chatMessages[msg.ChatID], msg)

		return c, nil
	}

	return model.Chat{}, ErrNotFound
}

func (s *MemoryStore) MarkChatRead(ctx context.Context, chatID string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.chats {
		if c.ID != chatID {
			continue
		}

		c.UnreadCount = 0

		next := make([]model.Chat, len(s.chats))
		copy(next, s.chats)
		next[i] = c
		s.chats = next

		thread := make([]model.ChatMessage, len(s.chatMessages[chatID]))
		copy(thread, s.chatMessages[chatID])
		for j := range thread {
			thread[j].Read = true
		}
		s.chatMessages[chatID] = thread

		return nil
	}

	return ErrNotFound
}
