package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"clubdesk/common"
	"clubdesk/common/contract"
	"clubdesk/model"

	"github.com/jackc/pgx/v5"
)

// PgStore implements Store on PostgreSQL. It exists behind the same
// interface as MemoryStore so the inbox can run against a real backend
// without touching the handlers; select it with store.driver=postgres.
type PgStore struct {
	Db contract.DbConn
}

func NewPgStore(db contract.DbConn) *PgStore {
	return &PgStore{Db: db}
}

const ticketColumns = `id, number, subject, requester_id, requester_name, requester_email,
	COALESCE(requester_department, ''), COALESCE(requester_role, ''), category, status,
	COALESCE(assigned_to_id, ''), COALESCE(assigned_to_name, ''), unread_count,
	member_unread_count, preview, created_at, updated_at`

func scanTicket(row pgx.Row) (model.Ticket, error) {
	var t model.Ticket
	var assigneeID, assigneeName string

	err := row.Scan(
		&t.ID, &t.Number, &t.Subject,
		&t.Requester.ID, &t.Requester.Name, &t.Requester.Email,
		&t.Requester.Department, &t.Requester.Role,
		&t.Category, &t.Status,
		&assigneeID, &assigneeName,
		&t.UnreadCount, &t.MemberUnreadCount, &t.Preview,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return model.Ticket{}, err
	}

	if assigneeID != "" {
		t.AssignedTo = &model.StaffRef{ID: assigneeID, Name: assigneeName}
	}

	return t, nil
}

func collectTickets(rows pgx.Rows) ([]model.Ticket, error) {
	defer rows.Close()

	var out []model.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}

	return out, rows.Err()
}

func (s *PgStore) ListTickets(ctx context.Context, f model.TicketFilter) ([]model.Ticket, error) {
	args := []any{}
	conds := []string{"1=1"}

	switch f.Scope {
	case model.ScopeMine:
		args = append(args, f.StaffID)
		conds = append(conds, fmt.Sprintf("assigned_to_id = $%d", len(args)))
	case model.ScopeUnassigned:
		conds = append(conds, "assigned_to_id IS NULL")
	}

	if term := strings.TrimSpace(f.Search); term != "" {
		args = append(args, "%"+term+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(subject ILIKE $%d OR requester_name ILIKE $%d OR number ILIKE $%d OR requester_department ILIKE $%d)",
			n, n, n, n))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}

	sql := `SELECT ` + ticketColumns + ` FROM tickets WHERE ` +
		strings.Join(conds, " AND ") + ` ORDER BY updated_at DESC, id`

	rows, err := s.Db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	return collectTickets(rows)
}

func (s *PgStore) GetTicket(ctx context.Context, id string) (model.Ticket, error) {
	row := s.Db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id)

	t, err := scanTicket(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Ticket{}, ErrNotFound
	}

	return t, err
}

func (s *PgStore) ListMemberTickets(ctx context.Context, memberID string) ([]model.Ticket, error) {
	rows, err := s.Db.Query(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE requester_id = $1 ORDER BY updated_at DESC, id`,
		memberID)
	if err != nil {
		return nil, err
	}

	return collectTickets(rows)
}

func (s *PgStore) CreateTicket(ctx context.Context, t model.Ticket, first model.TicketMessage) (model.Ticket, error) {
	tx, err := s.Db.Begin(ctx)
	if err != nil {
		return model.Ticket{}, err
	}
	defer tx.Rollback(ctx)

	if t.Preview == "" {
		t.Preview = common.Preview(first.Content, 120)
	}

	var assigneeID, assigneeName *string
	if t.AssignedTo != nil {
		assigneeID, assigneeName = &t.AssignedTo.ID, &t.AssignedTo.Name
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO tickets (id, number, subject, requester_id, requester_name, requester_email,
			requester_department, requester_role, category, status, assigned_to_id, assigned_to_name,
			unread_count, member_unread_count, preview, created_at, updated_at)
		VALUES ($1, 'TCK-' || nextval('ticket_number_seq'), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING number`,
		t.ID, t.Subject, t.Requester.ID, t.Requester.Name, t.Requester.Email,
		t.Requester.Department, t.Requester.Role, t.Category, t.Status, assigneeID, assigneeName,
		t.UnreadCount, t.MemberUnreadCount, t.Preview, t.CreatedAt, t.UpdatedAt,
	).Scan(&t.Number)
	if err != nil {
		return model.Ticket{}, err
	}

	first.TicketID = t.ID
	if err := insertMessage(ctx, tx, first); err != nil {
		return model.Ticket{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Ticket{}, err
	}

	return t, nil
}

func insertMessage(ctx context.Context, tx pgx.Tx, msg model.TicketMessage) error {
	attachments, err := json.Marshal(msg.Attachments)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO ticket_messages (id, ticket_id, sender_id, sender_name, sender_type,
			content, is_internal, attachments, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		msg.ID, msg.TicketID, msg.Sender.ID, msg.Sender.Name, msg.Sender.Type,
		msg.Content, msg.IsInternal, attachments, msg.CreatedAt)

	return err
}

func (s *PgStore) UpdateTicketStatus(ctx context.Context, id string, status model.TicketStatus) (model.Ticket, error) {
	row := s.Db.QueryRow(ctx, `
		UPDATE tickets SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+ticketColumns, id, status)

	t, err := scanTicket(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Ticket{}, ErrNotFound
	}

	return t, err
}

func (s *PgStore) UpdateTicketAssignee(ctx context.Context, id string, assignee *model.StaffRef) (model.Ticket, error) {
	var assigneeID, assigneeName *string
	if assignee != nil {
		assigneeID, assigneeName = &assignee.ID, &assignee.Name
	}

	row := s.Db.QueryRow(ctx, `
		UPDATE tickets SET assigned_to_id = $2, assigned_to_name = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+ticketColumns, id, assigneeID, assigneeName)

	t, err := scanTicket(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Ticket{}, ErrNotFound
	}

	return t, err
}

func (s *PgStore) ListMessages(ctx context.Context, ticketID string, includeInternal bool) ([]model.TicketMessage, error) {
	sql := `
		SELECT id, ticket_id, sender_id, sender_name, sender_type, content, is_internal,
			attachments, created_at
		FROM ticket_messages
		WHERE ticket_id = $1`
	if !includeInternal {
		sql += ` AND is_internal = false`
	}
	sql += ` ORDER BY created_at, id`

	rows, err := s.Db.Query(ctx, sql, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TicketMessage
	for rows.Next() {
		var m model.TicketMessage
		var attachments []byte
		if err := rows.Scan(
			&m.ID, &m.TicketID, &m.Sender.ID, &m.Sender.Name, &m.Sender.Type,
			&m.Content, &m.IsInternal, &attachments, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(attachments) > 0 {
			if err := json.Unmarshal(attachments, &m.Attachments); err != nil {
				return nil, err
			}
		}
		out = append(out, m)
	}

	return out, rows.Err()
}

func (s *PgStore) AppendMessage(ctx context.Context, msg model.TicketMessage) (model.Ticket, error) {
	tx, err := s.Db.Begin(ctx)
	if err != nil {
		return model.Ticket{}, err
	}
	defer tx.Rollback(ctx)

	if err := insertMessage(ctx, tx, msg); err != nil {
		return model.Ticket{}, err
	}

	unreadDelta := 0
	if msg.Sender.Type == model.SenderTypeMember {
		unreadDelta = 1
	}
	memberUnreadDelta := 0
	if msg.Sender.Type == model.SenderTypeStaff && !msg.IsInternal {
		memberUnreadDelta = 1
	}

	preview := common.Preview(msg.Content, 120)

	row := tx.QueryRow(ctx, `
		UPDATE tickets SET
			updated_at = $2,
			unread_count = unread_count + $3,
			member_unread_count = member_unread_count + $4,
			preview = CASE WHEN $5 THEN preview ELSE $6 END
		WHERE id = $1
		RETURNING `+ticketColumns,
		msg.TicketID, msg.CreatedAt, unreadDelta, memberUnreadDelta, msg.IsInternal, preview)

	t, err := scanTicket(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Ticket{}, ErrNotFound
	}
	if err != nil {
		return model.Ticket{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Ticket{}, err
	}

	return t, nil
}

func (s *PgStore) MarkTicketRead(ctx context.Context, id string) error {
	tag, err := s.Db.Exec(ctx, `UPDATE tickets SET unread_count = 0 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *PgStore) MarkTicketReadForMember(ctx context.Context, id string) error {
	tag, err := s.Db.Exec(ctx, `UPDATE tickets SET member_unread_count = 0 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

const templateColumns = `id, name, content, COALESCE(category, ''), is_default, usage_count,
	COALESCE(created_by, ''), created_at, updated_at`

func (s *PgStore) ListTemplates(ctx context.Context) ([]model.MessageTemplate, error) {
	rows, err := s.Db.Query(ctx, `SELECT `+templateColumns+` FROM message_templates ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MessageTemplate
	for rows.Next() {
		var t model.MessageTemplate
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Content, &t.Category, &t.IsDefault,
			&t.UsageCount, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}

	return out, rows.Err()
}

func (s *PgStore) GetTemplate(ctx context.Context, id string) (model.MessageTemplate, error) {
	var t model.MessageTemplate
	err := s.Db.QueryRow(ctx, `SELECT `+templateColumns+` FROM message_templates WHERE id = $1`, id).Scan(
		&t.ID, &t.Name, &t.Content, &t.Category, &t.IsDefault,
		&t.UsageCount, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.MessageTemplate{}, ErrNotFound
	}

	return t, err
}

func (s *PgStore) CreateTemplate(ctx context.Context, t model.MessageTemplate) (model.MessageTemplate, error) {
	_, err := s.Db.Exec(ctx, `
		INSERT INTO message_templates (id, name, content, category, is_default, usage_count,
			created_by, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, NULLIF($7, ''), $8, $9)`,
		t.ID, t.Name, t.Content, string(t.Category), t.IsDefault, t.UsageCount,
		t.CreatedBy, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return model.MessageTemplate{}, err
	}

	return t, nil
}

func (s *PgStore) UpdateTemplate(ctx context.Context, t model.MessageTemplate) (model.MessageTemplate, error) {
	row := s.Db.QueryRow(ctx, `
		UPDATE message_templates SET name = $2, content = $3, category = NULLIF($4, ''), updated_at = $5
		WHERE id = $1
		RETURNING `+templateColumns,
		t.ID, t.Name, t.Content, string(t.Category), t.UpdatedAt)

	var updated model.MessageTemplate
	err := row.Scan(
		&updated.ID, &updated.Name, &updated.Content, &updated.Category, &updated.IsDefault,
		&updated.UsageCount, &updated.CreatedBy, &updated.CreatedAt, &updated.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.MessageTemplate{}, ErrNotFound
	}

	return updated, err
}

func (s *PgStore) DeleteTemplate(ctx context.Context, id string) error {
	var isDefault bool
	err := s.Db.QueryRow(ctx, `SELECT is_default FROM message_templates WHERE id = $1`, id).Scan(&isDefault)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if isDefault {
		return ErrDefaultTemplate
	}

	_, err = s.Db.Exec(ctx, `DELETE FROM message_templates WHERE id = $1`, id)

	return err
}

func (s *PgStore) ListForms(ctx context.Context) ([]model.TicketForm, error) {
	rows, err := s.Db.Query(ctx, `SELECT id, category, title, fields FROM ticket_forms ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TicketForm
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}

	return out, rows.Err()
}

func scanForm(row pgx.Row) (model.TicketForm, error) {
	var f model.TicketForm
	var fields []byte
	if err := row.Scan(&f.ID, &f.Category, &f.Title, &fields); err != nil {
		return model.TicketForm{}, err
	}
	if err := json.Unmarshal(fields, &f.Fields); err != nil {
		return model.TicketForm{}, err
	}

	return f, nil
}

func (s *PgStore) GetFormByCategory(ctx context.Context, category model.TicketCategory) (model.TicketForm, error) {
	row := s.Db.QueryRow(ctx, `SELECT id, category, title, fields FROM ticket_forms WHERE category = $1`, category)

	f, err := scanForm(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.TicketForm{}, ErrNotFound
	}

	return f, err
}

func (s *PgStore) ListNotifications(ctx context.Context) ([]model.Notification, error) {
	rows, err := s.Db.Query(ctx, `
		SELECT id, type, title, message, is_read, created_at
		FROM notifications ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}

	return out, rows.Err()
}

func (s *PgStore) AddNotification(ctx context.Context, n model.Notification) (model.Notification, error) {
	_, err := s.Db.Exec(ctx, `
		INSERT INTO notifications (id, type, title, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID, n.Type, n.Title, n.Message, n.IsRead, n.CreatedAt)
	if err != nil {
		return model.Notification{}, err
	}

	return n, nil
}

func (s *PgStore) ToggleNotificationRead(ctx context.Context, id string) (model.Notification, error) {
	row := s.Db.QueryRow(ctx, `
		UPDATE notifications SET is_read = NOT is_read
		WHERE id = $1
		RETURNING id, type, title, message, is_read, created_at`, id)

	var n model.Notification
	err := row.Scan(&n.ID, &n.Type, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Notification{}, ErrNotFound
	}

	return n, err
}

func (s *PgStore) MarkAllNotificationsRead(ctx context.Context) (int, error) {
	tag, err := s.Db.Exec(ctx, `UPDATE notifications SET is_read = true WHERE is_read = false`)
	if err != nil {
		return 0, err
	}

	return int(tag.RowsAffected()), nil
}

func (s *PgStore) ListMemberChats(ctx context.Context, memberID string) ([]model.Chat, error) {
	rows, err := s.Db.Query(ctx, `
		SELECT id, kind, name, participants, COALESCE(last_message, ''), unread_count, updated_at
		FROM chats WHERE $1 = ANY(participants) ORDER BY updated_at DESC, id`, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Chat
	for rows.Next() {
		var c model.Chat
		if err := rows.Scan(&c.ID, &c.Kind, &c.Name, &c.Participants, &c.LastMessage, &c.UnreadCount, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	return out, rows.Err()
}

func (s *PgStore) ListChatMessages(ctx context.Context, chatID string) ([]model.ChatMessage, error) {
	rows, err := s.Db.Query(ctx, `
		SELECT id, chat_id, sender_id, sender_name, sender_type, content, read, created_at
		FROM chat_messages WHERE chat_id = $1 ORDER BY created_at, id`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.ChatID, &m.Sender.ID, &m.Sender.Name, &m.Sender.Type, &m.Content, &m.Read, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, rows.Err()
}

func (s *PgStore) AppendChatMessage(ctx context.Context, msg model.ChatMessage) (model.Chat, error) {
	tx, err := s.Db.Begin(ctx)
	if err != nil {
		return model.Chat{}, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO chat_messages (id, chat_id, sender_id, sender_name, sender_type, content, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		msg.ID, msg.ChatID, msg.Sender.ID, msg.Sender.Name, msg.Sender.Type, msg.Content, msg.Read, msg.CreatedAt)
	if err != nil {
		return model.Chat{}, err
	}

	unreadDelta := 0
	if msg.Sender.Type == model.SenderTypeStaff {
		unreadDelta = 1
	}

	row := tx.QueryRow(ctx, `
		UPDATE chats SET last_message = $2, updated_at = $3, unread_count = unread_count + $4
		WHERE id = $1
		RETURNING id, kind, name, participants, COALESCE(last_message, ''), unread_count, updated_at`,
		msg.ChatID, common.Preview(msg.Content, 80), msg.CreatedAt, unreadDelta)

	var c model.Chat
	err = row.Scan(&c.ID, &c.Kind, &c.Name, &c.Participants, &c.LastMessage, &c.UnreadCount, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Chat{}, ErrNotFound
	}
	if err != nil {
		return model.Chat{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Chat{}, err
	}

	return c, nil
}

func (s *PgStore) MarkChatRead(ctx context.Context, chatID string) error {
	tx, err := s.Db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE chats SET unread_count = 0 WHERE id = $1`, chatID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `UPDATE chat_messages SET read = true WHERE chat_id = $1`, chatID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
