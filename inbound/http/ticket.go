package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"clubdesk/common"
	"clubdesk/common/constant"
	"clubdesk/common/errs"
	"clubdesk/common/markdown"
	"clubdesk/common/otel"
	"clubdesk/common/vars"
	"clubdesk/model"
	"clubdesk/outbound/store"

	"github.com/go-playground/validator/v10"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
)

type TicketHttp struct {
	Store     store.Store
	Cache     *redis.Client
	Publisher jetstream.Publisher
	Validate  *validator.Validate

	TimeNow func() time.Time
}

func RegisterTicketHttp(
	mux *http.ServeMux,
	st store.Store,
	cache *redis.Client,
	publisher jetstream.Publisher,
	validate *validator.Validate,
) *TicketHttp {
	in := &TicketHttp{
		Store:     st,
		Cache:     cache,
		Publisher: publisher,
		Validate:  validate,
		TimeNow:   time.Now,
	}

	mux.HandleFunc("GET /api/tickets", in.list)
	mux.HandleFunc("POST /api/tickets", in.create)
	mux.HandleFunc("GET /api/tickets/{id}", in.detail)
	mux.HandleFunc("PATCH /api/tickets/{id}/status", in.updateStatus)
	mux.HandleFunc("PATCH /api/tickets/{id}/assignee", in.updateAssignee)
	mux.HandleFunc("POST /api/tickets/{id}/messages", in.reply)
	mux.HandleFunc("GET /api/inbox/stats", in.stats)

	return in
}

func (in *TicketHttp) list(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "TicketHttp.list")
	defer span.End()

	q := r.URL.Query()
	filter := model.TicketFilter{
		Scope:    model.AssignmentScope(q.Get("scope")),
		StaffID:  q.Get("staff_id"),
		Search:   q.Get("q"),
		Status:   model.TicketStatus(q.Get("status")),
		Category: model.TicketCategory(q.Get("category")),
	}
	if filter.Scope == "" {
		filter.Scope = model.ScopeAll
	}

	tickets, err := in.Store.ListTickets(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list tickets", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, storeError(err))
		return
	}

	writeJSONResponse(w, http.StatusOK, model.ListTicketsResponse{Tickets: tickets})
}

func (in *TicketHttp) detail(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "TicketHttp.detail")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	id := r.PathValue("id")

	ticket, err := in.Store.GetTicket(ctx, id)
	if err != nil {
		slog.WarnContext(ctx, "ticket not found", traceIdAttr, slog.String("ticket_id", id))
		writeErrorResponse(w, storeError(err))
		return
	}

	messages, err := in.Store.ListMessages(ctx, id, true)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list messages", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, storeError(err))
		return
	}

	for i := range messages {
		messages[i].ContentHTML = markdown.RenderHTML(messages[i].Content)
	}

	// Opening the detail view counts as reading the thread.
	if err := in.Store.MarkTicketRead(ctx, id); err != nil {
		slog.ErrorContext(ctx, "failed to mark ticket read", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, storeError(err))
		return
	}
	ticket.UnreadCount = 0

	if err := in.Cache.Set(ctx, fmt.Sprintf(constant.TicketUnreadCountKey, id), 0, 0).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to reset unread cache", traceIdAttr, slog.Any(constant.LogFieldErr, err))
	}

	writeJSONResponse(w, http.StatusOK, model.TicketDetailResponse{Ticket: ticket, Messages: messages})
}

func (in *TicketHttp) create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	if err := in.Validate.Struct(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "TicketHttp.create")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	slog.InfoContext(ctx, "create ticket receive request", slog.Any(constant.LogFieldPayload, req), traceIdAttr)

	now := in.TimeNow()
	staff := model.StaffRef{ID: req.StaffID, Name: req.StaffName}
	ticket := model.Ticket{
		ID:      ulid.Make().String(),
		Subject: req.Subject,
		Requester: model.Requester{
			ID: req.RequesterID, Name: req.RequesterName, Email: req.RequesterEmail,
			Department: req.Department,
		},
		Category:   req.Category,
		Status:     model.TicketStatusOpen,
		AssignedTo: &staff,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	first := model.TicketMessage{
		ID:        ulid.Make().String(),
		Sender:    model.Sender{ID: req.StaffID, Name: req.StaffName, Type: model.SenderTypeStaff},
		Content:   req.Content,
		CreatedAt: now,
	}

	created, err := in.Store.CreateTicket(ctx, ticket, first)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create ticket", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, storeError(err))
		return
	}

	if req.SendEmail {
		err = common.PublishMessage(ctx, in.Publisher, constant.SubjectSendEmail, model.SendEmailEventMessage{
			To:      created.Requester.Email,
			Subject: fmt.Sprintf("[%s] %s", created.Number, created.Subject),
			Body: fmt.Sprintf(constant.EmailTicketReplyTemplate,
				created.Requester.Name, created.Number, created.Subject,
				constant.CategoryLabel(created.Category), req.Content),
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to publish send email message", traceIdAttr, slog.Any(constant.LogFieldErr, err))
			writeErrorResponse(w, err)
			return
		}
	}

	slog.InfoContext(ctx, "create ticket success", traceIdAttr, slog.Any(constant.LogFieldResponse, created.ID))

	writeJSONResponse(w, http.StatusCreated, created)
}

func (in *TicketHttp) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	if err := in.Validate.Struct(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "TicketHttp.updateStatus")
	defer span.End()

	// Any status is reachable from any other; manual override is the
	// intended workflow.
	ticket, err := in.Store.UpdateTicketStatus(ctx, r.PathValue("id"), req.Status)
	if err != nil {
		slog.ErrorContext(ctx, "failed to update status", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, storeError(err))
		return
	}

	writeJSONResponse(w, http.StatusOK, ticket)
}

func (in *TicketHttp) updateAssignee(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateAssigneeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	if err := in.Validate.Struct(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "TicketHttp.updateAssignee")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	var assignee *model.StaffRef
	if req.StaffID != "" {
		assignee = &model.StaffRef{ID: req.StaffID, Name: req.StaffName}
	}

	ticket, err := in.Store.UpdateTicketAssignee(ctx, r.PathValue("id"), assignee)
	if err != nil {
		slog.ErrorContext(ctx, "failed to update assignee", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, storeError(err))
		return
	}

	if assignee != nil {
		err = common.PublishMessage(ctx, in.Publisher, constant.SubjectTicketAssigned, model.TicketAssignedEventMessage{
			TicketID:  ticket.ID,
			Number:    ticket.Number,
			Subject:   ticket.Subject,
			StaffID:   assignee.ID,
			StaffName: assignee.Name,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to publish ticket assigned message", traceIdAttr, slog.Any(constant.LogFieldErr, err))
			writeErrorResponse(w, err)
			return
		}
	}

	writeJSONResponse(w, http.StatusOK, ticket)
}

func (in *TicketHttp) reply(w http.ResponseWriter, r *http.Request) {
	var req model.ReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	if err := in.Validate.Struct(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "TicketHttp.reply")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	slog.InfoContext(ctx, "reply receive request", slog.Any(constant.LogFieldPayload, req), traceIdAttr)

	// The applied template is validated but its usage count stays as-is;
	// the counter is edited explicitly, never bumped on use.
	if req.TemplateID != "" {
		if _, err := in.Store.GetTemplate(ctx, req.TemplateID); err != nil {
			slog.WarnContext(ctx, "unknown template", traceIdAttr, slog.String("template_id", req.TemplateID))
			writeErrorResponse(w, storeError(err))
			return
		}
	}

	msg := model.TicketMessage{
		ID:          ulid.Make().String(),
		TicketID:    r.PathValue("id"),
		Sender:      model.Sender{ID: req.StaffID, Name: req.StaffName, Type: model.SenderTypeStaff},
		Content:     req.Content,
		IsInternal:  req.IsInternal,
		Attachments: req.Attachments,
		CreatedAt:   in.TimeNow(),
	}

	ticket, err := in.Store.AppendMessage(ctx, msg)
	if err != nil {
		slog.ErrorContext(ctx, "failed to append message", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, storeError(err))
		return
	}

	err = common.PublishMessage(ctx, in.Publisher, constant.SubjectTicketReply, model.TicketReplyEventMessage{
		TicketID:   ticket.ID,
		Number:     ticket.Number,
		Subject:    ticket.Subject,
		SenderName: msg.Sender.Name,
		SenderType: msg.Sender.Type,
		Preview:    common.Preview(msg.Content, 80),
		IsInternal: msg.IsInternal,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to publish ticket reply message", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	if req.SendEmail && !req.IsInternal {
		err = common.PublishMessage(ctx, in.Publisher, constant.SubjectSendEmail, model.SendEmailEventMessage{
			To:      ticket.Requester.Email,
			Subject: fmt.Sprintf("[%s] %s", ticket.Number, ticket.Subject),
			Body: fmt.Sprintf(constant.EmailTicketReplyTemplate,
				ticket.Requester.Name, ticket.Number, ticket.Subject,
				constant.CategoryLabel(ticket.Category), req.Content),
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to publish send email message", traceIdAttr, slog.Any(constant.LogFieldErr, err))
			writeErrorResponse(w, err)
			return
		}
	}

	slog.InfoContext(ctx, "reply success", traceIdAttr, slog.Any(constant.LogFieldResponse, msg.ID))

	msg.ContentHTML = markdown.RenderHTML(msg.Content)
	writeJSONResponse(w, http.StatusCreated, msg)
}

func (in *TicketHttp) stats(w http.ResponseWriter, r *http.Request) {
	_, span := otel.Tracer.Start(r.Context(), "TicketHttp.stats")
	defer span.End()

	writeJSONResponse(w, http.StatusOK, vars.GetInboxStats())
}
