package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"clubdesk/common"
	"clubdesk/common/constant"
	"clubdesk/common/errs"
	"clubdesk/common/markdown"
	"clubdesk/common/otel"
	"clubdesk/model"
	"clubdesk/outbound/store"

	"github.com/go-playground/validator/v10"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/text/message"
)

// PortalHttp is the member-facing mirror of the inbox: a member sees only
// their own tickets and chats, and never internal notes.
type PortalHttp struct {
	Store        store.Store
	Cache        *redis.Client
	Publisher    jetstream.Publisher
	Validate     *validator.Validate
	EurFormatter *message.Printer

	TimeNow func() time.Time
}

func RegisterPortalHttp(
	mux *http.ServeMux,
	st store.Store,
	cache *redis.Client,
	publisher jetstream.Publisher,
	validate *validator.Validate,
	eurFormatter *message.Printer,
) *PortalHttp {
	in := &PortalHttp{
		Store:        st,
		Cache:        cache,
		Publisher:    publisher,
		Validate:     validate,
		EurFormatter: eurFormatter,
		TimeNow:      time.Now,
	}

	mux.HandleFunc("GET /api/portal/tickets", in.listTickets)
	mux.HandleFunc("POST /api/portal/tickets", in.createTicket)
	mux.HandleFunc("GET /api/portal/tickets/{id}", in.ticketDetail)
	mux.HandleFunc("POST /api/portal/tickets/{id}/messages", in.reply)
	mux.HandleFunc("GET /api/portal/forms", in.listForms)
	mux.HandleFunc("GET /api/portal/forms/{category}", in.formByCategory)
	mux.HandleFunc("GET /api/portal/chats", in.listChats)
	mux.HandleFunc("GET /api/portal/chats/{id}/messages", in.chatMessages)
	mux.HandleFunc("POST /api/portal/chats/{id}/messages", in.sendChatMessage)
	mux.HandleFunc("POST /api/portal/chats/{id}/read", in.markChatRead)

	return in
}

func memberID(r *http.Request) (string, error) {
	id := r.URL.Query().Get("member_id")
	if id == "" {
		return "", &errs.HttpError{Code: http.StatusBadRequest, Message: "member_id is required"}
	}
	return id, nil
}

func (in *PortalHttp) listTickets(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "PortalHttp.listTickets")
	defer span.End()

	member, err := memberID(r)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	tickets, err := in.Store.ListMemberTickets(ctx, member)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list member tickets", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, storeError(err))
		return
	}

	writeJSONResponse(w, http.StatusOK, model.ListTicketsResponse{Tickets: tickets})
}

func (in *PortalHttp) ticketDetail(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "PortalHttp.ticketDetail")
	defer span.End()

	member, err := memberID(r)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	ticket, err := in.Store.GetTicket(ctx, r.PathValue("id"))
	if err != nil {
		writeErrorResponse(w, storeError(err))
		return
	}

	// Another member's ticket reads as absent, not forbidden.
	if ticket.Requester.ID != member {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusNotFound, Message: "Not Found"})
		return
	}

	messages, err := in.Store.ListMessages(ctx, ticket.ID, false)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list messages", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, storeError(err))
		return
	}

	for i := range messages {
		messages[i].ContentHTML = markdown.RenderHTML(messages[i].Content)
	}

	// Opening the thread counts as reading the staff replies.
	if err := in.Store.MarkTicketReadForMember(ctx, ticket.ID); err != nil {
		slog.ErrorContext(ctx, "failed to mark ticket read for member", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, storeError(err))
		return
	}
	ticket.MemberUnreadCount = 0

	writeJSONResponse(w, http.StatusOK, model.TicketDetailResponse{Ticket: ticket, Messages: messages})
}

func (in *PortalHttp) createTicket(w http.ResponseWriter, r *http.Request) {
	var req model.PortalCreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	if err := in.Validate.Struct(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "PortalHttp.createTicket")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	slog.InfoContext(ctx, "portal create ticket receive request", slog.Any(constant.LogFieldPayload, req), traceIdAttr)

	lockKey := fmt.Sprintf(constant.PortalSubmitLock, req.MemberID)

	submitLock, err := in.Cache.SetNX(ctx, lockKey, true, constant.PortalSubmitLockDefaultTTL).Result()
	if err != nil {
		slog.ErrorContext(ctx, "failed to set submit lock", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	if !submitLock {
		slog.DebugContext(ctx, "duplicate portal submission", traceIdAttr)
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusConflict, Message: "Submission already in progress"})
		return
	}

	// A rejected submission releases the lock so the member can correct
	// the form and resubmit right away.
	releaseLock := func() {
		if err := in.Cache.Del(ctx, lockKey).Err(); err != nil {
			slog.ErrorContext(ctx, "failed to release submit lock", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		}
	}

	form, err := in.Store.GetFormByCategory(ctx, req.Category)
	if err != nil {
		// Categories without a dedicated form fall back to the general one.
		form, err = in.Store.GetFormByCategory(ctx, model.TicketCategoryGeneral)
		if err != nil {
			releaseLock()
			writeErrorResponse(w, storeError(err))
			return
		}
	}

	if missing := missingRequiredFields(form, req.Values); len(missing) > 0 {
		releaseLock()
		writeErrorResponse(w, &errs.HttpError{
			Code:    http.StatusBadRequest,
			Message: "Validation failed",
			Data:    missing,
		})
		return
	}

	subject := strings.TrimSpace(req.Values["subject"])
	if subject == "" {
		subject = constant.CategoryLabel(req.Category)
	}

	now := in.TimeNow()
	ticket := model.Ticket{
		ID:      ulid.Make().String(),
		Subject: subject,
		Requester: model.Requester{
			ID: req.MemberID, Name: req.MemberName, Email: req.MemberEmail,
		},
		Category:    req.Category,
		Status:      model.TicketStatusOpen,
		UnreadCount: 1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	first := model.TicketMessage{
		ID:        ulid.Make().String(),
		Sender:    model.Sender{ID: req.MemberID, Name: req.MemberName, Type: model.SenderTypeMember},
		Content:   formMessageContent(form, req.Values),
		CreatedAt: now,
	}

	created, err := in.Store.CreateTicket(ctx, ticket, first)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create ticket", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		releaseLock()
		writeErrorResponse(w, storeError(err))
		return
	}

	err = common.PublishMessage(ctx, in.Publisher, constant.SubjectTicketReply, model.TicketReplyEventMessage{
		TicketID:   created.ID,
		Number:     created.Number,
		Subject:    created.Subject,
		SenderName: req.MemberName,
		SenderType: model.SenderTypeMember,
		Preview:    common.Preview(first.Content, 80),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to publish ticket reply message", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	err = common.PublishMessage(ctx, in.Publisher, constant.SubjectSendEmail, model.SendEmailEventMessage{
		To:      created.Requester.Email,
		Subject: fmt.Sprintf("[%s] %s", created.Number, created.Subject),
		Body:    in.buildTicketReceivedEmailBody(created),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to publish send email message", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	slog.InfoContext(ctx, "portal create ticket success", traceIdAttr, slog.Any(constant.LogFieldResponse, created.ID))

	writeJSONResponse(w, http.StatusCreated, created)
}

func missingRequiredFields(form model.TicketForm, values map[string]string) []string {
	var missing []string
	for _, field := range form.Fields {
		if field.Required && strings.TrimSpace(values[field.ID]) == "" {
			missing = append(missing, field.ID)
		}
	}
	return missing
}

// formMessageContent builds the first ticket message from the submitted
// form values: the free-text field becomes the body and the remaining
// fields are prepended as a key-value list.
func formMessageContent(form model.TicketForm, values map[string]string) string {
	var meta []string
	body := ""

	for _, field := range form.Fields {
		value := strings.TrimSpace(values[field.ID])
		if value == "" || field.ID == "subject" {
			continue
		}

		if field.Type == model.FieldTypeTextarea {
			body = value
			continue
		}

		meta = append(meta, fmt.Sprintf("**%s:** %s", field.Label, value))
	}

	if len(meta) == 0 {
		return body
	}
	if body == "" {
		return strings.Join(meta, "\n")
	}

	return strings.Join(meta, "\n") + "\n\n" + body
}

func (in *PortalHttp) buildTicketReceivedEmailBody(t model.Ticket) string {
	body := fmt.Sprintf(constant.EmailTicketReceivedTemplate,
		t.Requester.Name, t.Number, t.Subject, constant.CategoryLabel(t.Category))

	if t.Category == model.TicketCategoryFeeQuestion {
		fee := in.EurFormatter.Sprintf("%.2f €", constant.AnnualMembershipFeeEur)
		body += fmt.Sprintf(constant.EmailFeeNoteTemplate, fee)
	}

	return body
}

func (in *PortalHttp) reply(w http.ResponseWriter, r *http.Request) {
	var req model.ChatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	if err := in.Validate.Struct(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "PortalHttp.reply")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	ticket, err := in.Store.GetTicket(ctx, r.PathValue("id"))
	if err != nil {
		writeErrorResponse(w, storeError(err))
		return
	}

	if ticket.Requester.ID != req.SenderID {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusNotFound, Message: "Not Found"})
		return
	}

	msg := model.TicketMessage{
		ID:        ulid.Make().String(),
		TicketID:  ticket.ID,
		Sender:    model.Sender{ID: req.SenderID, Name: req.SenderName, Type: model.SenderTypeMember},
		Content:   req.Content,
		CreatedAt: in.TimeNow(),
	}

	updated, err := in.Store.AppendMessage(ctx, msg)
	if err != nil {
		slog.ErrorContext(ctx, "failed to append message", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, storeError(err))
		return
	}

	if err := in.Cache.Incr(ctx, fmt.Sprintf(constant.TicketUnreadCountKey, updated.ID)).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to bump unread cache", traceIdAttr, slog.Any(constant.LogFieldErr, err))
	}

	err = common.PublishMessage(ctx, in.Publisher, constant.SubjectTicketReply, model.TicketReplyEventMessage{
		TicketID:   updated.ID,
		Number:     updated.Number,
		Subject:    updated.Subject,
		SenderName: req.SenderName,
		SenderType: model.SenderTypeMember,
		Preview:    common.Preview(req.Content, 80),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to publish ticket reply message", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	msg.ContentHTML = markdown.RenderHTML(msg.Content)
	writeJSONResponse(w, http.StatusCreated, msg)
}

func (in *PortalHttp) listForms(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "PortalHttp.listForms")
	defer span.End()

	forms, err := in.Store.ListForms(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list forms", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, storeError(err))
		return
	}

	writeJSONResponse(w, http.StatusOK, forms)
}

func (in *PortalHttp) formByCategory(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "PortalHttp.formByCategory")
	defer span.End()

	form, err := in.Store.GetFormByCategory(ctx, model.TicketCategory(r.PathValue("category")))
	if err != nil {
		writeErrorResponse(w, storeError(err))
		return
	}

	writeJSONResponse(w, http.StatusOK, form)
}

func (in *PortalHttp) listChats(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "PortalHttp.listChats")
	defer span.End()

	member, err := memberID(r)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	chats, err := in.Store.ListMemberChats(ctx, member)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list chats", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, storeError(err))
		return
	}

	writeJSONResponse(w, http.StatusOK, chats)
}

func (in *PortalHttp) chatMessages(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "PortalHttp.chatMessages")
	defer span.End()

	messages, err := in.Store.ListChatMessages(ctx, r.PathValue("id"))
	if err != nil {
		slog.ErrorContext(ctx, "failed to list chat messages", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, storeError(err))
		return
	}

	writeJSONResponse(w, http.StatusOK, messages)
}

func (in *PortalHttp) sendChatMessage(w http.ResponseWriter, r *http.Request) {
	var req model.ChatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	if err := in.Validate.Struct(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "PortalHttp.sendChatMessage")
	defer span.End()

	msg := model.ChatMessage{
		ID:        ulid.Make().String(),
		ChatID:    r.PathValue("id"),
		Sender:    model.Sender{ID: req.SenderID, Name: req.SenderName, Type: model.SenderTypeMember},
		Content:   req.Content,
		Read:      true,
		CreatedAt: in.TimeNow(),
	}

	chat, err := in.Store.AppendChatMessage(ctx, msg)
	if err != nil {
		slog.ErrorContext(ctx, "failed to append chat message", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, storeError(err))
		return
	}

	writeJSONResponse(w, http.StatusCreated, map[string]any{"chat": chat, "message": msg})
}

func (in *PortalHttp) markChatRead(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "PortalHttp.markChatRead")
	defer span.End()

	if err := in.Store.MarkChatRead(ctx, r.PathValue("id")); err != nil {
		writeErrorResponse(w, storeError(err))
		return
	}

	writeJSONResponse(w, http.StatusOK, nil)
}
