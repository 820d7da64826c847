package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"clubdesk/common"
	"clubdesk/common/constant"
	"clubdesk/common/errs"
	"clubdesk/common/otel"
	"clubdesk/model"
	"clubdesk/outbound/store"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"
)

type TemplateHttp struct {
	Store    store.TemplateStore
	Validate *validator.Validate

	TimeNow func() time.Time
}

func RegisterTemplateHttp(mux *http.ServeMux, st store.TemplateStore, validate *validator.Validate) *TemplateHttp {
	in := &TemplateHttp{
		Store:    st,
		Validate: validate,
		TimeNow:  time.Now,
	}

	mux.HandleFunc("GET /api/templates", in.list)
	mux.HandleFunc("POST /api/templates", in.create)
	mux.HandleFunc("PUT /api/templates/{id}", in.update)
	mux.HandleFunc("DELETE /api/templates/{id}", in.delete)
	mux.HandleFunc("POST /api/compose/save-template", in.saveDraft)

	return in
}

func (in *TemplateHttp) list(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "TemplateHttp.list")
	defer span.End()

	templates, err := in.Store.ListTemplates(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list templates", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, storeError(err))
		return
	}

	writeJSONResponse(w, http.StatusOK, templates)
}

func (in *TemplateHttp) create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	if err := in.Validate.Struct(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "TemplateHttp.create")
	defer span.End()

	created, err := in.createTemplate(ctx, req.Name, req.Content, req.Category, req.StaffID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create template", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, storeError(err))
		return
	}

	writeJSONResponse(w, http.StatusCreated, created)
}

// saveDraft stores a reply draft as a template. Same as create, but the
// draft content has to clear the minimum-length gate.
func (in *TemplateHttp) saveDraft(w http.ResponseWriter, r *http.Request) {
	var req model.SaveDraftTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	if err := in.Validate.Struct(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "TemplateHttp.saveDraft")
	defer span.End()

	created, err := in.createTemplate(ctx, req.Name, req.Content, req.Category, req.StaffID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to save draft as template", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, storeError(err))
		return
	}

	writeJSONResponse(w, http.StatusCreated, created)
}

func (in *TemplateHttp) createTemplate(ctx context.Context, name, content string, category model.TicketCategory, staffID string) (model.MessageTemplate, error) {
	now := in.TimeNow()
	return in.Store.CreateTemplate(ctx, model.MessageTemplate{
		ID:        ulid.Make().String(),
		Name:      name,
		Content:   content,
		Category:  category,
		CreatedBy: staffID,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (in *TemplateHttp) update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	if err := in.Validate.Struct(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "TemplateHttp.update")
	defer span.End()

	updated, err := in.Store.UpdateTemplate(ctx, model.MessageTemplate{
		ID:        r.PathValue("id"),
		Name:      req.Name,
		Content:   req.Content,
		Category:  req.Category,
		UpdatedAt: in.TimeNow(),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to update template", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, storeError(err))
		return
	}

	writeJSONResponse(w, http.StatusOK, updated)
}

func (in *TemplateHttp) delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "TemplateHttp.delete")
	defer span.End()

	if err := in.Store.DeleteTemplate(ctx, r.PathValue("id")); err != nil {
		slog.WarnContext(ctx, "failed to delete template", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, storeError(err))
		return
	}

	writeJSONResponse(w, http.StatusNoContent, nil)
}
