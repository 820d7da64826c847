package http

import (
	"encoding/json"
	"net/http"

	"clubdesk/common/constant"
	"clubdesk/common/errs"
	"clubdesk/common/markdown"
	"clubdesk/common/otel"
	"clubdesk/model"

	"github.com/go-playground/validator/v10"
)

// ComposeHttp backs the reply editor: toolbar formatting actions and the
// live Markdown preview. Both endpoints are pure text transforms.
type ComposeHttp struct {
	Validate *validator.Validate
}

func RegisterComposeHttp(mux *http.ServeMux, validate *validator.Validate) *ComposeHttp {
	in := &ComposeHttp{Validate: validate}

	mux.HandleFunc("POST /api/compose/format", in.format)
	mux.HandleFunc("POST /api/compose/preview", in.preview)

	return in
}

func (in *ComposeHttp) format(w http.ResponseWriter, r *http.Request) {
	var req model.ComposeFormatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	if err := in.Validate.Struct(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	_, span := otel.Tracer.Start(r.Context(), "ComposeHttp.format")
	defer span.End()

	action, ok := constant.FormatActionByName[req.Action]
	if !ok {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Unknown action"})
		return
	}

	text, start, end := markdown.Insert(
		req.Text, req.SelectionStart, req.SelectionEnd,
		action.Before, action.After, action.Placeholder,
	)

	writeJSONResponse(w, http.StatusOK, model.ComposeFormatResponse{
		Text:           text,
		SelectionStart: start,
		SelectionEnd:   end,
	})
}

func (in *ComposeHttp) preview(w http.ResponseWriter, r *http.Request) {
	var req model.ComposePreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	_, span := otel.Tracer.Start(r.Context(), "ComposeHttp.preview")
	defer span.End()

	writeJSONResponse(w, http.StatusOK, model.ComposePreviewResponse{
		HTML: markdown.RenderHTML(req.Text),
	})
}
