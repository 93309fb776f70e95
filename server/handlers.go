package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ByLCY/papyrus-doc/compose"
	"github.com/ByLCY/papyrus-doc/config"
	"github.com/ByLCY/papyrus-doc/pretty"
	canvasrenderer "github.com/ByLCY/papyrus-doc/renderer/canvas"
)

// inputError marks failures caused by the request rather than the service.
type inputError struct{ err error }

func (e *inputError) Error() string { return e.err.Error() }
func (e *inputError) Unwrap() error { return e.err }

// Render a document expression to text
func HandleRender(logger *log.Logger, cfg *config.Config) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		res, err := renderRequest(rw, r, cfg)
		if err != nil {
			handleError(rw, r, logger, err)
			return
		}

		requestLogger(logger, r).WithFields(log.Fields{
			"width": res.Width,
			"lines": res.Lines,
		}).Info("rendered document")

		handleJsonResponse(rw, http.StatusOK, res)
	}
}

// Render a document expression to text and typeset it as PDF
func HandleRenderPDF(logger *log.Logger, cfg *config.Config) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		res, err := renderRequest(rw, r, cfg)
		if err != nil {
			handleError(rw, r, logger, err)
			return
		}

		out, err := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
			FontSize: cfg.PDFFontSize,
		}).Render(res.Text)
		if err != nil {
			handleError(rw, r, logger, err)
			return
		}

		requestLogger(logger, r).WithFields(log.Fields{
			"width": res.Width,
			"bytes": len(out),
		}).Info("rendered pdf")

		rw.Header().Set("Content-Type", "application/pdf")
		rw.WriteHeader(http.StatusOK)
		rw.Write(out)
	}
}

func HandleHealthReady() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
	}
}

func renderRequest(rw http.ResponseWriter, r *http.Request, cfg *config.Config) (*ResRender, error) {
	// Check body is not empty
	if r.Body == nil || r.Body == http.NoBody {
		return nil, &inputError{fmt.Errorf("empty body")}
	}
	r.Body = http.MaxBytesReader(rw, r.Body, cfg.MaxBodyBytes)

	var req ReqRender

	// Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, &inputError{err}
	}
	if strings.TrimSpace(req.Source) == "" {
		return nil, &inputError{fmt.Errorf("source is required")}
	}

	width, tabWidth := cfg.Width, cfg.TabWidth
	if req.Width != nil {
		if *req.Width < 0 {
			return nil, &inputError{fmt.Errorf("width must be non-negative")}
		}
		width = *req.Width
	}
	if req.TabWidth != nil {
		if *req.TabWidth <= 0 {
			return nil, &inputError{fmt.Errorf("tabWidth must be positive")}
		}
		tabWidth = *req.TabWidth
	}

	doc, err := compose.BuildString(req.Source, req.Data)
	if err != nil {
		return nil, &inputError{err}
	}
	if cfg.MaxChoices > 0 && pretty.CountChoices(doc, cfg.MaxChoices) > cfg.MaxChoices {
		return nil, &inputError{fmt.Errorf("document has more than %d choice points", cfg.MaxChoices)}
	}

	text := pretty.RenderWithOptions(doc, width, pretty.RenderOptions{TabWidth: tabWidth})
	return &ResRender{
		Text:     text,
		Width:    width,
		TabWidth: tabWidth,
		Lines:    strings.Count(text, "\n") + 1,
	}, nil
}

func requestLogger(logger *log.Logger, r *http.Request) *log.Entry {
	return logger.WithField("request_id", RequestID(r.Context()))
}

// handleError is a helper function for unified HTTP error handling.
func handleError(rw http.ResponseWriter, r *http.Request, logger *log.Logger, err error) {
	status := http.StatusInternalServerError
	var inErr *inputError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.As(err, &inErr):
		status = http.StatusBadRequest
	}

	requestLogger(logger, r).WithField("status", status).Errorf("Error: %v", err)

	handleJsonResponse(rw, status, ResError{Error: err.Error(), RequestID: RequestID(r.Context())})
}

// handleJsonResponse is a helper function for unified JSON response handling.
func handleJsonResponse(rw http.ResponseWriter, status int, res interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	json.NewEncoder(rw).Encode(res)
}
