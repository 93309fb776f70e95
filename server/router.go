package server

import (
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/ByLCY/papyrus-doc/config"
)

func NewRouter(cfg *config.Config, logger *log.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health/ready", HandleHealthReady()).Methods(http.MethodGet)

	r.HandleFunc("/render", HandleRender(logger, cfg)).Methods(http.MethodPost)
	r.HandleFunc("/render.pdf", HandleRenderPDF(logger, cfg)).Methods(http.MethodPost)

	// Use middleware
	h := UseCors(r)
	h = UseLogging(logger.Writer(), h)
	h = UseCompress(h)
	h = UseJson(h)
	h = UseRequestID(h)

	return h
}
