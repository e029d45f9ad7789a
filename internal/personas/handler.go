package personas

import (
	"encoding/json"
	"net/http"

	"github.com/anagolic/anagoliccom/internal/telemetry/tracing"
	"github.com/anagolic/anagoliccom/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{
		manager: manager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("", handler.handleAll).Methods("GET", "OPTIONS").Name("all-personas")
	router.HandleFunc("/", handler.handleAll).Methods("GET", "OPTIONS").Name("all-personas-slash")
	router.HandleFunc("/{id}", handler.handleGet).Methods("GET", "OPTIONS").Name("persona")
}

func (handler *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "personasHandler.all")
	defer span.End()

	personasBytes, err := json.Marshal(handler.manager.All())
	if err != nil {
		log.Errorf("marshal personas error: %s", err)
		http.Error(w, "marshal personas error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, personasBytes)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "personasHandler.get")
	defer span.End()

	vars := mux.Vars(r)
	id := vars["id"]

	persona, ok := handler.manager.Get(id)
	if !ok {
		http.Error(w, "persona not found", http.StatusNotFound)
		return
	}

	personaBytes, err := json.Marshal(persona)
	if err != nil {
		log.Errorf("marshal persona [%s] error: %s", id, err)
		http.Error(w, "marshal persona error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, personaBytes)
}
