package api

import (
	"encoding/json"
	"log"
	"net/http"

	apperrors "nutriagenda/internal/errors"
)

type errorResponse struct {
	Error string         `json:"error"`
	Kind  apperrors.Kind `json:"kind"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	he := apperrors.From(err)
	if he.Kind == apperrors.KindInternal {
		log.Printf("internal error: %v", err)
	}
	writeJSON(w, he.Code, errorResponse{Error: he.Message, Kind: he.Kind})
}
