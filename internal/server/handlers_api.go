package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"farmledger.dev/farmledger/internal/store"
)

// maxBodySize bounds API request bodies; every record here is small.
const maxBodySize = 1 << 20

// handleAPIList serves GET /api/v1/{kind}, optionally filtered by ?q=.
func (s *Server) handleAPIList(w http.ResponseWriter, r *http.Request) {
	res, ok := s.lookupResource(w, r)
	if !ok {
		return
	}

	records, err := res.list(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.logger.Error("failed to list records", "entity", res.kind(), "error", err)
		s.writeJSONError(w, http.StatusInternalServerError, "failed to load records")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"records": records, "count": len(records)})
}

// handleAPICreate serves POST /api/v1/{kind}.
func (s *Server) handleAPICreate(w http.ResponseWriter, r *http.Request) {
	res, ok := s.lookupResource(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	record, err := res.create(r.Context(), body)
	if err != nil {
		s.writeMutationError(w, res.kind(), "create", err)
		return
	}

	s.writeJSON(w, http.StatusCreated, record)
}

// handleAPIUpdate serves PUT /api/v1/{kind}/{id}.
func (s *Server) handleAPIUpdate(w http.ResponseWriter, r *http.Request) {
	res, ok := s.lookupResource(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	record, err := res.update(r.Context(), r.PathValue("id"), body)
	if err != nil {
		s.writeMutationError(w, res.kind(), "update", err)
		return
	}

	s.writeJSON(w, http.StatusOK, record)
}

// handleAPIDelete serves DELETE /api/v1/{kind}/{id}. Deleting an id
// that no longer exists is a success, not an error.
func (s *Server) handleAPIDelete(w http.ResponseWriter, r *http.Request) {
	res, ok := s.lookupResource(w, r)
	if !ok {
		return
	}

	if err := res.remove(r.Context(), r.PathValue("id")); err != nil {
		s.writeMutationError(w, res.kind(), "delete", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) lookupResource(w http.ResponseWriter, r *http.Request) (resource, bool) {
	res, ok := s.resources[r.PathValue("kind")]
	if !ok {
		s.writeJSONError(w, http.StatusNotFound, "unknown entity kind")
		return nil, false
	}
	return res, true
}

// writeMutationError translates repository failures into API
// responses. Validation and not-found map to client errors; anything
// else is logged and reported as a plain server failure.
func (s *Server) writeMutationError(w http.ResponseWriter, kind, op string, err error) {
	var ve *store.ValidationError
	switch {
	case errors.As(err, &ve):
		s.writeJSONError(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, store.ErrNotFound):
		s.writeJSONError(w, http.StatusNotFound, "record not found")
	default:
		s.logger.Error("mutation failed", "entity", kind, "operation", op, "error", err)
		s.writeJSONError(w, http.StatusInternalServerError, "failed to "+op+" record")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to write JSON response", "error", err)
	}
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
