package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/example/reclam/internal/ports/primary"
)

// reclamationBody accepts both the English and the original French field names.
type reclamationBody struct {
	Title       string     `json:"title"`
	Titre       string     `json:"titre"`
	Description string     `json:"description"`
	UserID      flexibleID `json:"userId"`
}

func (b reclamationBody) title() string {
	if b.Title != "" {
		return b.Title
	}
	return b.Titre
}

type statusBody struct {
	Status string `json:"status"`
	Statut string `json:"statut"`
}

func (h *Handler) createReclamation(w http.ResponseWriter, r *http.Request) {
	var body reclamationBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	rec, err := h.reclamations.CreateReclamation(r.Context(), primary.CreateReclamationRequest{
		Title:       body.title(),
		Description: body.Description,
		UserID:      string(body.UserID),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) listReclamations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.writeReclamations(w, r, primary.ReclamationFilters{UserID: q.Get("userId"), Status: q.Get("status")})
}

func (h *Handler) listReclamationsByUser(w http.ResponseWriter, r *http.Request) {
	h.writeReclamations(w, r, primary.ReclamationFilters{UserID: chi.URLParam(r, "userId")})
}

func (h *Handler) listReclamationsByStatus(w http.ResponseWriter, r *http.Request) {
	h.writeReclamations(w, r, primary.ReclamationFilters{Status: chi.URLParam(r, "status")})
}

func (h *Handler) writeReclamations(w http.ResponseWriter, r *http.Request, filters primary.ReclamationFilters) {
	recs, err := h.reclamations.ListReclamations(r.Context(), filters)
	if err != nil {
		writeError(w, err)
		return
	}
	if recs == nil {
		recs = []*primary.Reclamation{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *Handler) getReclamation(w http.ResponseWriter, r *http.Request) {
	rec, err := h.reclamations.GetReclamation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) updateReclamation(w http.ResponseWriter, r *http.Request) {
	var body reclamationBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	rec, err := h.reclamations.UpdateReclamation(r.Context(), primary.UpdateReclamationRequest{
		ID:          chi.URLParam(r, "id"),
		Title:       body.title(),
		Description: body.Description,
		UserID:      string(body.UserID),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	var body statusBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	status := body.Status
	if status == "" {
		status = body.Statut
	}

	rec, err := h.reclamations.SetStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) takeInCharge(w http.ResponseWriter, r *http.Request) {
	rec, err := h.reclamations.TakeInCharge(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) process(w http.ResponseWriter, r *http.Request) {
	rec, err := h.reclamations.Process(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) deleteReclamation(w http.ResponseWriter, r *http.Request) {
	if err := h.reclamations.DeleteReclamation(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
