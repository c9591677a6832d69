package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/kozaktomas/face-counter/internal/constants"
	"github.com/kozaktomas/face-counter/internal/database"
	"github.com/kozaktomas/face-counter/internal/imaging"
)

// thumbnailQuality is the JPEG quality of resized images
const thumbnailQuality = 85

// PeopleHandler serves person records
type PeopleHandler struct {
	store database.PersonWriter
	log   logrus.FieldLogger
}

// NewPeopleHandler creates a new people handler
func NewPeopleHandler(store database.PersonWriter, log logrus.FieldLogger) *PeopleHandler {
	return &PeopleHandler{store: store, log: log}
}

// List returns every person without blobs.
func (h *PeopleHandler) List(w http.ResponseWriter, r *http.Request) {
	people, err := h.store.ListPeople(r.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to list people")
		respondError(w, http.StatusInternalServerError, errStore)
		return
	}

	summaries := make([]database.Summary, len(people))
	for i := range people {
		summaries[i] = people[i].Summarize()
	}
	respondJSON(w, http.StatusOK, summaries)
}

// lookup writes the error response itself and returns nil when the person is
// unavailable.
func (h *PeopleHandler) lookup(w http.ResponseWriter, r *http.Request) *database.Person {
	personID := chi.URLParam(r, "personID")

	p, err := h.store.GetPerson(r.Context(), personID)
	if err != nil {
		h.log.WithError(err).WithField("person", sanitizeForLog(personID)).Error("Failed to get person")
		respondError(w, http.StatusInternalServerError, errStore)
		return nil
	}
	if p == nil {
		respondError(w, http.StatusNotFound, errPersonNotFound)
		return nil
	}
	return p
}

// Get returns a single person without blobs.
func (h *PeopleHandler) Get(w http.ResponseWriter, r *http.Request) {
	p := h.lookup(w, r)
	if p == nil {
		return
	}
	respondJSON(w, http.StatusOK, p.Summarize())
}

// Image returns the stored face crop, optionally resized with ?size=N.
func (h *PeopleHandler) Image(w http.ResponseWriter, r *http.Request) {
	size := 0
	if s := r.URL.Query().Get("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 || n > constants.MaxThumbnailSize {
			respondError(w, http.StatusBadRequest, errInvalidSize)
			return
		}
		size = n
	}

	p := h.lookup(w, r)
	if p == nil {
		return
	}
	if len(p.Image) == 0 {
		respondError(w, http.StatusNotFound, errNoImage)
		return
	}

	data := p.Image
	if size > 0 {
		resized, err := imaging.Resize(p.Image, size, thumbnailQuality)
		if err != nil {
			h.log.WithError(err).WithField("person", p.PersonID).Warn("Failed to resize image")
			respondError(w, http.StatusInternalServerError, "failed to resize image")
			return
		}
		data = resized
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Delete removes a person.
func (h *PeopleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "personID")

	deleted, err := h.store.DeletePerson(r.Context(), personID)
	if err != nil {
		h.log.WithError(err).WithField("person", sanitizeForLog(personID)).Error("Failed to delete person")
		respondError(w, http.StatusInternalServerError, "failed to delete person")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, errPersonNotFound)
		return
	}

	h.log.WithField("person", sanitizeForLog(personID)).Info("Person deleted")
	w.WriteHeader(http.StatusNoContent)
}
