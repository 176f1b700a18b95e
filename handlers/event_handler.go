package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/Dosada05/arena-admin/middleware"
	"github.com/Dosada05/arena-admin/models"
	"github.com/Dosada05/arena-admin/repositories"
	"github.com/Dosada05/arena-admin/services"
)

const (
	// BannerField is the multipart field carrying the banner image.
	BannerField    = "banner"
	maxBannerBytes = 5 << 20
)

type EventHandler struct {
	eventService services.EventService
}

func NewEventHandler(es services.EventService) *EventHandler {
	return &EventHandler{eventService: es}
}

// List handles GET /api/matches. Optional query filters: match_type, status,
// approval_status, game.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseEventFilter(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	events, err := h.eventService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	successResponse(w, r, http.StatusOK, jsonResponse{"data": events})
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.eventService.Get(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	successResponse(w, r, http.StatusOK, jsonResponse{"data": event})
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	var input models.BackendRecord
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.eventService.Create(r.Context(), userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	successResponse(w, r, http.StatusCreated, jsonResponse{"message": "event created", "data": event})
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input models.BackendRecord
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.eventService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	successResponse(w, r, http.StatusOK, jsonResponse{"message": "event updated", "data": event})
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.eventService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	successResponse(w, r, http.StatusOK, jsonResponse{"message": "event deleted"})
}

// UploadBanner handles POST /api/matches/{eventID}/banner (multipart, field "banner").
func (h *EventHandler) UploadBanner(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBannerBytes+1024)
	if err := r.ParseMultipartForm(maxBannerBytes); err != nil {
		badRequestResponse(w, r, fmt.Errorf("invalid multipart form: %w", err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(BannerField)
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("missing %q file", BannerField))
		return
	}
	defer file.Close()

	contentType, err := bannerContentType(file, header)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	event, err := h.eventService.UploadBanner(r.Context(), id, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	successResponse(w, r, http.StatusOK, jsonResponse{"message": "banner uploaded", "data": event})
}

// bannerContentType trusts the part header and falls back to sniffing.
func bannerContentType(file multipart.File, header *multipart.FileHeader) (string, error) {
	if ct := header.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct, nil
	}
	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	if _, err := file.Seek(0, 0); err != nil {
		return "", fmt.Errorf("failed to rewind banner upload: %w", err)
	}
	return http.DetectContentType(buf[:n]), nil
}

func parseEventFilter(r *http.Request) (repositories.ListEventsFilter, error) {
	q := r.URL.Query()
	var filter repositories.ListEventsFilter

	if v := strings.TrimSpace(q.Get("match_type")); v != "" {
		mt := models.MatchType(v)
		if !models.IsValidMatchType(mt) {
			return filter, fmt.Errorf("invalid match_type %q", v)
		}
		filter.MatchType = &mt
	}
	if v := strings.TrimSpace(q.Get("status")); v != "" {
		st := models.EventStatus(v)
		if !models.IsValidStatus(st) {
			return filter, fmt.Errorf("invalid status %q", v)
		}
		filter.Status = &st
	}
	if v := strings.TrimSpace(q.Get("approval_status")); v != "" {
		ap := models.ApprovalStatus(v)
		if !models.IsValidApproval(ap) {
			return filter, fmt.Errorf("invalid approval_status %q", v)
		}
		filter.ApprovalStatus = &ap
	}
	if v := strings.TrimSpace(q.Get("game")); v != "" {
		g := models.Game(strings.ToLower(v))
		if !models.IsKnownGame(g) {
			return filter, errors.New("unknown game")
		}
		filter.Game = &g
	}
	return filter, nil
}
