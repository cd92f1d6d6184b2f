// Package handler exposes the anonymization pipeline over HTTP for clients
// that embed the relay rather than the pipeline itself.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mssola/useragent"

	"veil/internal/anonymity"
	"veil/internal/capture"
	"veil/internal/consent"
	"veil/internal/platform/middleware"
	"veil/internal/redact"
	"veil/internal/sink"
	dErrors "veil/pkg/domain-errors"
)

// Service is the slice of the pipeline the transport needs.
type Service interface {
	Track(ctx context.Context, ev capture.Event) capture.Outcome
	IdentifyUser(ctx context.Context, userID string)
	SetOnlyTrackAnonymousEvents(only bool)
	IsInitialised() bool
}

// Handler handles telemetry ingestion endpoints.
type Handler struct {
	logger      *slog.Logger
	pipeline    Service
	preferences consent.Store
	// auth is the optional request authorizer; nil leaves ingestion open.
	auth func(http.Handler) http.Handler
}

func New(pipeline Service, preferences consent.Store, logger *slog.Logger, auth func(http.Handler) http.Handler) *Handler {
	return &Handler{
		logger:      logger,
		pipeline:    pipeline,
		preferences: preferences,
		auth:        auth,
	}
}

// Register registers the telemetry routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(h.logger))
	if h.auth != nil {
		router.Use(h.auth)
	}
	router.Post("/telemetry/anonymous", h.handleTrack(anonymity.ClassAnonymous))
	router.Post("/telemetry/pseudonymous", h.handleTrack(anonymity.ClassPseudonymous))
	router.Post("/telemetry/room", h.handleTrack(anonymity.ClassRoomScoped))
	router.Post("/telemetry/identify", h.handleIdentify)
	router.Put("/telemetry/preferences", h.handlePreferences)
	router.Get("/telemetry/status", h.handleStatus)

	r.Mount("/", router)
}

type trackRequest struct {
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties"`
	RoomID     string         `json:"room_id,omitempty"`
	// Navigation context observed by the client when the event fired.
	Origin   string `json:"origin,omitempty"`
	Fragment string `json:"fragment,omitempty"`
	Path     string `json:"path,omitempty"`
}

type identifyRequest struct {
	UserID string `json:"user_id"`
}

type preferencesRequest struct {
	OnlyAnonymous bool `json:"only_anonymous"`
}

func (h *Handler) handleTrack(class anonymity.EventClass) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req trackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
			writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid track request"))
			return
		}

		ev := capture.Event{
			Name:       req.Name,
			Class:      class,
			RoomID:     req.RoomID,
			Properties: enrichFromUserAgent(req.Properties, r.UserAgent()),
		}
		if req.Origin != "" || req.Fragment != "" || req.Path != "" {
			ev.Location = &redact.Location{
				Origin:   req.Origin,
				Fragment: req.Fragment,
				Path:     req.Path,
			}
		}

		// The outcome stays internal: a dropped event and a sent event look
		// identical to the submitting client.
		h.pipeline.Track(r.Context(), ev)
		w.WriteHeader(http.StatusAccepted)
	}
}

func (h *Handler) handleIdentify(w http.ResponseWriter, r *http.Request) {
	var req identifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid identify request"))
		return
	}
	h.pipeline.IdentifyUser(r.Context(), req.UserID)
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) handlePreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req preferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid preferences request"))
		return
	}

	h.pipeline.SetOnlyTrackAnonymousEvents(req.OnlyAnonymous)

	if h.preferences != nil {
		userID := middleware.GetUserID(ctx)
		if userID == "" {
			userID = "default"
		}
		pref := consent.Preference{
			UserID:        userID,
			OnlyAnonymous: req.OnlyAnonymous,
			UpdatedAt:     time.Now(),
		}
		if err := h.preferences.Save(ctx, pref); err != nil {
			// The runtime policy already changed; a failed persist only
			// affects the next restart.
			h.logger.WarnContext(ctx, "preference persist failed",
				"error", err,
				"request_id", middleware.GetRequestID(ctx),
			)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]bool{
		"initialised": h.pipeline.IsInitialised(),
	})
}

// enrichFromUserAgent attaches coarse, non-identifying device-class
// properties. Browser family and OS name are aggregate vocabulary; full
// user-agent strings are not forwarded.
func enrichFromUserAgent(props map[string]any, rawUA string) sink.Properties {
	enriched := sink.Properties{}
	for k, v := range props {
		enriched[k] = v
	}
	if rawUA == "" {
		return enriched
	}
	ua := useragent.New(rawUA)
	if name, _ := ua.Browser(); name != "" {
		enriched["$browser"] = name
	}
	if os := ua.OSInfo().Name; os != "" {
		enriched["$os"] = os
	}
	deviceType := "desktop"
	if ua.Mobile() {
		deviceType = "mobile"
	}
	enriched["$device_type"] = deviceType
	return enriched
}

// writeError centralizes domain error translation to HTTP responses so the
// JSON error envelope stays consistent.
func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(dErrors.ToHTTPStatus(code))
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": string(code),
	})
}
