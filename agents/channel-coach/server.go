package channelcoach

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"channel-coach/agents/channel-coach/analysis"
	"channel-coach/agents/channel-coach/tracker"
	"channel-coach/agents/channel-coach/youtube"
	"channel-coach/shared/ai"
	"channel-coach/shared/config"
	"channel-coach/shared/monitoring"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

var errBadRequest = errors.New("bad request")

// Server exposes the dashboard as a JSON API.
type Server struct {
	dashboard *Dashboard
	tracker   *tracker.Tracker
	assistant *ai.Assistant
	metrics   monitoring.Metrics
	server    *http.Server
}

func NewServer(cfg config.ServerConfig, dashboard *Dashboard, tr *tracker.Tracker, assistant *ai.Assistant, metrics monitoring.Metrics) *Server {
	if metrics == nil {
		metrics = monitoring.NoopMetrics{}
	}
	s := &Server{
		dashboard: dashboard,
		tracker:   tr,
		assistant: assistant,
		metrics:   metrics,
	}
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/channels/{id}/analysis", s.handleAnalysis)
	mux.HandleFunc("GET /api/channels/{id}/analytics", s.handleAnalytics)
	mux.HandleFunc("GET /api/channels/{id}/matrix", s.handleMatrix)
	mux.HandleFunc("GET /api/compare", s.handleCompare)
	mux.HandleFunc("GET /api/tracker", s.handleListActions)
	mux.HandleFunc("POST /api/tracker", s.handleTrack)
	mux.HandleFunc("POST /api/tracker/verify", s.handleVerify)
	mux.HandleFunc("DELETE /api/tracker/{action}", s.handleUntrack)
	mux.HandleFunc("GET /api/tracker/{action}/impact", s.handleImpact)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	return monitoring.Middleware(s.metrics, mux)
}

func (s *Server) Start() {
	log.Info().Msgf("API server starting on %s", s.server.Addr)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("API server error")
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	report, err := s.dashboard.Analyze(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	token, ok := requireToken(w, r)
	if !ok {
		return
	}
	data, err := s.dashboard.ChannelAnalytics(r.Context(), token, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleMatrix(w http.ResponseWriter, r *http.Request) {
	token, ok := requireToken(w, r)
	if !ok {
		return
	}
	m, err := s.dashboard.Matrix(r.Context(), token, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	channel, a, b := q.Get("channel"), q.Get("a"), q.Get("b")
	if channel == "" || a == "" || b == "" {
		writeError(w, fmt.Errorf("%w: channel, a and b are required", errBadRequest))
		return
	}

	cmp, err := s.dashboard.Compare(r.Context(), bearerToken(r), channel, a, b)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

func (s *Server) handleListActions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Actions(r.URL.Query().Get("channel")))
}

type trackRequest struct {
	ActionID  string `json:"action_id"`
	ChannelID string `json:"channel_id"`
	Title     string `json:"title"`
	VideoID   string `json:"video_id,omitempty"`
}

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if req.ActionID == "" || req.ChannelID == "" {
		writeError(w, fmt.Errorf("%w: action_id and channel_id are required", errBadRequest))
		return
	}

	channel, err := s.dashboard.Channel(r.Context(), req.ChannelID)
	if err != nil {
		writeError(w, err)
		return
	}

	track := tracker.TrackRequest{
		ActionID:     req.ActionID,
		ChannelID:    channel.ID,
		Title:        req.Title,
		CurrentStats: channel.Statistics,
		VideoID:      req.VideoID,
	}
	if req.VideoID != "" {
		_, video, _, err := s.dashboard.VideoDetail(r.Context(), "", req.ChannelID, req.VideoID)
		if err != nil {
			writeError(w, err)
			return
		}
		track.Snapshot = tracker.SnapshotOf(video)
	}

	added, err := s.tracker.Track(track)
	if err != nil {
		writeError(w, err)
		return
	}
	s.metrics.SetTrackedActions(len(s.tracker.Actions("")))

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]bool{"tracked": added})
}

func (s *Server) handleUntrack(w http.ResponseWriter, r *http.Request) {
	action := r.PathValue("action")
	q := r.URL.Query()

	var err error
	if q.Get("all") == "true" {
		err = s.tracker.UntrackAll(action)
	} else {
		err = s.tracker.Untrack(action, q.Get("video"))
	}
	if err != nil {
		writeError(w, err)
		return
	}
	s.metrics.SetTrackedActions(len(s.tracker.Actions("")))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleImpact(w http.ResponseWriter, r *http.Request) {
	channelID := r.URL.Query().Get("channel")
	if channelID == "" {
		writeError(w, fmt.Errorf("%w: channel is required", errBadRequest))
		return
	}
	channel, err := s.dashboard.Channel(r.Context(), channelID)
	if err != nil {
		writeError(w, err)
		return
	}

	impact := s.tracker.Impact(r.PathValue("action"), channel.Statistics)
	if impact == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "action is not tracked"})
		return
	}
	writeJSON(w, http.StatusOK, impact)
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	summary, err := s.tracker.Verify(r.Context(), s.dashboard.LookupVideo)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// chatContext names the dashboard view the question is about.
type chatContext struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
	VideoA  string `json:"video_a,omitempty"`
	VideoB  string `json:"video_b,omitempty"`
	Video   string `json:"video,omitempty"`
}

type chatRequest struct {
	History []ai.Message `json:"history"`
	Context *chatContext `json:"context,omitempty"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	c, err := s.assistantContext(r.Context(), bearerToken(r), req.Context)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Reply: s.assistant.SendMessage(r.Context(), req.History, c)})
}

func (s *Server) assistantContext(ctx context.Context, token string, req *chatContext) (ai.Context, error) {
	if req == nil || req.Type == "" {
		return nil, nil
	}
	if req.Channel == "" {
		return nil, fmt.Errorf("%w: context.channel is required", errBadRequest)
	}

	switch req.Type {
	case "channel":
		report, err := s.dashboard.Analyze(ctx, req.Channel)
		if err != nil {
			return nil, err
		}
		return ai.NewChannelContext(report.Channel, report.Analysis, report.Insights), nil

	case "comparison":
		cmp, err := s.dashboard.Compare(ctx, token, req.Channel, req.VideoA, req.VideoB)
		if err != nil {
			return nil, err
		}
		channel, err := s.dashboard.Channel(ctx, req.Channel)
		if err != nil {
			return nil, err
		}
		return ai.NewComparisonContext(channel.Title, cmp.VideoA, cmp.VideoB, cmp.Report), nil

	case "video":
		channel, video, metrics, err := s.dashboard.VideoDetail(ctx, token, req.Channel, req.Video)
		if err != nil {
			return nil, err
		}
		return ai.VideoContext{
			ChannelTitle: channel.Title,
			Title:        video.Title,
			ContentType:  analysis.ClassifyContent(video),
			Views:        video.ViewCount,
			Likes:        video.LikeCount,
			Comments:     video.CommentCount,
			Metrics:      metrics,
		}, nil
	}

	return nil, fmt.Errorf("%w: unknown context type %q", errBadRequest, req.Type)
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func requireToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	token := bearerToken(r)
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing bearer token"})
		return "", false
	}
	return token, true
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to write response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var apiErr *youtube.APIError

	switch {
	case errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, youtube.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, ErrChannelNotFound), errors.Is(err, ErrVideoNotFound):
		status = http.StatusNotFound
	case errors.As(err, &apiErr) && apiErr.StatusCode >= 400:
		status = apiErr.StatusCode
	case errors.Is(err, context.Canceled):
		status = http.StatusServiceUnavailable
	}

	if status >= 500 {
		log.Error().Err(err).Msg("Request failed")
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}
