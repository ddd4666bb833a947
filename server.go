package main

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	qrcode "github.com/skip2/go-qrcode"

	"asteroid-field/render"
)

const (
	frameWidth       = 640 // frame.png size in pixels
	frameHeight      = 360
	qrSize           = 256
	maxLeaderboard   = 100
	maxAnalyticsDays = 90
	maxSessionName   = 30
	maxRequestBody   = 4096
	defaultRunsLimit = 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type handlers struct {
	hub    *Hub
	cfg    Config
	raster *render.Raster
}

// SetupRoutes configures HTTP routes
func SetupRoutes(hub *Hub, cfg Config) *chi.Mux {
	h := &handlers{hub: hub, cfg: cfg, raster: render.NewRaster(frameWidth, frameHeight)}
	limiter := NewIPRateLimiter(cfg.RequestsPerSecond, cfg.Burst)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{"sessions": hub.sessions.Count(), "clients": hub.ClientCount()})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Post("/register", h.handleRegister)
		r.Post("/login", h.handleLogin)
		r.Get("/pilots/me", h.handleMe)
		r.Get("/leaderboard", h.handleLeaderboard)
		r.Get("/analytics", h.handleAnalytics)

		r.Get("/sessions", h.handleListSessions)
		r.Post("/sessions", h.handleCreateSession)
		r.Get("/sessions/{id}", h.handleGetSession)
		r.Get("/sessions/{id}/frame.png", h.handleFrame)
		r.Get("/sessions/{id}/qr.png", h.handleQR)
	})

	// WebSocket endpoint
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r)
		if !hub.CanAccept(ip) {
			wsRejected.WithLabelValues("limit").Inc()
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade error: %v", err)
			return
		}

		hub.TrackConnect(ip)

		client := NewClient(hub, conn, ip)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorMsg{Msg: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *handlers) requireAuth(w http.ResponseWriter) bool {
	if h.hub.auth == nil {
		writeError(w, http.StatusServiceUnavailable, "accounts disabled")
		return false
	}
	return true
}

func (h *handlers) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !h.requireAuth(w) {
		return
	}
	var c credentials
	if !decodeBody(w, r, &c) {
		return
	}
	id, token, err := h.hub.auth.Register(c.Username, c.Password)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.hub.analytics.Track(EvtRegister, id, "", "")
	writeJSON(w, http.StatusCreated, AuthOKMsg{Token: token, Username: strings.TrimSpace(c.Username), PilotID: id})
}

func (h *handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.requireAuth(w) {
		return
	}
	var c credentials
	if !decodeBody(w, r, &c) {
		return
	}
	id, token, err := h.hub.auth.Login(c.Username, c.Password, extractIP(r))
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, AuthOKMsg{Token: token, Username: c.Username, PilotID: id})
}

// handleMe returns the bearer's stats and recent runs
func (h *handlers) handleMe(w http.ResponseWriter, r *http.Request) {
	if !h.requireAuth(w) {
		return
	}
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	id, username, err := h.hub.auth.ValidateToken(token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	stats, err := h.hub.db.GetStats(id)
	if err != nil || stats == nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	runs, err := h.hub.db.GetRuns(id, defaultRunsLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"profile": ProfileDataMsg{
			Username:  username,
			Level:     stats.Level,
			XP:        stats.XP,
			Runs:      stats.Runs,
			BestScore: stats.BestScore,
			Asteroids: stats.Asteroids,
			Enemies:   stats.Enemies,
			Playtime:  stats.Playtime,
		},
		"runs": runs,
	})
}

func (h *handlers) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if h.hub.db == nil {
		writeJSON(w, http.StatusOK, []LeaderboardEntry{})
		return
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > maxLeaderboard {
		limit = 10
	}
	entries, err := h.hub.db.GetLeaderboard(r.URL.Query().Get("by"), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if entries == nil {
		entries = []LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleAnalytics summarises recorded events over ?days= (default 7)
func (h *handlers) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil || days <= 0 || days > maxAnalyticsDays {
		days = 7
	}
	counts, err := h.hub.analytics.EventCounts(days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	active, err := h.hub.analytics.ActivePilots(days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"days":         days,
		"events":       counts,
		"activePilots": active,
		"sessions":     h.hub.sessions.Count(),
		"connections":  h.hub.TotalConns(),
	})
}

func (h *handlers) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.hub.sessions.ListSessions())
}

func (h *handlers) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if r.ContentLength != 0 && !decodeBody(w, r, &body) {
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		name = "Asteroid Field"
	}
	if len(name) > maxSessionName {
		name = name[:maxSessionName]
	}
	sess, err := h.hub.sessions.CreateSession(name)
	if err == errTooManySessions {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		log.Printf("create session: %v", err)
		writeError(w, http.StatusInternalServerError, "could not start session")
		return
	}
	writeJSON(w, http.StatusCreated, sess.Info())
}

func (h *handlers) session(w http.ResponseWriter, r *http.Request) *Session {
	sess := h.hub.sessions.GetSession(chi.URLParam(r, "id"))
	if sess == nil {
		writeError(w, http.StatusNotFound, "session not found")
	}
	return sess
}

func (h *handlers) handleGetSession(w http.ResponseWriter, r *http.Request) {
	if sess := h.session(w, r); sess != nil {
		writeJSON(w, http.StatusOK, sess.Info())
	}
}

// handleFrame renders the last broadcast frame of a session
func (h *handlers) handleFrame(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	if err := h.raster.EncodePNG(w, sess.Game.Frame()); err != nil {
		log.Printf("encode frame: %v", err)
	}
}

// handleQR encodes a link spectators can open to watch the session
func (h *handlers) handleQR(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	link := strings.TrimRight(h.cfg.PublicURL, "/") + "/?watch=" + sess.ID
	png, err := qrcode.Encode(link, qrcode.Medium, qrSize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "qr encode failed")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
