package main

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"
)

var errTooManySessions = errors.New("too many active sessions")

// Session is a named game that clients can fly or watch
type Session struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Game      *Game
}

// SessionManager handles creation, lookup and teardown of sessions
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	cfg       Config
	db        *DB
	analytics *Analytics // nil disables event tracking
}

// NewSessionManager creates a new SessionManager. db may be nil, in which
// case runs are not recorded.
func NewSessionManager(cfg Config, db *DB) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		db:       db,
	}
}

// CreateSession starts a new game session
func (sm *SessionManager) CreateSession(name string) (*Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.sessions) >= sm.cfg.MaxSessions {
		return nil, errTooManySessions
	}

	g, err := NewGame(sm.cfg)
	if err != nil {
		return nil, err
	}
	sess := &Session{
		ID:        GenerateUUID(),
		Name:      name,
		CreatedAt: time.Now(),
		Game:      g,
	}
	g.onEnd = func(summary RunSummary) { sm.ended(sess, summary) }
	sm.sessions[sess.ID] = sess
	sessionsActive.Inc()
	sm.analytics.Track(EvtSessionStart, 0, sess.ID, "")
	go g.Run()
	log.Printf("session %s (%q) started", sess.ID, name)
	return sess, nil
}

// GetSession returns a session by ID
func (sm *SessionManager) GetSession(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// ended runs on the game goroutine once the game has stopped
func (sm *SessionManager) ended(sess *Session, summary RunSummary) {
	sm.mu.Lock()
	delete(sm.sessions, sess.ID)
	sm.mu.Unlock()
	sessionsActive.Dec()
	sessionsEnded.WithLabelValues(summary.Reason).Inc()

	summary.SessionID = sess.ID
	_, pilotID := sess.Game.Pilot()
	sm.analytics.Track(EvtSessionEnd, pilotID, sess.ID, summary.Reason)
	if pilotID != 0 && sm.db != nil && summary.Frames > 0 {
		run := RunRow{
			PilotID:   pilotID,
			SessionID: sess.ID,
			Duration:  summary.Duration,
			Frames:    summary.Frames,
			Asteroids: int(summary.Asteroids),
			Enemies:   int(summary.Enemies),
			Hits:      summary.Hits,
			Shots:     summary.Shots,
			Score:     summary.Score,
		}
		xp, level, err := sm.db.RecordRun(run)
		if err != nil {
			log.Printf("record run for session %s: %v", sess.ID, err)
		} else {
			summary.XP, summary.Level = xp, level
			summary.Achievements = CheckAchievements(sm.db, run)
			runsRecorded.Inc()
			sm.analytics.Track(EvtRunRecorded, pilotID, sess.ID, "")
			for _, a := range summary.Achievements {
				sm.analytics.Track(EvtAchievement, pilotID, sess.ID, a.ID)
			}
		}
	}

	sess.Game.mu.RLock()
	targets := sess.Game.audience()
	sess.Game.mu.RUnlock()
	for _, c := range targets {
		c.SendJSON(Envelope{T: MsgEnded, Data: summary})
	}
	log.Printf("session %s ended (%s) after %d frames, score %d", sess.ID, summary.Reason, summary.Frames, summary.Score)
}

// EndSession stops a session and waits for its teardown
func (sm *SessionManager) EndSession(id, reason string) bool {
	sess := sm.GetSession(id)
	if sess == nil {
		return false
	}
	sess.Game.Stop(reason)
	<-sess.Game.Done()
	return true
}

// ListSessions returns info about all active sessions, oldest first
func (sm *SessionManager) ListSessions() []SessionInfo {
	sm.mu.RLock()
	sessions := make([]*Session, 0, len(sm.sessions))
	for _, sess := range sm.sessions {
		sessions = append(sessions, sess)
	}
	sm.mu.RUnlock()

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	list := make([]SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		list = append(list, sess.Info())
	}
	return list
}

// Info summarises the session for listings
func (sess *Session) Info() SessionInfo {
	pilot, _ := sess.Game.Pilot()
	return SessionInfo{
		ID:         sess.ID,
		Name:       sess.Name,
		Pilot:      pilot,
		Spectators: sess.Game.SpectatorCount(),
		Uptime:     sess.Game.Uptime().Seconds(),
	}
}

// Count returns the number of active sessions
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// Reap ends every session that has had no clients for longer than idle
func (sm *SessionManager) Reap(idle time.Duration) int {
	sm.mu.RLock()
	var stale []string
	for id, sess := range sm.sessions {
		if d := sess.Game.IdleFor(); d > idle {
			stale = append(stale, id)
		}
	}
	sm.mu.RUnlock()

	for _, id := range stale {
		sm.EndSession(id, endIdle)
	}
	return len(stale)
}

// RunJanitor reaps idle sessions until ctx is cancelled
func (sm *SessionManager) RunJanitor(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			sm.Reap(sm.cfg.IdleTimeout)
		case <-ctx.Done():
			return
		}
	}
}

// Shutdown ends every session
func (sm *SessionManager) Shutdown() {
	sm.mu.RLock()
	ids := make([]string, 0, len(sm.sessions))
	for id := range sm.sessions {
		ids = append(ids, id)
	}
	sm.mu.RUnlock()
	for _, id := range ids {
		sm.EndSession(id, endShutdown)
	}
}
