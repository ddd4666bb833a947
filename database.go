package main

import (
	"database/sql"
	"log"
	"math"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// PilotRow represents a pilot account
type PilotRow struct {
	ID        int64
	Username  string
	PassHash  string
	CreatedAt time.Time
}

// StatsRow is the running total over all of a pilot's runs
type StatsRow struct {
	PilotID   int64
	Runs      int
	BestScore int
	Asteroids int
	Enemies   int
	Hits      int
	Shots     int
	Playtime  float64 // seconds
	XP        int
	Level     int
}

// RunRow is one finished session flown by a pilot
type RunRow struct {
	ID        int64     `json:"id"`
	PilotID   int64     `json:"pilotId"`
	SessionID string    `json:"sessionId"`
	Duration  float64   `json:"duration"` // seconds
	Frames    uint64    `json:"frames"`
	Asteroids int       `json:"asteroids"`
	Enemies   int       `json:"enemies"`
	Hits      int       `json:"hits"`
	Shots     int       `json:"shots"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pilots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		pass_hash TEXT NOT NULL DEFAULT '',
		is_guest INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS stats (
		pilot_id INTEGER PRIMARY KEY REFERENCES pilots(id),
		runs INTEGER NOT NULL DEFAULT 0,
		best_score INTEGER NOT NULL DEFAULT 0,
		asteroids INTEGER NOT NULL DEFAULT 0,
		enemies INTEGER NOT NULL DEFAULT 0,
		hits INTEGER NOT NULL DEFAULT 0,
		shots INTEGER NOT NULL DEFAULT 0,
		playtime REAL NOT NULL DEFAULT 0,
		xp INTEGER NOT NULL DEFAULT 0,
		level INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		pilot_id INTEGER NOT NULL REFERENCES pilots(id),
		session_id TEXT NOT NULL DEFAULT '',
		duration REAL NOT NULL DEFAULT 0,
		frames INTEGER NOT NULL DEFAULT 0,
		asteroids INTEGER NOT NULL DEFAULT 0,
		enemies INTEGER NOT NULL DEFAULT 0,
		hits INTEGER NOT NULL DEFAULT 0,
		shots INTEGER NOT NULL DEFAULT 0,
		score INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS achievements (
		pilot_id INTEGER NOT NULL REFERENCES pilots(id),
		achievement_id TEXT NOT NULL,
		unlocked_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (pilot_id, achievement_id)
	);

	CREATE TABLE IF NOT EXISTS analytics_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		pilot_id INTEGER,
		session_id TEXT,
		data TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_pilot ON runs(pilot_id);
	CREATE INDEX IF NOT EXISTS idx_analytics_created ON analytics_events(created_at);
	CREATE INDEX IF NOT EXISTS idx_pilots_username ON pilots(username);
	`
	_, err := db.conn.Exec(schema)
	if err != nil {
		log.Printf("DB migration error: %v", err)
	}
	return err
}

// GetSetting returns a stored setting or "" when unset
func (db *DB) GetSetting(key string) string {
	var v string
	if err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&v); err != nil {
		return ""
	}
	return v
}

// SetSetting stores a setting, replacing any previous value
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// CreatePilot creates a new pilot account (returns pilot ID)
func (db *DB) CreatePilot(username, passHash string) (int64, error) {
	return db.insertPilot(username, passHash, false)
}

// CreateGuest creates a guest pilot (no password). Guests never show up on
// the leaderboard.
func (db *DB) CreateGuest(username string) (int64, error) {
	return db.insertPilot(username, "", true)
}

func (db *DB) insertPilot(username, passHash string, guest bool) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO pilots (username, pass_hash, is_guest) VALUES (?, ?, ?)",
		username, passHash, guest,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	_, err = db.conn.Exec("INSERT INTO stats (pilot_id) VALUES (?)", id)
	return id, err
}

// GetPilotByUsername returns a pilot by username, or nil
func (db *DB) GetPilotByUsername(username string) (*PilotRow, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, pass_hash, created_at FROM pilots WHERE username = ?",
		username,
	)
	p := &PilotRow{}
	err := row.Scan(&p.ID, &p.Username, &p.PassHash, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// GetStats returns pilot stats, or nil
func (db *DB) GetStats(pilotID int64) (*StatsRow, error) {
	row := db.conn.QueryRow(
		"SELECT pilot_id, runs, best_score, asteroids, enemies, hits, shots, playtime, xp, level FROM stats WHERE pilot_id = ?",
		pilotID,
	)
	s := &StatsRow{}
	err := row.Scan(&s.PilotID, &s.Runs, &s.BestScore, &s.Asteroids, &s.Enemies, &s.Hits, &s.Shots, &s.Playtime, &s.XP, &s.Level)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

// XPForLevel returns the total XP required to reach a given level.
// Level 1 requires 0 XP, level 2 requires 100, etc.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	total := 0.0
	for i := 1; i < level; i++ {
		total += 100.0 * math.Pow(float64(i), 1.5)
	}
	return int(total)
}

// CalculateLevel returns the level for a given total XP amount
func CalculateLevel(totalXP int) int {
	level := 1
	for {
		needed := XPForLevel(level + 1)
		if totalXP < needed {
			return level
		}
		level++
		if level > 100 { // cap at 100
			return 100
		}
	}
}

// Score values destroyed hazards; every hit taken costs a little
func Score(asteroids, enemies, hits int) int {
	s := asteroids*10 + enemies*25 - hits*5
	if s < 0 {
		return 0
	}
	return s
}

// RecordRun stores a finished run and folds it into the pilot's stats.
// Returns (newXP, newLevel).
func (db *DB) RecordRun(r RunRow) (int, int, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (pilot_id, session_id, duration, frames, asteroids, enemies, hits, shots, score)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.PilotID, r.SessionID, r.Duration, r.Frames, r.Asteroids, r.Enemies, r.Hits, r.Shots, r.Score,
	)
	if err != nil {
		return 0, 0, err
	}

	xpEarned := r.Score + int(r.Duration/10)
	_, err = tx.Exec(`
		UPDATE stats SET
			runs = runs + 1,
			best_score = MAX(best_score, ?),
			asteroids = asteroids + ?,
			enemies = enemies + ?,
			hits = hits + ?,
			shots = shots + ?,
			playtime = playtime + ?,
			xp = xp + ?
		WHERE pilot_id = ?`,
		r.Score, r.Asteroids, r.Enemies, r.Hits, r.Shots, r.Duration, xpEarned, r.PilotID,
	)
	if err != nil {
		return 0, 0, err
	}

	var totalXP int
	if err := tx.QueryRow("SELECT xp FROM stats WHERE pilot_id = ?", r.PilotID).Scan(&totalXP); err != nil {
		return 0, 0, err
	}
	level := CalculateLevel(totalXP)
	if _, err := tx.Exec("UPDATE stats SET level = ? WHERE pilot_id = ?", level, r.PilotID); err != nil {
		return 0, 0, err
	}
	return totalXP, level, tx.Commit()
}

// LeaderboardEntry represents one row in the leaderboard
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	Username  string `json:"username"`
	Level     int    `json:"level"`
	XP        int    `json:"xp"`
	BestScore int    `json:"bestScore"`
	Runs      int    `json:"runs"`
	Asteroids int    `json:"asteroids"`
	Enemies   int    `json:"enemies"`
}

// GetLeaderboard returns top pilots sorted by the given field
func (db *DB) GetLeaderboard(orderBy string, limit int) ([]LeaderboardEntry, error) {
	// Whitelist valid order columns
	validCols := map[string]string{
		"score": "s.best_score", "xp": "s.xp", "level": "s.level",
		"asteroids": "s.asteroids", "enemies": "s.enemies",
	}
	col, ok := validCols[orderBy]
	if !ok {
		col = "s.best_score"
	}

	query := `SELECT p.username, s.level, s.xp, s.best_score, s.runs, s.asteroids, s.enemies
		FROM stats s JOIN pilots p ON p.id = s.pilot_id
		WHERE p.is_guest = 0 AND s.runs > 0
		ORDER BY ` + col + ` DESC, p.id ASC LIMIT ?`

	rows, err := db.conn.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.Level, &e.XP, &e.BestScore, &e.Runs, &e.Asteroids, &e.Enemies); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		result = append(result, e)
	}
	return result, rows.Err()
}

// GetRuns returns recent runs for a pilot
func (db *DB) GetRuns(pilotID int64, limit int) ([]RunRow, error) {
	rows, err := db.conn.Query(`
		SELECT id, pilot_id, session_id, duration, frames, asteroids, enemies, hits, shots, score, created_at
		FROM runs
		WHERE pilot_id = ?
		ORDER BY id DESC
		LIMIT ?`,
		pilotID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RunRow
	for rows.Next() {
		var r RunRow
		if err := rows.Scan(&r.ID, &r.PilotID, &r.SessionID, &r.Duration, &r.Frames, &r.Asteroids, &r.Enemies, &r.Hits, &r.Shots, &r.Score, &r.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// GetAchievements returns the ids a pilot has unlocked
func (db *DB) GetAchievements(pilotID int64) ([]string, error) {
	rows, err := db.conn.Query("SELECT achievement_id FROM achievements WHERE pilot_id = ? ORDER BY unlocked_at", pilotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UnlockAchievement records an achievement; false if it was already unlocked
func (db *DB) UnlockAchievement(pilotID int64, id string) (bool, error) {
	res, err := db.conn.Exec("INSERT OR IGNORE INTO achievements (pilot_id, achievement_id) VALUES (?, ?)", pilotID, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// UsernameExists checks if a username is taken
func (db *DB) UsernameExists(username string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM pilots WHERE username = ?", username).Scan(&count)
	return count > 0, err
}
