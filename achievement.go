package main

// AchievementDef describes one unlockable badge
type AchievementDef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var Achievements = []AchievementDef{
	{"first_flight", "First Flight", "Finish your first run"},
	{"rock_breaker", "Rock Breaker", "Destroy 100 asteroids in total"},
	{"quarry", "Quarry", "Destroy 1000 asteroids in total"},
	{"hunter", "Hunter", "Destroy 10 enemies in a single run"},
	{"untouchable", "Untouchable", "Survive two minutes in one run without a hit"},
	{"marksman", "Marksman", "Hit with half your shots over a run of at least 50 shots"},
	{"veteran", "Veteran", "Reach level 10"},
	{"elite", "Elite", "Reach level 25"},
	{"survivor", "Survivor", "Fly for 1 hour total"},
}

// CheckAchievements unlocks whatever run (already folded into the pilot's
// stats) earned. Returns the newly unlocked achievements.
func CheckAchievements(db *DB, run RunRow) []AchievementDef {
	if db == nil {
		return nil
	}

	stats, err := db.GetStats(run.PilotID)
	if err != nil || stats == nil {
		return nil
	}

	existing, err := db.GetAchievements(run.PilotID)
	if err != nil {
		return nil
	}
	has := make(map[string]bool, len(existing))
	for _, a := range existing {
		has[a] = true
	}

	check := func(id string) bool {
		if has[id] {
			return false
		}
		switch id {
		case "first_flight":
			return stats.Runs >= 1
		case "rock_breaker":
			return stats.Asteroids >= 100
		case "quarry":
			return stats.Asteroids >= 1000
		case "hunter":
			return run.Enemies >= 10
		case "untouchable":
			return run.Hits == 0 && run.Duration >= 120
		case "marksman":
			return run.Shots >= 50 && 2*(run.Asteroids+run.Enemies) >= run.Shots
		case "veteran":
			return stats.Level >= 10
		case "elite":
			return stats.Level >= 25
		case "survivor":
			return stats.Playtime >= 3600
		}
		return false
	}

	var unlocked []AchievementDef
	for _, def := range Achievements {
		if check(def.ID) {
			if newlyUnlocked, err := db.UnlockAchievement(run.PilotID, def.ID); err == nil && newlyUnlocked {
				unlocked = append(unlocked, def)
			}
		}
	}
	return unlocked
}
