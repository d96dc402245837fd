package storage

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/charmbracelet/log"
)

// Profile keys.
const (
	KeyCoins         = "coins"
	KeyUnlockedCars  = "unlocked_cars"
	KeySelectedCar   = "selected_car"
	KeyCompletedLvls = "completed_levels"
)

// DefaultCar is unlocked for every new profile.
const DefaultCar = "classic"

// Prefs is the player profile key-value store. Reads fall back to the
// given default and write failures are logged, never returned.
type Prefs struct {
	store  *Store
	logger *log.Logger
}

// Prefs returns the profile store. A nil logger discards failures.
func (s *Store) Prefs(logger *log.Logger) *Prefs {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Prefs{store: s, logger: logger}
}

// Get returns the value of key, or def when unset or unreadable.
func (p *Prefs) Get(key, def string) string {
	var value string
	err := p.store.db.QueryRow("SELECT value FROM prefs WHERE key = ?", key).Scan(&value)
	if err != nil {
		return def
	}
	return value
}

// Set stores value under key.
func (p *Prefs) Set(key, value string) {
	_, err := p.store.db.Exec(
		`INSERT INTO prefs (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		p.logger.Warn("storage: cannot save preference", "key", key, "err", err)
	}
}

// getJSON decodes key into v, leaving v untouched on any failure.
func (p *Prefs) getJSON(key string, v any) {
	raw := p.Get(key, "")
	if raw == "" {
		return
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		p.logger.Warn("storage: ignoring corrupt preference", "key", key, "err", err)
	}
}

func (p *Prefs) setJSON(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		p.logger.Warn("storage: cannot encode preference", "key", key, "err", err)
		return
	}
	p.Set(key, string(data))
}

// Coins returns the coin balance.
func (p *Prefs) Coins() int {
	n, err := strconv.Atoi(p.Get(KeyCoins, "0"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// AddCoins adds n coins to the balance and returns the new balance, which
// never drops below zero. The update is a single statement, so concurrent
// sessions sharing a profile do not lose coins.
func (p *Prefs) AddCoins(n int) int {
	var balance int
	err := p.store.db.QueryRow(
		`INSERT INTO prefs (key, value) VALUES (?, MAX(?, 0))
		 ON CONFLICT(key) DO UPDATE SET
			value = MAX(CAST(value AS INTEGER) + ?, 0),
			updated_at = CURRENT_TIMESTAMP
		 RETURNING CAST(value AS INTEGER)`,
		KeyCoins, n, n,
	).Scan(&balance)
	if err != nil {
		p.logger.Warn("storage: cannot update coins", "delta", n, "err", err)
		return p.Coins()
	}
	return balance
}

// UnlockedCars returns the unlocked car IDs, always including DefaultCar.
func (p *Prefs) UnlockedCars() []string {
	cars := []string{DefaultCar}
	p.getJSON(KeyUnlockedCars, &cars)
	for _, c := range cars {
		if c == DefaultCar {
			return cars
		}
	}
	return append([]string{DefaultCar}, cars...)
}

// UnlockCar adds a car to the unlocked list.
func (p *Prefs) UnlockCar(id string) {
	cars := p.UnlockedCars()
	for _, c := range cars {
		if c == id {
			return
		}
	}
	p.setJSON(KeyUnlockedCars, append(cars, id))
}

// SelectedCar returns the selected car ID.
func (p *Prefs) SelectedCar() string {
	return p.Get(KeySelectedCar, DefaultCar)
}

// SelectCar selects an unlocked car. Locked cars are ignored.
func (p *Prefs) SelectCar(id string) bool {
	for _, c := range p.UnlockedCars() {
		if c == id {
			p.Set(KeySelectedCar, id)
			return true
		}
	}
	return false
}

// CompletedLevels returns the level completion map.
func (p *Prefs) CompletedLevels() map[string]bool {
	levels := make(map[string]bool)
	p.getJSON(KeyCompletedLvls, &levels)
	return levels
}

// MarkLevelComplete records a completed level.
func (p *Prefs) MarkLevelComplete(level string) {
	levels := p.CompletedLevels()
	if levels[level] {
		return
	}
	levels[level] = true
	p.setJSON(KeyCompletedLvls, levels)
}
