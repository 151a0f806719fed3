package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
)

// GameMode says who sits at each side of the board.
type GameMode int

const (
	ModePlayerVsPlayer GameMode = iota
	ModePlayerVsAgent
	ModeAgentVsAgent
)

func (m GameMode) String() string {
	switch m {
	case ModePlayerVsPlayer:
		return "pvp"
	case ModePlayerVsAgent:
		return "pva"
	case ModeAgentVsAgent:
		return "ava"
	}
	return fmt.Sprintf("GameMode(%d)", int(m))
}

// ParseGameMode parses the short names printed by GameMode.String.
func ParseGameMode(s string) (GameMode, error) {
	for m := ModePlayerVsPlayer; m <= ModeAgentVsAgent; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown game mode %q", s)
}

// PlayerColor represents which color the human plays
type PlayerColor int

const (
	ColorWhite PlayerColor = iota
	ColorBlack
)

// UserPreferences stores the settings of the last session.
type UserPreferences struct {
	Username    string        `json:"username"`
	GameMode    GameMode      `json:"game_mode"`
	PlayerColor PlayerColor   `json:"player_color"`
	MaxDepth    int           `json:"max_depth"`
	MoveTime    time.Duration `json:"move_time"`
	TotalTime   time.Duration `json:"total_time"`
	HashMB      int           `json:"hash_mb"`
	LastPlayed  time.Time     `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		Username:    "Player",
		GameMode:    ModePlayerVsAgent,
		PlayerColor: ColorWhite,
		MaxDepth:    12,
		MoveTime:    5 * time.Second,
		TotalTime:   5 * time.Minute,
		HashMB:      16,
		LastPlayed:  time.Now(),
	}
}

// GameStats stores game statistics. Pawn games cannot be drawn.
type GameStats struct {
	GamesPlayed    int            `json:"games_played"`
	Wins           int            `json:"wins"`
	Losses         int            `json:"losses"`
	WinsByMode     map[string]int `json:"wins_by_mode"`
	WinsByReason   map[string]int `json:"wins_by_reason"`
	TotalPlayTime  time.Duration  `json:"total_play_time"`
	TotalPlies     int            `json:"total_plies"`
	LongestWinStrk int            `json:"longest_win_streak"`
	CurrentStreak  int            `json:"current_streak"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		WinsByMode:   make(map[string]int),
		WinsByReason: make(map[string]int),
	}
}

// GameResult is what gets recorded about a finished game. Won is from the
// point of view of the user, or of White when nobody at the board is human.
type GameResult struct {
	Won      bool
	Mode     GameMode
	Reason   string
	Plies    int
	Duration time.Duration
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens (creating if needed) the database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = badgerLogger{log.Logger.With().Str("component", "badger").Logger()}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", dir, err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()
	return s.put(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()
	err := s.get(keyPreferences, prefs)
	return prefs, err
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.put(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	err := s.get(keyStats, stats)
	return stats, err
}

// RecordGame records a completed game and updates statistics
func (s *Storage) RecordGame(result GameResult) (*GameStats, error) {
	stats, err := s.LoadStats()
	if err != nil {
		return nil, err
	}

	stats.GamesPlayed++
	stats.TotalPlayTime += result.Duration
	stats.TotalPlies += result.Plies

	if result.Won {
		stats.Wins++
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.LongestWinStrk {
			stats.LongestWinStrk = stats.CurrentStreak
		}
		stats.WinsByMode[result.Mode.String()]++
		if result.Reason != "" {
			stats.WinsByReason[result.Reason]++
		}
	} else {
		stats.Losses++
		stats.CurrentStreak = 0
	}

	return stats, s.SaveStats(stats)
}

// GetWinRate returns the win rate as a percentage (0-100)
func (s *GameStats) GetWinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get decodes key into v, leaving v untouched when the key is missing.
func (s *Storage) get(key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

// badgerLogger routes badger's messages to zerolog. Badger is chatty at info
// level, so that goes to debug.
type badgerLogger struct {
	zl zerolog.Logger
}

func (l badgerLogger) Errorf(f string, args ...any)   { l.zl.Error().Msgf(f, args...) }
func (l badgerLogger) Warningf(f string, args ...any) { l.zl.Warn().Msgf(f, args...) }
func (l badgerLogger) Infof(f string, args ...any)    { l.zl.Debug().Msgf(f, args...) }
func (l badgerLogger) Debugf(f string, args ...any)   { l.zl.Trace().Msgf(f, args...) }
