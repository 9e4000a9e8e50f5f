package systems

import (
	"encoding/json"
	"fmt"

	"github.com/quasilyte/gdata"
	"github.com/rs/zerolog/log"
)

const progressKey = "progress"

// SavedProgress is the data stored on disk between sessions.
type SavedProgress struct {
	BestLevel   int  `json:"bestLevel"`
	BestScore   int  `json:"bestScore"`
	GamesPlayed int  `json:"gamesPlayed"`
	Completed   bool `json:"completed"`
}

// ItemStore is the part of *gdata.Manager the progress store needs.
type ItemStore interface {
	LoadItem(key string) ([]byte, error)
	SaveItem(key string, data []byte) error
}

// ProgressStore keeps best-level and best-score records. A nil store (no
// persistence available) makes every call a no-op.
type ProgressStore struct {
	store    ItemStore
	progress SavedProgress
}

// OpenProgressStore opens the platform data directory through gdata.
func OpenProgressStore(appName string) (*ProgressStore, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return &ProgressStore{}, fmt.Errorf("open persistence: %w", err)
	}
	return NewProgressStore(m), nil
}

func NewProgressStore(store ItemStore) *ProgressStore {
	return &ProgressStore{store: store}
}

// Load reads saved progress. Missing data is not an error.
func (p *ProgressStore) Load() (SavedProgress, error) {
	if p.store == nil {
		return p.progress, nil
	}
	data, err := p.store.LoadItem(progressKey)
	if err != nil {
		return p.progress, fmt.Errorf("load progress: %w", err)
	}
	if len(data) == 0 {
		return p.progress, nil
	}
	var saved SavedProgress
	if err := json.Unmarshal(data, &saved); err != nil {
		return p.progress, fmt.Errorf("parse progress: %w", err)
	}
	p.progress = saved
	return saved, nil
}

// Progress returns the last loaded or recorded progress.
func (p *ProgressStore) Progress() SavedProgress { return p.progress }

// Record merges one finished game into the saved records and writes them.
func (p *ProgressStore) Record(level, score int, completed bool) error {
	p.progress.GamesPlayed++
	p.progress.BestLevel = max(p.progress.BestLevel, level)
	p.progress.BestScore = max(p.progress.BestScore, score)
	p.progress.Completed = p.progress.Completed || completed
	if p.store == nil {
		return nil
	}
	data, err := json.Marshal(p.progress)
	if err != nil {
		return fmt.Errorf("serialize progress: %w", err)
	}
	if err := p.store.SaveItem(progressKey, data); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	log.Debug().Int("bestLevel", p.progress.BestLevel).Int("bestScore", p.progress.BestScore).Msg("progress saved")
	return nil
}

// Clear forgets every record.
func (p *ProgressStore) Clear() error {
	p.progress = SavedProgress{}
	if p.store == nil {
		return nil
	}
	if err := p.store.SaveItem(progressKey, nil); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	return nil
}
