package systems

import (
	"encoding/json"
	"log"
	"strings"

	cfg "github.com/automoto/peerfire/config"
	"github.com/quasilyte/gdata"
)

const profileKey = "profile"

// SavedProfile is the player profile stored on disk
type SavedProfile struct {
	Name        string `json:"name"`
	LastSession string `json:"lastSession"`
	Codec       string `json:"codec"`
	SignalURL   string `json:"signalUrl"`
}

// ProfileStore reads and writes the player profile. A nil store, or one that
// failed to open, silently does nothing so the game runs without saves.
type ProfileStore struct {
	manager *gdata.Manager
}

// OpenProfileStore opens the gdata storage for appName.
func OpenProfileStore(appName string) (*ProfileStore, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
		return nil, err
	}
	return &ProfileStore{manager: m}, nil
}

// Load returns the saved profile, or nil when none was saved yet.
func (s *ProfileStore) Load() (*SavedProfile, error) {
	if s == nil || s.manager == nil {
		return nil, nil
	}

	data, err := s.manager.LoadItem(profileKey)
	if err != nil {
		log.Printf("Warning: Could not load profile: %v", err)
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var p SavedProfile
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("Warning: Could not parse saved profile: %v", err)
		return nil, err
	}
	return &p, nil
}

// Save writes p to disk.
func (s *ProfileStore) Save(p *SavedProfile) error {
	if s == nil || s.manager == nil || p == nil {
		return nil
	}

	data, err := json.Marshal(p)
	if err != nil {
		log.Printf("Warning: Could not serialize profile: %v", err)
		return err
	}

	if err := s.manager.SaveItem(profileKey, data); err != nil {
		log.Printf("Warning: Could not save profile: %v", err)
		return err
	}
	return nil
}

// Clear removes the saved profile.
func (s *ProfileStore) Clear() error {
	if s == nil || s.manager == nil {
		return nil
	}
	return s.manager.DeleteItem(profileKey)
}

// SanitizeName trims a display name and falls back to the default one.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return cfg.Match.DefaultName
	}
	if r := []rune(name); len(r) > cfg.Match.NameMaxLength {
		name = string(r[:cfg.Match.NameMaxLength])
	}
	return name
}
