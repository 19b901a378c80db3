package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds CLI configuration
type Config struct {
	ServerURL   string
	SessionFile string
	Output      string
	Verbose     bool

	// Session is the saved join state, if any
	Session Session
}

// Session is the locally persisted player identity from the last join
type Session struct {
	PlayerID int64  `json:"player_id"`
	Name     string `json:"name"`
	RoomID   int    `json:"room_id"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:   getEnvOrDefault("BOTORNOT_SERVER", "http://localhost:8080"),
		SessionFile: getEnvOrDefault("BOTORNOT_SESSION_FILE", defaultSessionFile()),
		Output:      "text",
		Verbose:     false,
	}
}

// LoadSession loads the saved session from file if one exists
func (c *Config) LoadSession() error {
	data, err := os.ReadFile(c.SessionFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // never joined, that's fine
		}
		return err
	}
	return json.Unmarshal(data, &c.Session)
}

// SaveSession persists the session to the session file
func (c *Config) SaveSession(s Session) error {
	c.Session = s

	dir := filepath.Dir(c.SessionFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(c.SessionFile, data, 0600)
}

// ClearSession removes the saved session
func (c *Config) ClearSession() error {
	c.Session = Session{}
	err := os.Remove(c.SessionFile)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".botornot/session"
	}
	return filepath.Join(home, ".botornot", "session")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
