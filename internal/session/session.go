// Package session tracks the signed-in account and user settings. A
// session can be remembered across restarts or held only for the current
// run; settings always persist.
package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/omnimedia/omnihub/internal/domain"
	"github.com/omnimedia/omnihub/internal/store"
)

// Service manages the active session and the settings document.
type Service struct {
	durable   *store.Store
	ephemeral *store.Store
	logger    *slog.Logger
}

func NewService(durable *store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		durable:   durable,
		ephemeral: store.NewMemory(logger),
		logger:    logger,
	}
}

// Login establishes a session for the given account. With remember set the
// session survives restarts; otherwise it lives only until the process
// exits.
func (s *Service) Login(name, email string, role domain.Role, remember bool) (domain.Session, error) {
	if !role.Valid() {
		return domain.Session{}, fmt.Errorf("%w: %q", domain.ErrInvalidRole, role)
	}
	sess := domain.Session{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		Role:      role,
		CreatedAt: time.Now(),
	}
	if sess.Name == "" {
		sess.Name = "Guest"
	}

	// A new login replaces whichever session came before it.
	s.durable.ClearSession()
	s.ephemeral.ClearSession()
	if remember {
		s.durable.SaveSession(sess)
	} else {
		s.ephemeral.SaveSession(sess)
	}
	s.logger.Info("session started", "name", sess.Name, "role", sess.Role, "remembered", remember)
	return sess, nil
}

// Current returns the active session, preferring the in-process one.
func (s *Service) Current() (domain.Session, bool) {
	if sess, ok := s.ephemeral.GetSession(); ok {
		return sess, true
	}
	return s.durable.GetSession()
}

// Logout clears the session wherever it lives.
func (s *Service) Logout() {
	s.durable.ClearSession()
	s.ephemeral.ClearSession()
	s.logger.Info("session ended")
}

// DashboardRoute maps the active role to its landing view. Signed-out
// users land on the public home view.
func (s *Service) DashboardRoute() string {
	sess, ok := s.Current()
	if !ok {
		return "home"
	}
	switch sess.Role {
	case domain.RoleAdmin:
		return "admin"
	case domain.RoleDeveloper:
		return "dev"
	default:
		return "home"
	}
}

// Allowed reports whether the active session may access a view that
// requires the given role. Admins may access everything.
func (s *Service) Allowed(required domain.Role) bool {
	sess, ok := s.Current()
	if !ok {
		return false
	}
	if sess.Role == domain.RoleAdmin {
		return true
	}
	return sess.Role == required
}

// Settings returns the stored settings, normalized, with defaults when
// nothing is stored.
func (s *Service) Settings() domain.Settings {
	settings, ok := s.durable.GetSettings()
	if !ok {
		return domain.DefaultSettings()
	}
	return settings
}

// SaveSettings normalizes and persists the settings document.
func (s *Service) SaveSettings(settings domain.Settings) {
	settings.Normalize()
	s.durable.SaveSettings(settings)
}

// ImportSettings replaces the settings from a raw JSON export. Malformed
// input leaves the stored settings untouched.
func (s *Service) ImportSettings(data []byte) (domain.Settings, error) {
	var settings domain.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return domain.Settings{}, fmt.Errorf("%w: %v", domain.ErrInvalidJSON, err)
	}
	settings.Normalize()
	s.durable.SaveSettings(settings)
	return settings, nil
}

// ExportSettings serializes the current settings for backup.
func (s *Service) ExportSettings() []byte {
	data, err := json.MarshalIndent(s.Settings(), "", "  ")
	if err != nil {
		return nil
	}
	return data
}
