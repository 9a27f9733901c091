package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/session"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/shared"
)

// SessionRepository mirrors session.Registry state to the player_sessions
// table. The registry itself is the authoritative in-memory structure
// (§4.3/§5); this repository only lets a restarted engine recover an
// approximate online/offline picture instead of starting every player cold,
// so it is driven directly from the composition root rather than through a
// domain port.
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// LoadAll returns every persisted session row, for seeding session.Registry
// at startup.
func (r *SessionRepository) LoadAll(ctx context.Context) ([]session.Session, error) {
	var models []SessionModel
	if result := r.db.WithContext(ctx).Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", result.Error)
	}

	sessions := make([]session.Session, 0, len(models))
	for _, m := range models {
		playerID, err := shared.NewPlayerID(m.PlayerID)
		if err != nil {
			return nil, fmt.Errorf("invalid player id in database: %w", err)
		}
		sessions = append(sessions, session.Session{
			PlayerID:     playerID,
			Name:         m.Name,
			LoginTime:    m.LoginTime,
			LastActivity: m.LastActivity,
			IsOnline:     m.IsOnline,
		})
	}
	return sessions, nil
}

// Upsert persists the current state of a single session.
func (r *SessionRepository) Upsert(ctx context.Context, s session.Session) error {
	model := &SessionModel{
		PlayerID:     s.PlayerID.Value(),
		Name:         s.Name,
		LoginTime:    s.LoginTime,
		LastActivity: s.LastActivity,
		IsOnline:     s.IsOnline,
	}
	if result := r.db.WithContext(ctx).Save(model); result.Error != nil {
		return fmt.Errorf("failed to upsert session for player %s: %w", s.PlayerID.Value(), result.Error)
	}
	return nil
}
