package session

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/shared"
)

// OnChange is invoked with a copy of a session immediately after it is
// created or updated, so the composition root can mirror it to durable
// storage without the registry itself depending on a repository port.
type OnChange func(Session)

// Registry tracks online players in memory with an upsert-then-merge
// pattern. It is a process-wide singleton mutated by login/activity/logout
// events and read by the pricing engine and the transaction executor.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	tiers    Tiers
	clock    shared.Clock
	onChange OnChange
}

// NewRegistry builds an empty session registry. onChange, if non-nil, is
// called after every mutation (see OnChange); a nil onChange is a no-op.
func NewRegistry(tiers Tiers, clock shared.Clock, onChange OnChange) *Registry {
	if onChange == nil {
		onChange = func(Session) {}
	}
	return &Registry{
		sessions: make(map[string]*Session),
		tiers:    tiers,
		clock:    clock,
		onChange: onChange,
	}
}

// Seed hydrates the registry from persisted rows at startup (§5's
// "persisted asynchronously ... for observability/recovery"). Sessions are
// loaded offline regardless of their persisted IsOnline flag: a restart
// always starts from a clean online count, rebuilt as players reconnect.
func (r *Registry) Seed(sessions []Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range sessions {
		s := sessions[i]
		s.IsOnline = false
		r.sessions[s.PlayerID.Value()] = &s
	}
}

// OnLogin creates or refreshes a session: login_time=now, is_online=true,
// weight reset to the instant tier (§4.3).
func (r *Registry) OnLogin(playerID shared.PlayerID, name string, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := &Session{
		PlayerID:     playerID,
		Name:         name,
		LoginTime:    now,
		LastActivity: now,
		IsOnline:     true,
		weight:       r.tiers.Instant,
	}
	r.sessions[playerID.Value()] = s
	r.onChange(*s)
}

// OnActivity updates last_activity and recomputes the session-weight tier
// from the elapsed time since login.
func (r *Registry) OnActivity(playerID shared.PlayerID, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[playerID.Value()]
	if !ok {
		s = &Session{PlayerID: playerID, LoginTime: now, IsOnline: true}
		r.sessions[playerID.Value()] = s
	}
	s.LastActivity = now
	s.IsOnline = true
	s.weight = tierFor(r.tiers, now.Sub(s.LoginTime))
	r.onChange(*s)
}

// OnLogout marks a session offline, freezing its last computed weight.
func (r *Registry) OnLogout(playerID shared.PlayerID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[playerID.Value()]; ok {
		s.IsOnline = false
		r.onChange(*s)
	}
}

// OnlineCount returns the number of sessions currently marked online.
func (r *Registry) OnlineCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, s := range r.sessions {
		if s.IsOnline {
			count++
		}
	}
	return count
}

// WeightFor returns the session weight for playerID as of atTime. An
// unknown player yields the instant tier, per §4.3.
func (r *Registry) WeightFor(playerID shared.PlayerID, atTime time.Time) decimal.Decimal {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[playerID.Value()]
	if !ok {
		return r.tiers.Instant
	}
	return tierFor(r.tiers, atTime.Sub(s.LoginTime))
}

// Get returns a copy of a player's session, if known.
func (r *Registry) Get(playerID shared.PlayerID) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[playerID.Value()]
	if !ok {
		return Session{}, false
	}
	return *s, true
}
