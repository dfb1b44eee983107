package inmemory

import (
	"sync"

	"github.com/scenecast/server/internal/repository/session"
	"github.com/scenecast/server/internal/timeline"
)

// repo holds the live player sessions. Sessions are in-process objects (each
// owns a running clock), so there is no persistent backend behind them; they
// exist exactly as long as the server does.
type repo struct {
	mu       sync.RWMutex
	sessions map[string]*timeline.Player
}

func NewRepo() *repo {
	return &repo{sessions: make(map[string]*timeline.Player)}
}

func (r *repo) Add(playerId string, player *timeline.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[playerId]; ok {
		return session.ErrAlreadyExists
	}

	r.sessions[playerId] = player

	return nil
}

func (r *repo) Get(playerId string) (*timeline.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	player, ok := r.sessions[playerId]
	if !ok {
		return nil, session.ErrNotFound
	}

	return player, nil
}

func (r *repo) Remove(playerId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[playerId]; !ok {
		return session.ErrNotFound
	}

	delete(r.sessions, playerId)

	return nil
}
