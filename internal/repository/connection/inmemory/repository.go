package inmemory

import (
	"sync"

	"github.com/gorilla/websocket"
	"golang.org/x/exp/maps"

	"github.com/scenecast/server/internal/repository/connection"
)

// repo tracks which websocket connections are watching which player session.
// A session can have any number of viewers; a connection belongs to exactly
// one session.
type repo struct {
	mu       sync.RWMutex
	connList map[*websocket.Conn]string
	byPlayer map[string]map[*websocket.Conn]struct{}
}

func NewRepo() *repo {
	return &repo{
		connList: make(map[*websocket.Conn]string),
		byPlayer: make(map[string]map[*websocket.Conn]struct{}),
	}
}

func (r *repo) Add(conn *websocket.Conn, playerId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.connList[conn]; ok {
		return connection.ErrAlreadyExists
	}

	r.connList[conn] = playerId
	if r.byPlayer[playerId] == nil {
		r.byPlayer[playerId] = make(map[*websocket.Conn]struct{})
	}
	r.byPlayer[playerId][conn] = struct{}{}

	return nil
}

// RemoveByConn detaches a connection and reports the player id it was
// watching and how many viewers that player has left.
func (r *repo) RemoveByConn(conn *websocket.Conn) (string, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	playerId, ok := r.connList[conn]
	if !ok {
		return "", 0, connection.ErrNotFound
	}

	delete(r.connList, conn)
	delete(r.byPlayer[playerId], conn)

	remaining := len(r.byPlayer[playerId])
	if remaining == 0 {
		delete(r.byPlayer, playerId)
	}

	return playerId, remaining, nil
}

func (r *repo) GetPlayerId(conn *websocket.Conn) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	playerId, ok := r.connList[conn]
	if !ok {
		return "", connection.ErrNotFound
	}

	return playerId, nil
}

func (r *repo) GetConns(playerId string) []*websocket.Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return maps.Keys(r.byPlayer[playerId])
}
