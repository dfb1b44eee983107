package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenecast/server/internal/analyzer"
	connInmemory "github.com/scenecast/server/internal/repository/connection/inmemory"
	sessionInmemory "github.com/scenecast/server/internal/repository/session/inmemory"
	tokenRedis "github.com/scenecast/server/internal/repository/token/redis"
	"github.com/scenecast/server/internal/service/player"
)

func newTestPlayerService(t *testing.T) iPlayerService {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	return player.NewService(
		sessionInmemory.NewRepo(),
		connInmemory.NewRepo(),
		tokenRedis.NewRepo(rc, 10*time.Minute),
		analyzer.NewClient("http://127.0.0.1:0", time.Second),
		&player.Config{
			CanvasWidth:   800,
			CanvasHeight:  600,
			ScenesLimit:   25,
			DefaultStepMs: 500,
			AllowedSpeeds: []float64{0.5, 1, 1.5, 2},
		},
	)
}

func createPlayerOverREST(t *testing.T, srvURL string) (playerId, connectToken string) {
	t.Helper()

	body := `{"text":"Title\nSubtitle\nfirst point\nsecond point","template":"presentation"}`
	resp, err := http.Post(srvURL+"/api/v1/player/create", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var created struct {
		Data struct {
			PlayerId     string `json:"player_id"`
			ConnectToken string `json:"connect_token"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created.Data.PlayerId)
	require.NotEmpty(t, created.Data.ConnectToken)

	return created.Data.PlayerId, created.Data.ConnectToken
}

// Frames stream from the pump goroutine while control messages are answered
// from the read-loop goroutine; both write to the same conn and must not
// trip over each other.
func TestControlMessagesDuringFrameStream(t *testing.T) {
	service := newTestPlayerService(t)
	c := NewController(service, slog.Default(), time.Millisecond)

	srv := httptest.NewServer(c.GetMux())
	defer srv.Close()

	playerId, connectToken := createPlayerOverREST(t, srv.URL)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") +
		"/api/v1/player/" + playerId + "/connect?connect-token=" + connectToken
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	frames := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg struct {
				Type string `json:"type"`
			}
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Type == "FRAME" {
				select {
				case frames <- struct{}{}:
				default:
				}
			}
		}
	}()

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "PLAY"}))

	for i := 0; i < 500; i++ {
		require.NoError(t, conn.WriteJSON(map[string]any{
			"type":    "SEEK",
			"payload": map[string]any{"position_ms": i},
		}))
	}

	select {
	case <-frames:
	case <-time.After(2 * time.Second):
		t.Fatal("no frame received while playing")
	}

	conn.Close()
	<-done

	// The last viewer leaving stops the pump and tears the session down.
	assert.Eventually(t, func() bool {
		_, err := service.GetState(context.Background(), playerId)
		return errors.Is(err, player.ErrPlayerNotFound)
	}, 2*time.Second, 10*time.Millisecond, "session must be removed after the last viewer leaves")
}

func TestBroadcastReachesRemainingConns(t *testing.T) {
	upgrader := websocket.Upgrader{}
	serverConns := make(chan *websocket.Conn, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverConns <- conn
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	client1, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	dead := <-serverConns

	client2, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer client2.Close()
	live := <-serverConns

	dead.Close()
	client1.Close()

	c := controller{logger: slog.Default(), writes: newWriteLocks()}
	c.broadcast(context.Background(), []*websocket.Conn{dead, live}, &Output{Type: "FRAME"})

	var msg struct {
		Type string `json:"type"`
	}
	require.NoError(t, client2.ReadJSON(&msg), "the conn after a dead one must still be written")
	assert.Equal(t, "FRAME", msg.Type)
}
