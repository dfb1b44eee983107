package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scenecast/server/internal/repository/token"
)

type repo struct {
	rc             *redis.Client
	expireDuration time.Duration
}

func NewRepo(rc *redis.Client, expireDuration time.Duration) *repo {
	return &repo{
		rc:             rc,
		expireDuration: expireDuration,
	}
}

func (r repo) getConnectTokenKey(connectToken string) string {
	return "connect-token:" + connectToken
}

func (r repo) SetConnectToken(ctx context.Context, params *token.SetConnectTokenParams) error {
	ok, err := r.rc.SetNX(ctx, r.getConnectTokenKey(params.ConnectToken), params.PlayerId, r.expireDuration).Result()
	if err != nil {
		return fmt.Errorf("failed to set connect token: %w", err)
	}

	if !ok {
		return token.ErrTokenAlreadyExists
	}

	return nil
}

// GetPlayerIdByConnectToken consumes a token: it is valid for a single
// connect attempt within its expiry window.
func (r repo) GetPlayerIdByConnectToken(ctx context.Context, connectToken string) (string, error) {
	if connectToken == "" {
		return "", token.ErrTokenNotFound
	}

	playerId, err := r.rc.GetDel(ctx, r.getConnectTokenKey(connectToken)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", token.ErrTokenNotFound
		}

		return "", fmt.Errorf("failed to get connect token: %w", err)
	}

	return playerId, nil
}
