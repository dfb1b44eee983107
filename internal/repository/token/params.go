package token

import "errors"

var (
	ErrTokenAlreadyExists = errors.New("connect token already exists")
	ErrTokenNotFound      = errors.New("connect token not found")
)

type SetConnectTokenParams struct {
	ConnectToken string
	PlayerId     string
}
