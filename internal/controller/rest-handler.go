package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/scenecast/server/internal/domain"
	"github.com/scenecast/server/internal/service/player"
	"github.com/scenecast/server/pkg/rest"
)

type createPlayerRequest struct {
	Text      string `json:"text" validate:"required"`
	Template  string `json:"template" validate:"required,oneof=presentation mindmap timeline"`
	FontSize  int    `json:"font_size" validate:"omitempty,gt=0"`
	Color     string `json:"color"`
	Alignment string `json:"alignment" validate:"omitempty,oneof=left center right"`
}

type createPlayerResponse struct {
	PlayerId     string             `json:"player_id"`
	ConnectToken string             `json:"connect_token"`
	State        domain.PlayerState `json:"state"`
}

func (c controller) createPlayer(w http.ResponseWriter, r *http.Request) {
	var req createPlayerRequest

	if err := rest.ReadJSON(r, &req); err != nil {
		c.logger.InfoContext(r.Context(), "failed to read json", "error", err)
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		c.logger.InfoContext(r.Context(), "failed to validate request", "errors", validationErrors)
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	createPlayerResp, err := c.playerService.CreatePlayer(r.Context(), &player.CreatePlayerParams{
		Text:      req.Text,
		Template:  req.Template,
		FontSize:  req.FontSize,
		Color:     req.Color,
		Alignment: req.Alignment,
	})
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to create player", "error", err)
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": createPlayerResponse{
		PlayerId:     createPlayerResp.PlayerId,
		ConnectToken: createPlayerResp.ConnectToken,
		State:        createPlayerResp.State,
	}})
}

type createConnectTokenResponse struct {
	ConnectToken string `json:"connect_token"`
}

func (c controller) createConnectToken(w http.ResponseWriter, r *http.Request) {
	playerId := chi.URLParam(r, "player-id")
	if playerId == "" {
		rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "player not found"})
		return
	}

	createTokenResp, err := c.playerService.CreateConnectToken(r.Context(), playerId)
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to create connect token", "error", err)
		rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": createConnectTokenResponse{
		ConnectToken: createTokenResp.ConnectToken,
	}})
}
