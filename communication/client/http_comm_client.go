package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"hive/communication"
	"hive/game"

	"github.com/golang-jwt/jwt/v5"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Kind    string
	Message string
}

func (e *APIError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Kind, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// ClientCommunicator talks to one game on a game server on behalf of one seat.
type ClientCommunicator struct {
	serverURL string
	gameID    string
	token     string
	http      *http.Client
}

var _ communication.Communicator = (*ClientCommunicator)(nil)

// NewClientCommunicator initializes and returns a new ClientCommunicator.
// token may be empty for read-only use.
func NewClientCommunicator(serverURL, gameID, token string) *ClientCommunicator {
	return &ClientCommunicator{
		serverURL: serverURL,
		gameID:    gameID,
		token:     token,
		http:      http.DefaultClient,
	}
}

// CreateGame opens a game on the server.
func CreateGame(ctx context.Context, serverURL string, req communication.CreateRequest) (communication.CreateResponse, error) {
	var resp communication.CreateResponse
	err := do(ctx, http.DefaultClient, http.MethodPost, serverURL+"/games", "", req, &resp)
	return resp, err
}

func (cc *ClientCommunicator) path(suffix string) string {
	return cc.serverURL + "/games/" + cc.gameID + suffix
}

func (cc *ClientCommunicator) GetGame(ctx context.Context) (communication.View, error) {
	var v communication.View
	err := do(ctx, cc.http, http.MethodGet, cc.path(""), "", nil, &v)
	return v, err
}

func (cc *ClientCommunicator) LegalActions(ctx context.Context) ([]game.Action, error) {
	var actions []game.Action
	err := do(ctx, cc.http, http.MethodGet, cc.path("/actions"), "", nil, &actions)
	return actions, err
}

func (cc *ClientCommunicator) SendAction(ctx context.Context, action game.Action) error {
	return do(ctx, cc.http, http.MethodPost, cc.path("/actions"), cc.token, action, nil)
}

func (cc *ClientCommunicator) SendControl(ctx context.Context, kind game.ControlKind) error {
	return do(ctx, cc.http, http.MethodPost, cc.path("/control"), cc.token, communication.ControlRequest{Kind: kind}, nil)
}

// PlayTurn sends a turn in notation and returns the resulting view.
func (cc *ClientCommunicator) PlayTurn(ctx context.Context, piece, position string) (communication.View, error) {
	var v communication.View
	err := do(ctx, cc.http, http.MethodPost, cc.path("/turn"), cc.token, communication.TurnRequest{Piece: piece, Position: position}, &v)
	return v, err
}

func do(ctx context.Context, c *http.Client, method, url, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e communication.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &APIError{Status: resp.StatusCode, Kind: e.Kind, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// SeatColor reads the color a seat token was issued for. The token is not
// verified; only the server can do that.
func SeatColor(token string) (game.Color, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return game.White, fmt.Errorf("parse seat token: %w", err)
	}
	name, _ := claims["color"].(string)
	return game.ParseColor(name)
}
