package server

import (
	"net/http"
	"time"

	"hive/communication"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// streamMessage is either the snapshot sent on connect or an update.
type streamMessage struct {
	View   *communication.View   `json:"view,omitempty"`
	Update *communication.Update `json:"update,omitempty"`
}

// handleStream sends the current view and then every update of the game
// until it finishes or the client goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("game", sess.ID).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	updates, unsubscribe := sess.Subscribe()
	defer unsubscribe()

	// reads only serve to notice the client closing
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	view := sess.View()
	if err := write(conn, streamMessage{View: &view}); err != nil {
		return
	}
	for {
		select {
		case <-gone:
			return
		case u, open := <-updates:
			if !open {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game finished"),
					time.Now().Add(writeWait))
				return
			}
			if err := write(conn, streamMessage{Update: &u}); err != nil {
				log.Debug().Err(err).Str("game", sess.ID).Msg("stream closed")
				return
			}
		}
	}
}

func write(conn *websocket.Conn, msg streamMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}
