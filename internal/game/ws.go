package game

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"example.com/codenames/internal/auth"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const pingInterval = 25 * time.Second

// handleWS is the websocket entrypoint: /ws/{sessionId}. Identity comes
// from a JWT, either in the Authorization header or in a first
// {"type":"auth","payload":{"token":...}} message after the upgrade.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromWSPath(r.URL.Path)
	if !ok {
		http.Error(w, "bad websocket path", http.StatusBadRequest)
		return
	}

	var claims *auth.Claims
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		c, err := s.verify.Verify(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		claims = c
	}

	sess, found := s.sessions.Get(sessionID)
	if !found {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	cc := newClientConn(ws)

	// Without header auth the first frame must carry the token.
	if claims == nil {
		claims = awaitAuthMessage(ws, s.verify)
		if claims == nil {
			_ = ws.WriteJSON(Envelope{
				Type:    "error",
				Payload: mustJSON(ErrorPayload{Code: "UNAUTHORIZED", Message: "auth required"}),
			})
			cc.Close()
			return
		}
	}

	playerID := claims.UserID
	name := claims.DisplayName
	if name == "" {
		name = "Player"
	}

	if err := sess.Join(playerID, name, cc); err != nil {
		_ = ws.WriteJSON(Envelope{Type: "error", Payload: mustJSON(ErrorPayloadFor(err))})
		cc.Close()
		return
	}

	go writeLoop(cc)
	readLoop(sess, playerID, cc)

	sess.Leave(playerID, cc)
	cc.Close()
}

func awaitAuthMessage(ws *websocket.Conn, verify TokenVerifier) *auth.Claims {
	_ = ws.SetReadDeadline(time.Now().Add(10 * time.Second))
	defer func() { _ = ws.SetReadDeadline(time.Time{}) }()

	_, data, err := ws.ReadMessage()
	if err != nil {
		return nil
	}
	var env Envelope
	if json.Unmarshal(data, &env) != nil || env.Type != "auth" {
		return nil
	}
	var p AuthPayload
	if json.Unmarshal(env.Payload, &p) != nil {
		return nil
	}
	claims, err := verify.Verify(p.Token)
	if err != nil {
		return nil
	}
	return claims
}

func writeLoop(cc *ClientConn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-cc.send:
			if !ok {
				return
			}
			_ = cc.ws.WriteMessage(websocket.TextMessage, msg)
		case <-ticker.C:
			_ = cc.ws.WriteMessage(websocket.PingMessage, []byte{})
		}
	}
}

// readLoop dispatches inbound actions until the socket drops. Failed
// actions are reported back to the sender; they never kill the connection.
func readLoop(sess *Session, playerID string, cc *ClientConn) {
	for {
		_, data, err := cc.ws.ReadMessage()
		if err != nil {
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			cc.Send(Envelope{Type: "error", Payload: mustJSON(ErrorPayload{Code: "BAD_INPUT", Message: "invalid json"})})
			continue
		}

		if env.Type == "leave" {
			return
		}
		if err := dispatch(sess, playerID, env); err != nil {
			sess.SendErrorTo(playerID, err)
		}
	}
}

func dispatch(sess *Session, playerID string, env Envelope) error {
	switch env.Type {
	case "join_slot":
		var p JoinSlotPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return err
		}
		return sess.JoinSlot(playerID, p.Team, p.Index)

	case "ready_change":
		var p ReadyChangePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return err
		}
		return sess.ReadyChange(p.Team, p.Index)

	case "start_match":
		var p StartMatchPayload
		if len(env.Payload) > 0 {
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				return err
			}
		}
		return sess.StartMatch(playerID, p.Preset)

	case "join_match":
		return sess.JoinMatch(playerID)

	case "set_clue":
		var p SetCluePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return err
		}
		return sess.SetClue(playerID, Clue{Word: p.Word, Count: p.Count})

	case "choose_card":
		var p ChooseCardPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return err
		}
		return sess.ChooseCard(playerID, p.Row, p.Col)

	case "end_turn":
		return sess.EndTurn(playerID)

	case "restart_match":
		return sess.RestartMatch(playerID)

	case "reset_session":
		return sess.ResetSession(playerID)

	case "chat_message":
		var p ChatMessagePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return err
		}
		return sess.Chat(playerID, p.Text)

	default:
		return &Error{Code: "UNKNOWN_TYPE", Message: "unknown message type"}
	}
}
