package game

import "encoding/json"

// Envelope WS envelope: {"type":"...","payload":{...}}
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound payloads.

type AuthPayload struct {
	Token string `json:"token"`
}

type JoinSlotPayload struct {
	Team  Team `json:"team"`
	Index int  `json:"index"`
}

type ReadyChangePayload struct {
	Team  Team `json:"team"`
	Index int  `json:"index"`
}

type SetCluePayload struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type ChooseCardPayload struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type ChatMessagePayload struct {
	Text string `json:"text"`
}

type StartMatchPayload struct {
	// Preset selects the fixed fixture board instead of a random deal.
	Preset bool `json:"preset,omitempty"`
}

// Outbound payloads.

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type LobbyPlayer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type LobbySlot struct {
	Index  int          `json:"index"`
	Ready  bool         `json:"ready"`
	Player *LobbyPlayer `json:"player,omitempty"`
}

// LobbyState is broadcast to the whole session room.
type LobbyState struct {
	SessionID  string      `json:"sessionId"`
	Name       string      `json:"name"`
	MaxPlayers int         `json:"maxPlayers"`
	RedTeam    []LobbySlot `json:"redTeam"`
	BlueTeam   []LobbySlot `json:"blueTeam"`
	InProgress bool        `json:"inProgress"`
}

// MatchState is broadcast per role room; the board inside is projected for
// that role.
type MatchState struct {
	MatchID          string   `json:"matchId"`
	Phase            Phase    `json:"phase"`
	StartingTeam     Team     `json:"startingTeam"`
	CurrentTeam      Team     `json:"currentTeam"`
	Clue             *Clue    `json:"clue,omitempty"`
	GuessesRemaining int      `json:"guessesRemaining"`
	RedRemaining     int      `json:"redRemaining"`
	BlueRemaining    int      `json:"blueRemaining"`
	Winner           Team     `json:"winner,omitempty"`
	Players          []Player `json:"players"`
	Board            Board    `json:"board"`
}

// MatchJoined acks a join_match with the caller's own seat.
type MatchJoined struct {
	MatchID string `json:"matchId"`
	You     Player `json:"you"`
}

// ChatBroadcast relays a chat message to the session room.
type ChatBroadcast struct {
	From string `json:"from"`
	Text string `json:"text"`
}

// SessionSummary is one row of the session browser list.
type SessionSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	InProgress bool   `json:"inProgress"`
}

func mustJSON(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}
