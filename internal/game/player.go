package game

// Role is what a seated player does during a match.
type Role string

const (
	RoleCodemaster Role = "CODEMASTER"
	RoleOperative  Role = "OPERATIVE"
)

// Player is one participant, identified by the authenticated user id of
// its connection. Team is set when the player takes a slot; Role is derived
// from the slot index when a match starts (slot 0 is the codemaster).
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Team Team   `json:"team,omitempty"`
	Role Role   `json:"role,omitempty"`
}
