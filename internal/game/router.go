package game

// Audience partitions a session's subscribers for fan-out. Match state is
// projected differently per role, so the two role rooms receive different
// payloads for the same event.
type Audience string

const (
	AudienceEveryone    Audience = "everyone"
	AudienceCodemasters Audience = "codemasters"
	AudienceOperatives  Audience = "operatives"
)

// Router is the only component that writes to client send queues. One
// router per session; the owning Session serializes calls, so no lock.
type Router struct {
	subs map[Audience]map[*ClientConn]struct{}
}

func NewRouter() *Router {
	return &Router{subs: map[Audience]map[*ClientConn]struct{}{
		AudienceEveryone:    {},
		AudienceCodemasters: {},
		AudienceOperatives:  {},
	}}
}

func (r *Router) Subscribe(a Audience, cc *ClientConn) {
	r.subs[a][cc] = struct{}{}
}

// Unsubscribe removes the connection from every audience.
func (r *Router) Unsubscribe(cc *ClientConn) {
	for _, room := range r.subs {
		delete(room, cc)
	}
}

// UnsubscribeRoles drops the connection from the two role rooms but keeps
// its session-room membership (used when a match is torn down).
func (r *Router) UnsubscribeRoles(cc *ClientConn) {
	delete(r.subs[AudienceCodemasters], cc)
	delete(r.subs[AudienceOperatives], cc)
}

// Broadcast fans an envelope out to one audience.
func (r *Router) Broadcast(a Audience, env Envelope) {
	for cc := range r.subs[a] {
		cc.Send(env)
	}
}
