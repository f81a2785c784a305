package facts

// State is the fact lifecycle of the current selection.
type State int

const (
	StateIdle State = iota
	StatePending
	StateReady
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	default:
		return "idle"
	}
}

// Token identifies one fact request. A response is only accepted while its
// token is still the tracker's current one.
type Token struct {
	BodyID string
	Seq    uint64
}

// Tracker holds the fact shown for the selected body and rejects responses
// that arrive after the selection moved on. It is owned by a single
// goroutine.
type Tracker struct {
	seq     uint64
	current Token
	state   State
	text    string
}

// Begin starts a request for bodyID and returns its token. Any request
// still in flight becomes stale.
func (t *Tracker) Begin(bodyID string) Token {
	t.seq++
	t.current = Token{BodyID: bodyID, Seq: t.seq}
	t.state = StatePending
	t.text = ""
	return t.current
}

// Resolve stores text if tok is current and pending. It reports false for
// stale responses, which are dropped.
func (t *Tracker) Resolve(tok Token, text string) bool {
	if t.state != StatePending || tok != t.current {
		return false
	}
	t.state = StateReady
	t.text = text
	return true
}

// Reset forgets the fact and invalidates outstanding requests. Call it
// whenever the selection changes.
func (t *Tracker) Reset() {
	t.seq++
	t.current = Token{}
	t.state = StateIdle
	t.text = ""
}

// State returns the lifecycle state.
func (t *Tracker) State() State {
	return t.state
}

// Text returns the resolved fact, or "".
func (t *Tracker) Text() string {
	return t.text
}

// Current returns the token of the latest request.
func (t *Tracker) Current() Token {
	return t.current
}
