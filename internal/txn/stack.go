package txn

// DefaultLookback is the default dedup window depth.
const DefaultLookback = 5

// State is the view of the store a Stack needs: read the current value of a
// key, and write a value or absence back during rollback.
type State interface {
	Current(key string) (value string, present bool)
	Apply(key, value string, present bool)
}

// UndoRecord captures the value of Key before one mutation.
// Present=false means the key was unset.
type UndoRecord struct {
	Key     string
	Prior   string
	Present bool
}

// session is one nested transaction's undo log, oldest record first.
type session struct {
	id  string
	log []UndoRecord
}

// Stack is the ordered set of open sessions, innermost last.
// Not safe for concurrent use.
type Stack struct {
	state    State
	sessions []*session
	lookback int
	ids      IDGenerator
}

// Option configures a Stack.
type Option func(*Stack) error

// WithLookback sets the dedup window depth. n must be > 1.
func WithLookback(n int) Option {
	return func(s *Stack) error {
		return s.SetLookback(n)
	}
}

// WithIDGenerator overrides the session id generator (UUIDv7 by default).
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Stack) error {
		s.ids = g
		return nil
	}
}

// New creates an empty stack over state.
func New(state State, opts ...Option) (*Stack, error) {
	s := &Stack{
		state:    state,
		lookback: DefaultLookback,
		ids:      UUIDv7Generator{},
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Lookback returns the dedup window depth.
func (s *Stack) Lookback() int {
	return s.lookback
}

// ValidateLookback reports an invalid-lookback error unless n > 1.
func ValidateLookback(n int) error {
	if n <= 1 {
		return newInvalidLookback(n)
	}
	return nil
}

// SetLookback changes the dedup window depth. Existing logs are unaffected.
func (s *Stack) SetLookback(n int) error {
	if err := ValidateLookback(n); err != nil {
		return err
	}
	s.lookback = n
	return nil
}

// Begin pushes a new empty session and returns its id.
func (s *Stack) Begin() string {
	sess := &session{id: s.ids.Generate()}
	s.sessions = append(s.sessions, sess)
	return sess.id
}

// Active reports whether any session is open.
func (s *Stack) Active() bool {
	return len(s.sessions) > 0
}

// Depth returns the number of open sessions.
func (s *Stack) Depth() int {
	return len(s.sessions)
}

// CurrentID returns the innermost session id, or "" when none is open.
func (s *Stack) CurrentID() string {
	if !s.Active() {
		return ""
	}
	return s.top().id
}

// LogLen returns the number of undo records in the innermost session.
func (s *Stack) LogLen() int {
	if !s.Active() {
		return 0
	}
	return len(s.top().log)
}

// Records returns a copy of the innermost session's undo log, oldest first.
func (s *Stack) Records() []UndoRecord {
	if !s.Active() {
		return nil
	}
	out := make([]UndoRecord, len(s.top().log))
	copy(out, s.top().log)
	return out
}

// Record captures the current value of key into the innermost session.
// It must be called before the mutation is applied. No-op without a session.
func (s *Stack) Record(key string) {
	if !s.Active() {
		return
	}
	prior, present := s.state.Current(key)
	rec := UndoRecord{Key: key, Prior: prior, Present: present}
	if !present {
		rec.Prior = ""
	}

	sess := s.top()
	start := len(sess.log) - (s.lookback - 1)
	if start < 0 {
		start = 0
	}
	for _, r := range sess.log[start:] {
		if r == rec {
			return
		}
	}
	sess.log = append(sess.log, rec)
}

// Rollback pops the innermost session and replays its log newest first.
// Returns the popped session id, or ErrNoTransaction if the stack is empty.
func (s *Stack) Rollback() (string, error) {
	if !s.Active() {
		return "", ErrNoTransaction
	}
	sess := s.top()
	s.sessions[len(s.sessions)-1] = nil
	s.sessions = s.sessions[:len(s.sessions)-1]

	for i := len(sess.log) - 1; i >= 0; i-- {
		r := sess.log[i]
		s.state.Apply(r.Key, r.Prior, r.Present)
	}
	return sess.id, nil
}

// Commit discards every open session without replay and returns their ids,
// outermost first.
func (s *Stack) Commit() []string {
	ids := make([]string, len(s.sessions))
	for i, sess := range s.sessions {
		ids[i] = sess.id
	}
	s.sessions = nil
	return ids
}

func (s *Stack) top() *session {
	return s.sessions[len(s.sessions)-1]
}
