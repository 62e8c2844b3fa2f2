package elector

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/arloliu/elector/internal/election"
	"github.com/arloliu/elector/internal/hooks"
	"github.com/arloliu/elector/internal/logger"
	"github.com/arloliu/elector/internal/logging"
	"github.com/arloliu/elector/internal/metrics"
	"github.com/arloliu/elector/types"
)

const tracerName = "github.com/arloliu/elector"

// errDisconnecting marks work abandoned because teardown began. It never
// reaches the caller through hooks or subscribers.
var errDisconnecting = errors.New("session is disconnecting")

// Snapshot is a consistent point-in-time view of a session.
type Snapshot struct {
	ElectionPath string     `json:"electionPath"`
	CandidateID  string     `json:"candidateId"`
	InstanceID   string     `json:"instanceId"`
	Phase        Phase      `json:"-"`
	PhaseName    string     `json:"phase"`
	Leadership   Leadership `json:"-"`
	IsLeader     bool       `json:"isLeader"`
	Leader       string     `json:"leader"`
	Watching     string     `json:"watching"`
	Candidates   []string   `json:"candidates"`
	Fingerprint  uint64     `json:"fingerprint"`
}

// Session is one participant in one election.
//
// A Session registers an ephemeral-sequential candidate node under the
// election path, watches only its immediate predecessor and reports every
// leadership flip exactly once.
//
// Thread Safety:
//   - All public methods are safe for concurrent use
//   - Candidate, leadership and error hooks, subscriber events and
//     announcements are serialized and stop once Disconnect begins
//   - OnPhaseChanged calls are serialized separately, in transition order, and
//     also report PhaseDisconnecting and PhaseDisconnected
//   - Hooks must not call Disconnect synchronously
//
// Lifecycle:
//   - Create with NewSession()
//   - Call Connect() to register and determine initial leadership
//   - React to transitions with Hooks or Subscribe()
//   - Call Disconnect() to remove the candidate node
//
// A Session is single use. After Disconnect (or a protocol failure) create a
// new Session to rejoin the election.
type Session struct {
	cfg          Config
	conn         Connection
	electionPath string
	prefix       string
	instanceID   string

	hooks     Hooks
	metrics   MetricsCollector
	logger    Logger
	announcer Announcer
	tracer    trace.Tracer

	decider *election.Decider

	// Lifecycle, guarded by mu
	mu               sync.Mutex
	client           TreeClient
	tree             TreeClient
	connected        bool
	disconnectCalled bool

	ctx         context.Context
	cancel      context.CancelFunc
	connectDone chan struct{}
	done        chan struct{}
	doneOnce    sync.Once

	// registerStarted is set once a candidate create may have been sent.
	registerStarted atomic.Bool

	// teardownErr is written before teardownDone is closed.
	teardownDone chan struct{}
	teardownErr  error

	// emitMu serializes hooks, subscriber fan-out and announcements.
	// disconnecting is only ever set while holding it.
	emitMu        sync.Mutex
	disconnecting atomic.Bool

	// phaseHookMu orders phase transitions with their OnPhaseChanged calls.
	// Lock order: emitMu, then phaseHookMu, then phaseMu.
	phaseHookMu sync.Mutex
	phaseMu     sync.Mutex
	phase       Phase

	stateMu     sync.RWMutex
	candidateID string
	candidates  []string
	watching    string
	fingerprint uint64

	subscribers      *xsync.Map[uint64, *subscriber]
	nextSubscriberID atomic.Uint64
}

// NewSession creates a new election session.
//
// Returns a concrete *Session struct following the "accept interfaces, return
// structs" principle. Nothing touches the coordination service until Connect.
//
// Parameters:
//   - cfg: Session configuration (defaults are applied to missing fields)
//   - conn: Connection built with Dial, Shared or ConnectionFromConfig
//   - opts: Optional configuration (hooks, metrics, logger, announcer, tracer)
//
// Returns:
//   - *Session: Initialized session
//   - error: ErrInvalidConfig or ErrConnectionRequired
//
// Example:
//
//	cfg := elector.DefaultConfig()
//	cfg.ElectionPath = "/services/billing/leader"
//	conn, _ := elector.ConnectionFromConfig(&cfg)
//	session, err := elector.NewSession(&cfg, conn, elector.WithHooks(hooks))
func NewSession(cfg *Config, conn Connection, opts ...Option) (*Session, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if conn.IsZero() {
		return nil, ErrConnectionRequired
	}

	c := *cfg
	c.Servers = slices.Clone(cfg.Servers)
	SetDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, err
	}

	options := &sessionOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Provide safe defaults for optional dependencies to avoid nil checks everywhere
	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	var baseLogger Logger = options.logger
	if baseLogger == nil {
		baseLogger = logger.NewNop()
	}

	c.ValidateWithWarnings(baseLogger)

	tp := options.tracerProvider
	if tp == nil {
		tp = noop.NewTracerProvider()
	}

	instanceID := options.instanceID
	if instanceID == "" {
		instanceID = uuid.NewString()
	}

	s := &Session{
		cfg:          c,
		conn:         conn,
		electionPath: c.ElectionPath,
		prefix:       c.CandidatePrefix,
		instanceID:   instanceID,
		hooks:        hooks.Fill(options.hooks),
		metrics:      metricsCollector,
		logger:       logging.With(baseLogger, "election_path", c.ElectionPath, "instance_id", instanceID),
		announcer:    options.announcer,
		tracer:       tp.Tracer(tracerName),
		decider:      election.NewDecider(),
		phase:        PhaseInit,
		connectDone:  make(chan struct{}),
		done:         make(chan struct{}),
		teardownDone: make(chan struct{}),
		subscribers:  xsync.NewMap[uint64, *subscriber](),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	return s, nil
}

// Connect joins the election.
//
// Connect dials the client (owned connections only), registers the candidate
// node, lists and ranks the candidates, arms the predecessor watch and reports
// the initial leadership before returning. The watch loop then keeps running in
// the background until Disconnect or a protocol failure.
//
// Every protocol error is also delivered through Hooks.OnError and an
// EventError notification. A registration failure happens before any
// candidate id, leader or follower notification.
//
// Parameters:
//   - ctx: Context bounding the connect sequence (not the session lifetime)
//
// Returns:
//   - error: ErrAlreadyConnected, a *CoordinationError, ErrSiblingVanished or ErrSelfNotFound
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.connected {
		s.mu.Unlock()

		return ErrAlreadyConnected
	}
	s.connected = true
	s.mu.Unlock()

	loopStarted := false
	defer func() {
		if !loopStarted {
			s.closeDone()
		}
		close(s.connectDone)
	}()

	// Operations observe both the caller's ctx and teardown.
	opCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	s.setPhase(PhaseConnecting)

	client, err := s.conn.open(opCtx, s.logger)
	if err != nil {
		return s.connectFailed(types.NewCoordinationError("connect", s.electionPath, err))
	}

	s.mu.Lock()
	s.client = client
	s.tree = instrumentedTree{TreeClient: client, metrics: s.metrics}
	s.mu.Unlock()

	if err := s.register(opCtx); err != nil {
		return s.connectFailed(err)
	}

	watch, err := s.relist(opCtx)
	if err != nil {
		return s.connectFailed(err)
	}

	loopStarted = true
	go s.watchLoop(watch)

	return nil
}

// connectFailed surfaces a connect error unless teardown caused it.
func (s *Session) connectFailed(err error) error {
	if s.disconnecting.Load() || errors.Is(err, errDisconnecting) {
		return ErrAlreadyDisconnected
	}
	s.fail(err)

	return err
}

// register runs the Registrar and announces the candidate id.
func (s *Session) register(ctx context.Context) error {
	if s.disconnecting.Load() {
		return errDisconnecting
	}
	s.setPhase(PhaseRegistering)

	ctx, span := s.tracer.Start(ctx, "elector.register",
		trace.WithAttributes(attribute.String("elector.election_path", s.electionPath)))
	defer span.End()

	s.registerStarted.Store(true)
	id, err := election.Register(ctx, s.tree, s.electionPath, s.prefix, []byte(s.instanceID))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "register failed")

		return err
	}
	span.SetAttributes(attribute.String("elector.candidate_id", id))

	s.stateMu.Lock()
	s.candidateID = id
	s.stateMu.Unlock()

	s.logger.Info("candidate registered", "candidate_id", id)

	s.emitMu.Lock()
	defer s.emitMu.Unlock()
	if s.disconnecting.Load() {
		return errDisconnecting
	}
	if err := s.hooks.OnCandidateID(s.ctx, id); err != nil {
		s.logger.Error("candidate id hook error", "candidate_id", id, "error", err)
	}
	s.publish(Event{Type: EventCandidateID, CandidateID: id, At: time.Now()})

	return nil
}

// relist runs one list, rank, arm and decide cycle.
//
// Returns the watch the loop waits on next: the predecessor's existence watch,
// or the child-set watch when this session ranks first.
func (s *Session) relist(ctx context.Context) (<-chan types.TreeEvent, error) {
	if s.disconnecting.Load() {
		return nil, errDisconnecting
	}
	s.setPhase(PhaseListing)

	self := s.CandidateID()
	ctx, span := s.tracer.Start(ctx, "elector.relist", trace.WithAttributes(
		attribute.String("elector.election_path", s.electionPath),
		attribute.String("elector.candidate_id", self),
	))
	defer span.End()

	start := time.Now()

	ids, childWatch, err := election.List(ctx, s.tree, s.electionPath, s.prefix)
	if err != nil {
		return nil, s.spanError(span, err)
	}
	if s.disconnecting.Load() {
		return nil, errDisconnecting
	}

	sorted, predecessor, err := election.Resolve(ids, self)
	if err != nil {
		if s.disconnecting.Load() {
			return nil, errDisconnecting
		}

		return nil, s.spanError(span, err)
	}

	s.setPhase(PhaseWatching)

	watch := childWatch
	if predecessor != "" {
		watch, err = election.ArmWatch(ctx, s.tree, s.electionPath, predecessor)
		if err != nil {
			if s.disconnecting.Load() {
				return nil, errDisconnecting
			}

			return nil, s.spanError(span, err)
		}
	}
	if s.disconnecting.Load() {
		return nil, errDisconnecting
	}

	fingerprint := election.Fingerprint(sorted)
	s.stateMu.Lock()
	s.candidates = sorted
	s.watching = predecessor
	s.fingerprint = fingerprint
	s.stateMu.Unlock()

	s.metrics.RecordRelist(time.Since(start).Seconds(), len(sorted))
	span.SetAttributes(
		attribute.Int("elector.candidates", len(sorted)),
		attribute.String("elector.watching", predecessor),
	)
	s.logger.Debug("candidates ranked",
		"candidate_id", self,
		"candidates", len(sorted),
		"leader", election.Leader(sorted),
		"watching", predecessor,
	)

	s.decide(ctx, sorted, fingerprint)

	return watch, nil
}

// decide runs the Leadership Decider and emits a transition if leadership flipped.
func (s *Session) decide(ctx context.Context, sorted []string, fingerprint uint64) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	if s.disconnecting.Load() {
		return
	}

	self := s.CandidateID()
	transition := s.decider.Decide(sorted, self)

	if s.decider.State() == LeadershipLeader {
		s.setPhase(PhaseLeader)
	} else {
		s.setPhase(PhaseFollower)
	}

	if transition == election.NoTransition {
		return
	}

	leader := transition == election.BecameLeader
	s.metrics.RecordLeadershipChange(self, leader)
	s.logger.Info("leadership changed",
		"candidate_id", self,
		"role", transition.String(),
		"leader", election.Leader(sorted),
		"candidates", len(sorted),
	)

	ev := Event{Type: EventFollower, CandidateID: self, Candidates: slices.Clone(sorted), At: time.Now()}
	if leader {
		ev.Type = EventLeader
		if err := s.hooks.OnLeader(s.ctx, self); err != nil {
			s.logger.Error("leader hook error", "candidate_id", self, "error", err)
		}
	} else {
		if err := s.hooks.OnFollower(s.ctx, self); err != nil {
			s.logger.Error("follower hook error", "candidate_id", self, "error", err)
		}
	}
	s.publish(ev)

	s.announce(ctx, Announcement{
		ElectionPath: s.electionPath,
		CandidateID:  self,
		InstanceID:   s.instanceID,
		Leader:       leader,
		Candidates:   ev.Candidates,
		Fingerprint:  fingerprint,
		At:           ev.At,
	})
}

// announce hands a transition to the announcer. Failures are logged and counted only.
func (s *Session) announce(ctx context.Context, a Announcement) {
	if s.announcer == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.OperationTimeout)
	defer cancel()

	err := s.announcer.Announce(ctx, a)
	s.metrics.RecordAnnounce(err == nil)
	if err != nil {
		s.logger.Warn("announce failed", "candidate_id", a.CandidateID, "leader", a.Leader, "error", err)
	}
}

// retract lets the announcer drop the leader record of a departing leader.
func (s *Session) retract(ctx context.Context) {
	r, ok := s.announcer.(types.Retracter)
	if !ok || s.decider.State() != LeadershipLeader {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.OperationTimeout)
	defer cancel()

	err := r.Retract(ctx, Announcement{
		ElectionPath: s.electionPath,
		CandidateID:  s.CandidateID(),
		InstanceID:   s.instanceID,
		Candidates:   s.Candidates(),
		At:           time.Now(),
	})
	s.metrics.RecordAnnounce(err == nil)
	if err != nil {
		s.logger.Warn("retract failed", "candidate_id", s.CandidateID(), "error", err)
	}
}

// watchLoop waits for the armed watch to fire and re-runs the cycle, one event at a time.
func (s *Session) watchLoop(watch <-chan types.TreeEvent) {
	defer s.closeDone()

	for {
		select {
		case <-s.ctx.Done():
			return
		case ev := <-watch:
			discarded := s.disconnecting.Load()
			s.metrics.RecordWatchFired(ev.Type.String(), discarded)
			if discarded {
				return
			}

			s.logger.Debug("watch fired", "candidate_id", s.CandidateID(), "event", ev.Type.String(), "path", ev.Path)

			ctx, cancel := context.WithTimeout(s.ctx, s.cfg.OperationTimeout)
			next, err := s.relist(ctx)
			cancel()

			if errors.Is(err, errDisconnecting) || (err != nil && s.disconnecting.Load()) {
				return
			}
			if err != nil {
				s.fail(err)
				return
			}

			watch = next
		}
	}
}

// fail surfaces an unrecoverable protocol error and moves the session to PhaseFailed.
func (s *Session) fail(err error) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	if s.disconnecting.Load() {
		return
	}

	kind := types.ErrorKind(err)
	s.metrics.RecordProtocolError(kind)
	s.logger.Error("election protocol error", "candidate_id", s.CandidateID(), "kind", kind, "error", err)

	if hookErr := s.hooks.OnError(s.ctx, err); hookErr != nil {
		s.logger.Error("error hook error", "error", hookErr)
	}
	s.publish(Event{Type: EventError, CandidateID: s.CandidateID(), Err: err, At: time.Now()})

	s.setPhase(PhaseFailed)
}

// Disconnect leaves the election.
//
// Teardown begins synchronously: from this point no watch that fires is acted
// on and no transition hook or subscriber event is delivered. The candidate
// node is then deleted and an owned client is closed, even if the delete
// failed. Subscriber channels are closed once the watch loop has exited.
//
// Teardown runs to completion in the background. If ctx ends first,
// Disconnect returns ctx.Err() while the node removal and client close still
// happen; Done and Phase report when they have.
//
// Parameters:
//   - ctx: Context bounding the wait for teardown
//
// Returns:
//   - error: The delete failure as a *CoordinationError, ErrNotConnected,
//     ErrAlreadyDisconnected, or ctx.Err() if teardown did not finish in time
func (s *Session) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	if !s.connected {
		s.mu.Unlock()

		return ErrNotConnected
	}
	if s.disconnectCalled {
		s.mu.Unlock()

		return ErrAlreadyDisconnected
	}
	s.disconnectCalled = true
	s.mu.Unlock()

	s.emitMu.Lock()
	s.disconnecting.Store(true)
	s.emitMu.Unlock()

	s.setPhase(PhaseDisconnecting)
	s.cancel()

	go s.teardown(context.WithoutCancel(ctx))

	select {
	case <-s.teardownDone:
		return s.teardownErr
	case <-ctx.Done():
		s.logger.Warn("disconnect still in progress", "candidate_id", s.CandidateID(), "error", ctx.Err())

		return fmt.Errorf("waiting for teardown: %w", ctx.Err())
	}
}

// teardown waits for Connect and the watch loop to settle, removes the
// candidate node and releases the client.
func (s *Session) teardown(ctx context.Context) {
	defer close(s.teardownDone)

	ctx, span := s.tracer.Start(ctx, "elector.disconnect", trace.WithAttributes(
		attribute.String("elector.election_path", s.electionPath),
		attribute.String("elector.candidate_id", s.CandidateID()),
	))
	defer span.End()

	// In-flight Connect steps observe the canceled session context.
	<-s.connectDone

	s.mu.Lock()
	client, tree := s.client, s.tree
	s.mu.Unlock()

	var deleteErr error
	if tree != nil {
		deleteErr = s.removeCandidate(ctx, tree)
	}

	if client != nil && s.conn.Owned() {
		if err := client.Close(); err != nil {
			s.logger.Warn("failed to close coordination client", "error", err)
		}
	}

	<-s.done

	s.retract(ctx)
	s.setPhase(PhaseDisconnected)

	s.subscribers.Range(func(id uint64, sub *subscriber) bool {
		s.subscribers.Delete(id)
		sub.close()

		return true
	})
	s.logger.Info("session disconnected", "candidate_id", s.CandidateID())

	if deleteErr != nil {
		s.teardownErr = s.spanError(span, deleteErr)
	}
}

// removeCandidate deletes the session's candidate node.
//
// When registration was interrupted before its create reported back, the node
// may still exist under an unknown id; it is found by its instance id payload.
func (s *Session) removeCandidate(ctx context.Context, tree TreeClient) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.OperationTimeout)
	defer cancel()

	ids := []string{s.CandidateID()}
	if ids[0] == "" {
		if !s.registerStarted.Load() {
			return nil
		}

		owned, err := election.FindOwned(ctx, tree, s.electionPath, s.prefix, []byte(s.instanceID))
		if err != nil {
			s.logger.Warn("failed to look up interrupted registration", "error", err)
			return err
		}
		ids = owned
	}

	var errs []error
	for _, id := range ids {
		p := election.CandidatePath(s.electionPath, id)
		if err := tree.Delete(ctx, p); err != nil {
			s.logger.Warn("failed to delete candidate node", "candidate_id", id, "error", err)
			errs = append(errs, types.NewCoordinationError("delete", p, err))

			continue
		}
		if s.CandidateID() == "" {
			s.logger.Info("removed orphaned candidate node", "candidate_id", id)
		}
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return errors.Join(errs...)
}

// Subscribe returns a channel that receives session events.
//
// The channel is buffered (Config.EventBuffer). Events are sent without
// blocking; a subscriber that falls behind misses events and the drop is
// counted in metrics. The channel is closed by the returned unsubscribe
// function or when Disconnect completes. Subscribing after Disconnect returns a
// closed channel.
//
// Returns:
//   - <-chan Event: Event channel
//   - func(): Unsubscribe function, safe to call more than once
//
// Example:
//
//	events, unsubscribe := session.Subscribe()
//	defer unsubscribe()
//	for ev := range events {
//	    fmt.Printf("%s: %s\n", ev.Type, ev.CandidateID)
//	}
func (s *Session) Subscribe() (<-chan Event, func()) {
	sub := &subscriber{ch: make(chan Event, s.cfg.EventBuffer)}
	if s.Phase() == PhaseDisconnected {
		sub.close()
		return sub.ch, func() {}
	}

	id := s.nextSubscriberID.Add(1)
	s.subscribers.Store(id, sub)

	unsubscribe := func() {
		if sub, ok := s.subscribers.LoadAndDelete(id); ok {
			sub.close()
		}
	}

	// Disconnect may have drained the subscribers between the check and Store.
	if s.Phase() == PhaseDisconnected {
		unsubscribe()
	}

	return sub.ch, unsubscribe
}

// publish fans an event out to all subscribers. Callers hold emitMu.
func (s *Session) publish(ev Event) {
	s.subscribers.Range(func(_ uint64, sub *subscriber) bool {
		if !sub.trySend(ev) {
			s.metrics.RecordEventDropped()
		}

		return true
	})
}

// setPhase records a phase transition and invokes the phase hook.
//
// Teardown phases are sticky: once disconnecting, only PhaseDisconnected may follow.
func (s *Session) setPhase(to Phase) {
	s.phaseHookMu.Lock()
	defer s.phaseHookMu.Unlock()

	s.phaseMu.Lock()
	from := s.phase
	if from == to || !phaseAllowed(from, to) {
		s.phaseMu.Unlock()
		return
	}
	s.phase = to
	s.phaseMu.Unlock()

	s.logger.Debug("phase transition", "from", from.String(), "to", to.String(), "candidate_id", s.CandidateID())

	if err := s.hooks.OnPhaseChanged(s.ctx, from, to); err != nil {
		s.logger.Error("phase change hook error", "from", from.String(), "to", to.String(), "error", err)
	}
}

func phaseAllowed(from, to Phase) bool {
	switch from {
	case PhaseDisconnected:
		return false
	case PhaseDisconnecting:
		return to == PhaseDisconnected
	case PhaseFailed:
		return to == PhaseDisconnecting
	default:
		return true
	}
}

func (s *Session) spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, types.ErrorKind(err))

	return err
}

func (s *Session) closeDone() {
	s.doneOnce.Do(func() { close(s.done) })
}

// CandidateID returns the session's candidate identifier.
//
// Returns:
//   - string: Leaf name of the candidate node (empty before registration)
func (s *Session) CandidateID() string {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	return s.candidateID
}

// ElectionPath returns the tree path of the election.
func (s *Session) ElectionPath() string {
	return s.electionPath
}

// InstanceID returns the random identifier written as the candidate node payload.
func (s *Session) InstanceID() string {
	return s.instanceID
}

// IsLeader returns true if this session currently holds leadership.
func (s *Session) IsLeader() bool {
	return s.decider.State().IsLeader()
}

// Leadership returns the tri-state leadership flag.
func (s *Session) Leadership() Leadership {
	return s.decider.State()
}

// Candidates returns a copy of the most recently ranked candidate list.
func (s *Session) Candidates() []string {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	return slices.Clone(s.candidates)
}

// Watching returns the candidate id of the watched predecessor, or "" when
// this session ranks first.
func (s *Session) Watching() string {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	return s.watching
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	s.phaseMu.Lock()
	defer s.phaseMu.Unlock()

	return s.phase
}

// Done returns a channel that is closed when the watch loop exits, either
// because of Disconnect or a protocol failure.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Snapshot returns a point-in-time view of the session.
func (s *Session) Snapshot() Snapshot {
	phase := s.Phase()
	leadership := s.decider.State()

	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	return Snapshot{
		ElectionPath: s.electionPath,
		CandidateID:  s.candidateID,
		InstanceID:   s.instanceID,
		Phase:        phase,
		PhaseName:    phase.String(),
		Leadership:   leadership,
		IsLeader:     leadership.IsLeader(),
		Leader:       election.Leader(s.candidates),
		Watching:     s.watching,
		Candidates:   slices.Clone(s.candidates),
		Fingerprint:  s.fingerprint,
	}
}
