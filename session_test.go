package elector

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/elector/internal/election"
	"github.com/arloliu/elector/memtree"
	electortest "github.com/arloliu/elector/testing"
	"github.com/arloliu/elector/types"
)

const waitTimeout = 2 * time.Second

type testSession struct {
	*Session
	rec    *electortest.Recorder
	client *memtree.Client
}

// newTestSession creates a session with its own owned memtree client.
func newTestSession(t *testing.T, tree *memtree.Tree, opts ...Option) *testSession {
	t.Helper()

	cfg := TestConfig()
	client := tree.NewClient()
	rec := electortest.NewRecorder()

	opts = append([]Option{
		WithHooks(rec.Hooks()),
		WithLogger(electortest.NewTestLogger(t, "")),
	}, opts...)

	s, err := NewSession(&cfg, Dial(func(context.Context, Logger) (TreeClient, error) {
		return client, nil
	}), opts...)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Disconnect(context.Background())
	})

	return &testSession{Session: s, rec: rec, client: client}
}

func connectAll(t *testing.T, sessions ...*testSession) {
	t.Helper()

	for _, s := range sessions {
		require.NoError(t, s.Connect(t.Context()))
	}
}

func leaders(sessions ...*testSession) []*testSession {
	var out []*testSession
	for _, s := range sessions {
		if s.IsLeader() {
			out = append(out, s)
		}
	}

	return out
}

func TestNewSession(t *testing.T) {
	tree := memtree.New()

	t.Run("nil config", func(t *testing.T) {
		_, err := NewSession(nil, Shared(tree.NewClient()))
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("zero connection", func(t *testing.T) {
		cfg := TestConfig()
		_, err := NewSession(&cfg, Connection{})
		require.ErrorIs(t, err, ErrConnectionRequired)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := TestConfig()
		cfg.ElectionPath = "relative"
		_, err := NewSession(&cfg, Shared(tree.NewClient()))
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("defaults applied", func(t *testing.T) {
		cfg := Config{}
		s, err := NewSession(&cfg, Shared(tree.NewClient()))
		require.NoError(t, err)
		require.Equal(t, "/election", s.ElectionPath())
		require.NotEmpty(t, s.InstanceID())
		require.Equal(t, PhaseInit, s.Phase())
		require.Equal(t, LeadershipUnknown, s.Leadership())
		require.Empty(t, s.CandidateID())

		// caller's config untouched
		require.Empty(t, cfg.ElectionPath)
	})

	t.Run("instance id option", func(t *testing.T) {
		cfg := TestConfig()
		s, err := NewSession(&cfg, Shared(tree.NewClient()), WithInstanceID("node-a"))
		require.NoError(t, err)
		require.Equal(t, "node-a", s.InstanceID())
	})
}

func TestSession_SingleCandidate(t *testing.T) {
	tree := memtree.New()
	s := newTestSession(t, tree, WithInstanceID("node-a"))

	require.NoError(t, s.Connect(t.Context()))

	require.Equal(t, "p_0000000000", s.CandidateID())
	require.True(t, s.IsLeader())
	require.Equal(t, PhaseLeader, s.Phase())
	require.Equal(t, []string{"p_0000000000"}, s.Candidates())
	require.Empty(t, s.Watching())
	require.Equal(t, []types.EventType{EventCandidateID, EventLeader}, s.rec.Types())

	data, ok := tree.Data("/election/p_0000000000")
	require.True(t, ok)
	require.Equal(t, "node-a", string(data))

	snap := s.Snapshot()
	require.Equal(t, "p_0000000000", snap.Leader)
	require.True(t, snap.IsLeader)
	require.Equal(t, "Leader", snap.PhaseName)
	require.NotZero(t, snap.Fingerprint)
}

func TestSession_FirstDeterminationFollower(t *testing.T) {
	tree := memtree.New()
	a := newTestSession(t, tree)
	b := newTestSession(t, tree)
	connectAll(t, a, b)

	require.Equal(t, []types.EventType{EventCandidateID, EventFollower}, b.rec.Types())
	require.Equal(t, LeadershipFollower, b.Leadership())
	require.Equal(t, PhaseFollower, b.Phase())
	require.Equal(t, a.CandidateID(), b.Watching())
}

func TestSession_FiveCandidates(t *testing.T) {
	tree := memtree.New()

	sessions := make([]*testSession, 5)
	for i := range sessions {
		sessions[i] = newTestSession(t, tree)
	}
	connectAll(t, sessions...)

	// Exactly one leader, the lexicographically first candidate.
	ls := leaders(sessions...)
	require.Len(t, ls, 1)
	require.Same(t, sessions[0], ls[0])
	require.Equal(t, tree.List("/election")[0], ls[0].CandidateID())

	// Each follower watches exactly its predecessor.
	for i := 1; i < len(sessions); i++ {
		require.Equal(t, sessions[i-1].CandidateID(), sessions[i].Watching())
		require.Equal(t, 1, sessions[i].rec.Count(EventFollower))
	}

	// Remove two non-leaders.
	require.NoError(t, sessions[2].Disconnect(t.Context()))
	require.NoError(t, sessions[4].Disconnect(t.Context()))

	remaining := []*testSession{sessions[0], sessions[1], sessions[3]}
	require.Eventually(t, func() bool {
		return sessions[3].Watching() == sessions[1].CandidateID()
	}, waitTimeout, 5*time.Millisecond)

	ls = leaders(remaining...)
	require.Len(t, ls, 1)
	require.Same(t, sessions[0], ls[0])

	// No leadership flip anywhere.
	require.Equal(t, 1, sessions[0].rec.Count(EventLeader))
	require.Equal(t, 1, sessions[1].rec.Count(EventFollower))
	require.Equal(t, 1, sessions[3].rec.Count(EventFollower))
	require.Zero(t, sessions[1].rec.Count(EventLeader))
	require.Zero(t, sessions[3].rec.Count(EventLeader))

	// Remove the leader: the second-ranked follower takes over.
	require.NoError(t, sessions[0].Disconnect(t.Context()))

	sessions[1].rec.WaitFor(t, EventLeader, waitTimeout)
	require.True(t, sessions[1].IsLeader())
	require.Empty(t, sessions[1].Watching())
	require.False(t, sessions[3].IsLeader())
	require.Zero(t, sessions[3].rec.Count(EventLeader))
	require.Equal(t, 1, sessions[3].rec.Count(EventFollower))
	require.Equal(t, []types.EventType{EventCandidateID, EventFollower, EventLeader}, sessions[1].rec.Types())
}

func TestSession_LeaderCrash(t *testing.T) {
	tree := memtree.New()
	a := newTestSession(t, tree)
	b := newTestSession(t, tree)
	c := newTestSession(t, tree)
	connectAll(t, a, b, c)

	// Closing the client drops the ephemeral node without an explicit delete.
	require.NoError(t, a.client.Close())

	b.rec.WaitFor(t, EventLeader, waitTimeout)
	require.Len(t, leaders(b, c), 1)
	require.Equal(t, b.CandidateID(), c.Watching())
}

func TestSession_Disconnect(t *testing.T) {
	t.Run("before connect", func(t *testing.T) {
		s := newTestSession(t, memtree.New())
		require.ErrorIs(t, s.Disconnect(t.Context()), ErrNotConnected)
	})

	t.Run("twice", func(t *testing.T) {
		s := newTestSession(t, memtree.New())
		require.NoError(t, s.Connect(t.Context()))
		require.NoError(t, s.Disconnect(t.Context()))
		require.ErrorIs(t, s.Disconnect(t.Context()), ErrAlreadyDisconnected)
		require.ErrorIs(t, s.Connect(t.Context()), ErrAlreadyConnected)
	})

	t.Run("owned client is closed", func(t *testing.T) {
		tree := memtree.New()
		s := newTestSession(t, tree)
		require.NoError(t, s.Connect(t.Context()))
		id := s.CandidateID()

		require.NoError(t, s.Disconnect(t.Context()))
		require.False(t, tree.Exists("/election/"+id))
		require.True(t, s.client.Closed())
		require.Equal(t, PhaseDisconnected, s.Phase())

		select {
		case <-s.Done():
		default:
			t.Fatal("watch loop still running after Disconnect")
		}
	})

	t.Run("shared client stays open", func(t *testing.T) {
		tree := memtree.New()
		shared := tree.NewClient()
		cfg := TestConfig()

		s1, err := NewSession(&cfg, Shared(shared))
		require.NoError(t, err)
		s2, err := NewSession(&cfg, Shared(shared))
		require.NoError(t, err)
		require.NoError(t, s1.Connect(t.Context()))
		require.NoError(t, s2.Connect(t.Context()))
		require.True(t, s1.IsLeader())
		require.False(t, s2.IsLeader())

		require.NoError(t, s1.Disconnect(t.Context()))
		require.False(t, shared.Closed())
		require.False(t, tree.Exists("/election/"+s1.CandidateID()))

		require.Eventually(t, s2.IsLeader, waitTimeout, 5*time.Millisecond)
		require.NoError(t, s2.Disconnect(t.Context()))
		require.False(t, shared.Closed())
	})

	t.Run("delete failure still closes owned client", func(t *testing.T) {
		tree := memtree.New()
		s := newTestSession(t, tree)
		require.NoError(t, s.Connect(t.Context()))

		errBoom := errors.New("boom")
		tree.InjectError(memtree.OpDelete, "", errBoom)

		err := s.Disconnect(t.Context())
		require.ErrorIs(t, err, ErrCoordination)
		require.ErrorIs(t, err, errBoom)
		require.True(t, s.client.Closed())
		require.Equal(t, PhaseDisconnected, s.Phase())

		// The ephemeral node went away with the connection.
		require.Empty(t, tree.List("/election"))
	})

	t.Run("expired context still finishes teardown", func(t *testing.T) {
		tree := memtree.New()
		client := tree.NewClient()
		release := make(chan struct{})
		dialing := make(chan struct{})
		cfg := TestConfig()

		// The dialer ignores ctx, as a stuck network dial would.
		s, err := NewSession(&cfg, Dial(func(context.Context, Logger) (TreeClient, error) {
			close(dialing)
			<-release
			return client, nil
		}), WithLogger(electortest.NewTestLogger(t, "")))
		require.NoError(t, err)

		connected := make(chan error, 1)
		go func() { connected <- s.Connect(context.Background()) }()
		<-dialing

		ctx, cancel := context.WithTimeout(t.Context(), 30*time.Millisecond)
		defer cancel()
		err = s.Disconnect(ctx)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.Equal(t, PhaseDisconnecting, s.Phase())

		close(release)
		require.ErrorIs(t, <-connected, ErrAlreadyDisconnected)

		require.Eventually(t, func() bool {
			return client.Closed() && s.Phase() == PhaseDisconnected
		}, waitTimeout, 5*time.Millisecond)
		require.ErrorIs(t, s.Disconnect(t.Context()), ErrAlreadyDisconnected)
	})

	t.Run("interrupted create leaves no node behind", func(t *testing.T) {
		tree := memtree.New()
		shared := &lateCreateClient{Client: tree.NewClient(), entered: make(chan struct{})}
		cfg := TestConfig()

		s, err := NewSession(&cfg, Shared(shared), WithLogger(electortest.NewTestLogger(t, "")))
		require.NoError(t, err)

		connected := make(chan error, 1)
		go func() { connected <- s.Connect(context.Background()) }()
		<-shared.entered

		require.NoError(t, s.Disconnect(t.Context()))
		require.ErrorIs(t, <-connected, ErrAlreadyDisconnected)
		require.Empty(t, s.CandidateID())
		require.False(t, shared.Closed())
		require.Empty(t, tree.List("/election"))
	})

	t.Run("orphan sweep spares other sessions", func(t *testing.T) {
		tree := memtree.New()
		other := newTestSession(t, tree)
		require.NoError(t, other.Connect(t.Context()))

		shared := &lateCreateClient{Client: tree.NewClient(), entered: make(chan struct{})}
		cfg := TestConfig()
		s, err := NewSession(&cfg, Shared(shared))
		require.NoError(t, err)

		connected := make(chan error, 1)
		go func() { connected <- s.Connect(context.Background()) }()
		<-shared.entered

		require.NoError(t, s.Disconnect(t.Context()))
		<-connected
		require.Equal(t, []string{other.CandidateID()}, tree.List("/election"))
		require.True(t, other.IsLeader())
	})

	t.Run("non-leader disconnect keeps leader", func(t *testing.T) {
		tree := memtree.New()
		a := newTestSession(t, tree)
		b := newTestSession(t, tree)
		connectAll(t, a, b)

		require.NoError(t, b.Disconnect(t.Context()))
		require.True(t, a.IsLeader())
		require.Equal(t, 1, a.rec.Count(EventLeader))
	})
}

func TestSession_NoEventsAfterDisconnect(t *testing.T) {
	t.Run("watch fires after disconnect", func(t *testing.T) {
		tree := memtree.New()
		a := newTestSession(t, tree)
		b := newTestSession(t, tree)
		connectAll(t, a, b)

		require.NoError(t, b.Disconnect(t.Context()))
		before := b.rec.Types()

		require.NoError(t, a.Disconnect(t.Context()))
		require.Equal(t, before, b.rec.Types())
		require.Equal(t, LeadershipFollower, b.Leadership())
	})

	t.Run("disconnect races an in-flight relist", func(t *testing.T) {
		tree := memtree.New()
		a := newTestSession(t, tree)
		b := newTestSession(t, tree)
		connectAll(t, a, b)

		var armed atomic.Bool
		disconnected := make(chan error, 1)
		var once sync.Once

		// B's relist starts, then teardown begins before the listing completes.
		tree.SetInterceptor(func(op memtree.Op, _ string) {
			if op != memtree.OpChildren || !armed.Load() {
				return
			}
			once.Do(func() {
				go func() { disconnected <- b.Disconnect(context.Background()) }()
				deadline := time.Now().Add(waitTimeout)
				for !b.disconnecting.Load() && time.Now().Before(deadline) {
					time.Sleep(time.Millisecond)
				}
			})
		})
		armed.Store(true)

		// Removing A's node fires B's predecessor watch, which would make B leader.
		require.NoError(t, tree.Remove("/election/"+a.CandidateID()))

		select {
		case err := <-disconnected:
			require.NoError(t, err)
		case <-time.After(waitTimeout):
			t.Fatal("disconnect did not complete")
		}

		require.False(t, b.IsLeader())
		require.Zero(t, b.rec.Count(EventLeader))
		require.Zero(t, b.rec.Count(EventError))
	})
}

func TestSession_ProtocolErrors(t *testing.T) {
	t.Run("registration failure", func(t *testing.T) {
		tree := memtree.New()
		s := newTestSession(t, tree)
		tree.InjectError(memtree.OpCreate, "", errors.New("permission denied"))

		err := s.Connect(t.Context())
		require.ErrorIs(t, err, ErrCoordination)

		require.Equal(t, []types.EventType{EventError}, s.rec.Types())
		require.Equal(t, PhaseFailed, s.Phase())
		require.Empty(t, s.CandidateID())

		var cerr *CoordinationError
		require.ErrorAs(t, err, &cerr)
		require.Equal(t, "create", cerr.Op)

		// Failed sessions can still be torn down.
		require.NoError(t, s.Disconnect(t.Context()))
		require.True(t, s.client.Closed())
	})

	t.Run("dial failure", func(t *testing.T) {
		cfg := TestConfig()
		rec := electortest.NewRecorder()
		errDial := errors.New("connection refused")

		s, err := NewSession(&cfg, Dial(func(context.Context, Logger) (TreeClient, error) {
			return nil, errDial
		}), WithHooks(rec.Hooks()))
		require.NoError(t, err)

		err = s.Connect(t.Context())
		require.ErrorIs(t, err, ErrCoordination)
		require.ErrorIs(t, err, errDial)
		require.Equal(t, 1, rec.Count(EventError))
		require.NoError(t, s.Disconnect(t.Context()))
	})

	t.Run("sibling vanished at connect", func(t *testing.T) {
		tree := memtree.New()
		a := newTestSession(t, tree)
		b := newTestSession(t, tree)
		require.NoError(t, a.Connect(t.Context()))

		predecessor := "/election/" + a.CandidateID()
		tree.SetInterceptor(func(op memtree.Op, path string) {
			if op == memtree.OpExists && path == predecessor {
				_ = tree.Remove(path)
			}
		})

		err := b.Connect(t.Context())
		require.ErrorIs(t, err, ErrSiblingVanished)
		require.Equal(t, PhaseFailed, b.Phase())
		require.Equal(t, []types.EventType{EventCandidateID, EventError}, b.rec.Types())
	})

	t.Run("sibling vanished in watch loop", func(t *testing.T) {
		tree := memtree.New()
		a := newTestSession(t, tree)
		b := newTestSession(t, tree)
		c := newTestSession(t, tree)
		connectAll(t, a, b, c)

		// When C re-arms on A after B leaves, A is already gone.
		aPath := "/election/" + a.CandidateID()
		tree.SetInterceptor(func(op memtree.Op, path string) {
			if op == memtree.OpExists && path == aPath {
				_ = tree.Remove(path)
			}
		})

		require.NoError(t, b.Disconnect(t.Context()))

		ev := c.rec.WaitFor(t, EventError, waitTimeout)
		require.ErrorIs(t, ev.Err, ErrSiblingVanished)
		c.rec.WaitForPhase(t, PhaseFailed, waitTimeout)

		select {
		case <-c.Done():
		case <-time.After(waitTimeout):
			t.Fatal("watch loop did not stop")
		}
		require.Zero(t, c.rec.Count(EventLeader))
	})

	t.Run("self removed externally", func(t *testing.T) {
		tree := memtree.New()
		s := newTestSession(t, tree)
		require.NoError(t, s.Connect(t.Context()))

		require.NoError(t, tree.Remove("/election/"+s.CandidateID()))

		ev := s.rec.WaitFor(t, EventError, waitTimeout)
		require.ErrorIs(t, ev.Err, ErrSelfNotFound)
		s.rec.WaitForPhase(t, PhaseFailed, waitTimeout)
	})

	t.Run("relist failure", func(t *testing.T) {
		tree := memtree.New()
		a := newTestSession(t, tree)
		b := newTestSession(t, tree)
		connectAll(t, a, b)

		tree.InjectError(memtree.OpChildren, "", errors.New("connection loss"))
		require.NoError(t, a.client.Close())

		ev := b.rec.WaitFor(t, EventError, waitTimeout)
		require.ErrorIs(t, ev.Err, ErrCoordination)
		require.Zero(t, b.rec.Count(EventLeader))
	})
}

func TestSession_Subscribe(t *testing.T) {
	tree := memtree.New()
	a := newTestSession(t, tree)
	b := newTestSession(t, tree)

	events, unsubscribe := b.Subscribe()
	defer unsubscribe()

	connectAll(t, a, b)

	next := func() Event {
		select {
		case ev := <-events:
			return ev
		case <-time.After(waitTimeout):
			t.Fatal("no event")
			return Event{}
		}
	}

	require.Equal(t, EventCandidateID, next().Type)

	ev := next()
	require.Equal(t, EventFollower, ev.Type)
	require.Equal(t, b.CandidateID(), ev.CandidateID)
	require.Equal(t, []string{a.CandidateID(), b.CandidateID()}, ev.Candidates)

	require.NoError(t, a.Disconnect(t.Context()))
	ev = next()
	require.Equal(t, EventLeader, ev.Type)
	require.Equal(t, []string{b.CandidateID()}, ev.Candidates)

	require.NoError(t, b.Disconnect(t.Context()))
	_, open := <-events
	require.False(t, open)

	late, _ := b.Subscribe()
	_, open = <-late
	require.False(t, open)
}

func TestSession_Unsubscribe(t *testing.T) {
	s := newTestSession(t, memtree.New())
	events, unsubscribe := s.Subscribe()
	unsubscribe()
	unsubscribe()

	_, open := <-events
	require.False(t, open)
	require.NoError(t, s.Connect(t.Context()))
}

type recordingAnnouncer struct {
	mu  sync.Mutex
	got []Announcement
	err error
}

func (r *recordingAnnouncer) Announce(_ context.Context, a Announcement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, a)

	return r.err
}

func (r *recordingAnnouncer) announcements() []Announcement {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Announcement(nil), r.got...)
}

func TestSession_Announcer(t *testing.T) {
	tree := memtree.New()
	ann := &recordingAnnouncer{}
	a := newTestSession(t, tree, WithAnnouncer(ann), WithInstanceID("node-a"))
	b := newTestSession(t, tree, WithAnnouncer(&recordingAnnouncer{err: errors.New("nats down")}))
	connectAll(t, a, b)

	got := ann.announcements()
	require.Len(t, got, 1)
	require.True(t, got[0].Leader)
	require.Equal(t, a.CandidateID(), got[0].CandidateID)
	require.Equal(t, "node-a", got[0].InstanceID)
	require.Equal(t, "/election", got[0].ElectionPath)
	require.Equal(t, []string{a.CandidateID()}, got[0].Candidates)
	require.Equal(t, election.Fingerprint(got[0].Candidates), got[0].Fingerprint)

	// Announcer failures never surface as protocol errors.
	require.Zero(t, b.rec.Count(EventError))
	require.Equal(t, PhaseFollower, b.Phase())
}

type retractingAnnouncer struct {
	recordingAnnouncer
	retracted []Announcement
}

func (r *retractingAnnouncer) Retract(_ context.Context, a Announcement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retracted = append(r.retracted, a)

	return nil
}

func (r *retractingAnnouncer) retractions() []Announcement {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Announcement(nil), r.retracted...)
}

func TestSession_Retract(t *testing.T) {
	tree := memtree.New()
	annA := &retractingAnnouncer{}
	annB := &retractingAnnouncer{}
	a := newTestSession(t, tree, WithAnnouncer(annA))
	b := newTestSession(t, tree, WithAnnouncer(annB))
	connectAll(t, a, b)

	// A follower leaves nothing to retract.
	require.NoError(t, b.Disconnect(t.Context()))
	require.Empty(t, annB.retractions())

	require.NoError(t, a.Disconnect(t.Context()))
	got := annA.retractions()
	require.Len(t, got, 1)
	require.False(t, got[0].Leader)
	require.Equal(t, a.CandidateID(), got[0].CandidateID)

	// Retract is not a transition.
	require.Len(t, annA.announcements(), 1)
	require.Equal(t, 1, a.rec.Count(EventLeader))
	require.Zero(t, a.rec.Count(EventFollower))
}

// lateCreateClient completes a create only after its caller gave up on it.
type lateCreateClient struct {
	*memtree.Client
	entered chan struct{}
}

func (c *lateCreateClient) CreateEphemeralSequential(ctx context.Context, prefix string, data []byte) (string, error) {
	close(c.entered)
	<-ctx.Done()

	if _, err := c.Client.CreateEphemeralSequential(context.WithoutCancel(ctx), prefix, data); err != nil {
		return "", err
	}

	return "", ctx.Err()
}

func TestSession_PhaseHookSerialized(t *testing.T) {
	tree := memtree.New()

	type transition struct{ from, to Phase }
	type phaseLog struct {
		mu       sync.Mutex
		inFlight atomic.Int32
		overlap  atomic.Bool
		got      []transition
	}

	sessions := make([]*testSession, 4)
	logs := make([]*phaseLog, len(sessions))
	for i := range sessions {
		log := &phaseLog{}
		logs[i] = log
		hooks := &Hooks{
			OnPhaseChanged: func(_ context.Context, from, to Phase) error {
				if log.inFlight.Add(1) > 1 {
					log.overlap.Store(true)
				}
				defer log.inFlight.Add(-1)
				time.Sleep(time.Millisecond)

				log.mu.Lock()
				log.got = append(log.got, transition{from, to})
				log.mu.Unlock()

				return nil
			},
		}
		sessions[i] = newTestSession(t, tree, WithHooks(hooks))
	}
	connectAll(t, sessions...)

	// Each removal fires a watch on the successor while its teardown runs.
	var wg sync.WaitGroup
	for _, s := range sessions[:3] {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tree.Remove("/election/" + s.CandidateID())
			_ = s.Disconnect(context.Background())
		}()
	}
	wg.Wait()
	require.Eventually(t, sessions[3].IsLeader, waitTimeout, 5*time.Millisecond)
	require.NoError(t, sessions[3].Disconnect(t.Context()))

	for i, log := range logs {
		log.mu.Lock()
		got := slices.Clone(log.got)
		log.mu.Unlock()

		require.False(t, log.overlap.Load(), "session %d phase hooks overlapped", i)
		require.NotEmpty(t, got)
		require.Equal(t, PhaseInit, got[0].from)
		for j := 1; j < len(got); j++ {
			require.Equal(t, got[j-1].to, got[j].from, "session %d transition %d out of order", i, j)
		}
		require.Equal(t, PhaseDisconnected, got[len(got)-1].to)
	}
}

func TestSession_Phases(t *testing.T) {
	s := newTestSession(t, memtree.New())
	require.NoError(t, s.Connect(t.Context()))
	require.NoError(t, s.Disconnect(t.Context()))

	require.Equal(t, []Phase{
		PhaseConnecting,
		PhaseRegistering,
		PhaseListing,
		PhaseWatching,
		PhaseLeader,
		PhaseDisconnecting,
		PhaseDisconnected,
	}, s.rec.Phases())
}

func TestConnection(t *testing.T) {
	tree := memtree.New()

	require.True(t, Connection{}.IsZero())
	require.False(t, Shared(tree.NewClient()).Owned())
	require.True(t, Dial(func(context.Context, Logger) (TreeClient, error) { return nil, nil }).Owned())

	t.Run("from config", func(t *testing.T) {
		cfg := TestConfig()
		_, err := ConnectionFromConfig(&cfg)
		require.ErrorIs(t, err, ErrInvalidConfig)

		cfg.Servers = []string{"127.0.0.1:2181"}
		conn, err := ConnectionFromConfig(&cfg)
		require.NoError(t, err)
		require.True(t, conn.Owned())

		cfg.Backend = BackendEtcd
		conn, err = ConnectionFromConfig(&cfg)
		require.NoError(t, err)
		require.True(t, conn.Owned())

		cfg.Backend = "consul"
		_, err = ConnectionFromConfig(&cfg)
		require.ErrorIs(t, err, ErrUnknownBackend)

		_, err = ConnectionFromConfig(nil)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}
