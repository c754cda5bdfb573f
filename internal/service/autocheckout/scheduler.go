package autocheckout

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Kind distinguishes the two auto-checkout deadlines a session can carry.
type Kind string

const (
	// KindRegular closes a session left open past the scheduled checkout.
	KindRegular Kind = "regular"
	// KindEmergency closes an overtime session at the end-of-day cutoff.
	KindEmergency Kind = "emergency"
)

// Committer performs the actual close. The scheduler never touches
// storage itself.
type Committer interface {
	AutoCheckOut(ctx context.Context, userID string, date time.Time, kind Kind) error
}

type armed struct {
	timer  *time.Timer
	gen    uint64
	userID string
	date   time.Time
	kind   Kind
}

// Scheduler holds one pending auto-checkout timer per session. Re-arming
// a session replaces its previous timer; a generation counter makes sure
// a timer that fired during replacement commits nothing.
type Scheduler struct {
	mu            sync.Mutex
	timers        map[string]*armed
	gen           uint64
	committer     Committer
	commitTimeout time.Duration
	now           func() time.Time
}

func New(commitTimeout time.Duration) *Scheduler {
	return &Scheduler{
		timers:        make(map[string]*armed),
		commitTimeout: commitTimeout,
		now:           time.Now,
	}
}

// Bind attaches the committer. Done after construction because the
// attendance service and the scheduler reference each other.
func (s *Scheduler) Bind(c Committer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committer = c
}

func sessionKey(userID string, date time.Time) string {
	return fmt.Sprintf("%s|%s", userID, date.Format("2006-01-02"))
}

// Arm schedules an auto-checkout for the session, replacing any existing
// timer for it. A fireAt in the past fires almost immediately.
func (s *Scheduler) Arm(userID string, date time.Time, kind Kind, fireAt time.Time) {
	key := sessionKey(userID, date)

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.timers[key]; ok {
		prev.timer.Stop()
	}
	s.gen++
	a := &armed{gen: s.gen, userID: userID, date: date, kind: kind}
	delay := fireAt.Sub(s.now())
	if delay < 0 {
		delay = 0
	}
	a.timer = time.AfterFunc(delay, func() { s.fire(key, a.gen) })
	s.timers[key] = a

	slog.Debug("auto-checkout armed",
		"user_id", userID,
		"kind", string(kind),
		"fire_at", fireAt.Format(time.RFC3339),
	)
}

// Disarm cancels the session's pending timer, if any.
func (s *Scheduler) Disarm(userID string, date time.Time) {
	key := sessionKey(userID, date)

	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := s.timers[key]; ok {
		a.timer.Stop()
		delete(s.timers, key)
	}
}

func (s *Scheduler) fire(key string, gen uint64) {
	s.mu.Lock()
	a, ok := s.timers[key]
	if !ok || a.gen != gen {
		s.mu.Unlock()
		return
	}
	delete(s.timers, key)
	committer := s.committer
	s.mu.Unlock()

	if committer == nil {
		slog.Error("auto-checkout fired with no committer bound", "user_id", a.userID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.commitTimeout)
	defer cancel()

	if err := committer.AutoCheckOut(ctx, a.userID, a.date, a.kind); err != nil {
		slog.Error("auto-checkout failed",
			"user_id", a.userID,
			"kind", string(a.kind),
			"error", err,
		)
		return
	}
	slog.Info("auto-checkout committed", "user_id", a.userID, "kind", string(a.kind))
}

// Stop cancels every pending timer. Timers already past the generation
// check may still complete their commit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, a := range s.timers {
		a.timer.Stop()
		delete(s.timers, key)
	}
}
