package reminder

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/eduagenda/eduagenda/models"
)

type fakeStore struct {
	mu         sync.Mutex
	users      []models.User
	todos      map[uint][]models.Todo
	events     map[uint][]models.Event
	usersCalls int
	usersErr   error
	todosErr   map[uint]error
	block      chan struct{} // when set, FindUsers blocks until closed
}

func (f *fakeStore) FindUsers(ctx context.Context) ([]models.User, error) {
	f.mu.Lock()
	f.usersCalls++
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if f.usersErr != nil {
		return nil, f.usersErr
	}
	return f.users, nil
}

func (f *fakeStore) FindPendingTodos(ctx context.Context, userID uint, until time.Time) ([]models.Todo, error) {
	if err := f.todosErr[userID]; err != nil {
		return nil, err
	}
	return f.todos[userID], nil
}

func (f *fakeStore) FindPendingEvents(ctx context.Context, userID uint, until time.Time) ([]models.Event, error) {
	return f.events[userID], nil
}

func (f *fakeStore) userCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.usersCalls
}

type sentMail struct {
	to, subject, text, html string
}

type fakeSink struct {
	mu    sync.Mutex
	sent  []sentMail
	fail  map[string]error
	delay time.Duration
}

func (f *fakeSink) Send(to, subject, text, html string) error {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if err := f.fail[to]; err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{to, subject, text, html})
	return nil
}

func (f *fakeSink) mails() []sentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentMail, len(f.sent))
	copy(out, f.sent)
	return out
}

func testUser(id uint, email string) models.User {
	return models.User{ID: id, Username: "u", Email: email}
}

func TestRunOnceSendsOneConsolidatedMail(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := &fakeStore{
		users: []models.User{testUser(1, "a@example.com")},
		todos: map[uint][]models.Todo{1: {
			{ID: 1, Text: "late essay", DueAt: now.Add(-3 * time.Hour)},
			{ID: 2, Text: "late reading", DueAt: now.Add(-2 * time.Hour)},
			{ID: 3, Text: "late quiz", DueAt: now.Add(-time.Hour)},
		}},
		events: map[uint][]models.Event{1: {
			{ID: 4, Title: "missed lecture", OccursAt: now.Add(-time.Hour)},
			{ID: 5, Title: "study group", OccursAt: now.Add(2 * time.Hour)},
			{ID: 6, Title: "office hours", OccursAt: now.Add(5 * time.Hour)},
		}},
	}
	sink := &fakeSink{}

	s := New(store, sink, Options{})
	s.RunOnce(now)

	mails := sink.mails()
	if len(mails) != 1 {
		t.Fatalf("sent %d mails, want 1", len(mails))
	}
	m := mails[0]
	if m.to != "a@example.com" {
		t.Errorf("to = %q", m.to)
	}
	if m.subject != Subject {
		t.Errorf("subject = %q, want %q", m.subject, Subject)
	}
	for _, title := range []string{"late essay", "late reading", "late quiz", "missed lecture", "study group", "office hours"} {
		if !strings.Contains(m.text, title) {
			t.Errorf("mail text missing %q:\n%s", title, m.text)
		}
	}
}

func TestRunOnceIdenticalOnRepeat(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := &fakeStore{
		users: []models.User{testUser(1, "a@example.com")},
		todos: map[uint][]models.Todo{1: {{ID: 1, Text: "late", DueAt: now.Add(-time.Hour)}}},
	}
	sink := &fakeSink{}

	s := New(store, sink, Options{})
	s.RunOnce(now)
	s.RunOnce(now)

	mails := sink.mails()
	if len(mails) != 2 {
		t.Fatalf("sent %d mails, want 2", len(mails))
	}
	if mails[0] != mails[1] {
		t.Error("repeat tick with unchanged data produced a different mail")
	}
}

func TestRunOnceSkipsEmptyDigestAndMissingEmail(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := &fakeStore{
		users: []models.User{
			testUser(1, "nothing@example.com"), // no pending items
			testUser(2, ""),                    // items but no address
		},
		todos: map[uint][]models.Todo{2: {{ID: 1, Text: "late", DueAt: now.Add(-time.Hour)}}},
	}
	sink := &fakeSink{}

	s := New(store, sink, Options{})
	s.RunOnce(now)

	if mails := sink.mails(); len(mails) != 0 {
		t.Errorf("sent %d mails, want 0: %+v", len(mails), mails)
	}
}

func TestRunOnceSkipsOverlappingTick(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	block := make(chan struct{})
	store := &fakeStore{block: block}
	sink := &fakeSink{}

	s := New(store, sink, Options{StoreTimeout: time.Minute})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.RunOnce(now)
	}()
	waitFor(t, s.Running)

	s.RunOnce(now) // fires while the first batch holds the run lock
	if got := s.SkippedTicks(); got != 1 {
		t.Errorf("SkippedTicks() = %d, want 1", got)
	}
	if got := store.userCalls(); got != 1 {
		t.Errorf("FindUsers calls = %d, want 1", got)
	}

	close(block)
	wg.Wait()
}

func TestRunOnceIsolatesPerUserFailures(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := &fakeStore{
		users: []models.User{
			testUser(1, "broken@example.com"),
			testUser(2, "ok@example.com"),
		},
		todos: map[uint][]models.Todo{
			2: {{ID: 1, Text: "late", DueAt: now.Add(-time.Hour)}},
		},
		todosErr: map[uint]error{1: errors.New("query failed")},
	}
	sink := &fakeSink{}

	s := New(store, sink, Options{})
	s.RunOnce(now)

	mails := sink.mails()
	if len(mails) != 1 || mails[0].to != "ok@example.com" {
		t.Errorf("mails = %+v, want exactly one to ok@example.com", mails)
	}
}

func TestRunOnceSinkErrorDoesNotAbortBatch(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := &fakeStore{
		users: []models.User{
			testUser(1, "fails@example.com"),
			testUser(2, "ok@example.com"),
		},
		todos: map[uint][]models.Todo{
			1: {{ID: 1, Text: "late", DueAt: now.Add(-time.Hour)}},
			2: {{ID: 2, Text: "late too", DueAt: now.Add(-time.Hour)}},
		},
	}
	sink := &fakeSink{fail: map[string]error{"fails@example.com": errors.New("smtp down")}}

	s := New(store, sink, Options{Workers: 1})
	s.RunOnce(now)

	mails := sink.mails()
	if len(mails) != 1 || mails[0].to != "ok@example.com" {
		t.Errorf("mails = %+v, want exactly one to ok@example.com", mails)
	}
}

func TestStartStop(t *testing.T) {
	store := &fakeStore{}
	sink := &fakeSink{}

	s := New(store, sink, Options{Interval: 10 * time.Millisecond})
	s.Start()
	waitFor(t, func() bool { return store.userCalls() >= 2 })
	s.Stop()

	calls := store.userCalls()
	time.Sleep(30 * time.Millisecond)
	if got := store.userCalls(); got != calls {
		t.Errorf("FindUsers called after Stop: %d -> %d", calls, got)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}
