package store

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fansite/internal/model"
	"fansite/pkg/logger"
)

type countingPersister struct{ n int32 }

func (p *countingPersister) RequestSave() { atomic.AddInt32(&p.n, 1) }

type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (n *recordingNotifier) Notify(e Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

type panickingNotifier struct{}

func (panickingNotifier) Notify(Event) { panic("webhook down") }

// tickingClock 每次调用前进一秒
func tickingClock() func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newTestStore() *AnnouncementStore {
	s := NewAnnouncementStore(logger.NewNop())
	s.SetClock(tickingClock())
	return s
}

func create(t *testing.T, s *AnnouncementStore, title string, pinned bool) model.Announcement {
	t.Helper()
	a, err := s.Create(model.AnnouncementInput{Title: title, Content: title + " body", IsPinned: pinned})
	require.NoError(t, err)
	return a
}

func pinnedCount(items []model.Announcement) int {
	n := 0
	for _, a := range items {
		if a.IsPinned {
			n++
		}
	}
	return n
}

func ids(items []model.Announcement) []int64 {
	out := make([]int64, len(items))
	for i, a := range items {
		out[i] = a.ID
	}
	return out
}

func TestCreatePinnedGoesFirst(t *testing.T) {
	s := newTestStore()
	a := create(t, s, "A", false)
	b := create(t, s, "B", true)

	assert.Equal(t, []int64{b.ID, a.ID}, ids(s.List()))
}

func TestCreatePinnedUnpinsPrevious(t *testing.T) {
	s := newTestStore()
	a := create(t, s, "A", true)
	b := create(t, s, "B", true)

	list := s.List()
	assert.Equal(t, []int64{b.ID, a.ID}, ids(list))
	assert.True(t, list[0].IsPinned)
	assert.False(t, list[1].IsPinned)
}

func TestCreateDefaultsCategory(t *testing.T) {
	s := newTestStore()
	a := create(t, s, "A", false)
	assert.Equal(t, model.CategoryGeneral, a.Category)
}

func TestCreateValidation(t *testing.T) {
	s := newTestStore()

	_, err := s.Create(model.AnnouncementInput{Title: "", Content: "x"})
	assert.True(t, IsValidation(err))
	_, err = s.Create(model.AnnouncementInput{Title: "x", Content: "   "})
	assert.True(t, IsValidation(err))
	_, err = s.Create(model.AnnouncementInput{Title: "x", Content: "y", Category: "gossip"})
	assert.True(t, IsValidation(err))

	// 校验失败不消耗ID
	a := create(t, s, "A", false)
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, 1, s.Count())
}

func TestIDsAreNeverReused(t *testing.T) {
	s := newTestStore()
	a := create(t, s, "A", false)
	b := create(t, s, "B", false)
	require.NoError(t, s.Delete(b.ID))
	c := create(t, s, "C", false)

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
	assert.Equal(t, int64(3), c.ID)
}

func TestUpdateKeepsIdentityFields(t *testing.T) {
	s := newTestStore()
	a := create(t, s, "A", false)
	title := "x"

	updated, err := s.Update(a.ID, model.AnnouncementPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, a.ID, updated.ID)
	assert.Equal(t, a.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "x", updated.Title)
	assert.Equal(t, a.Content, updated.Content)
}

func TestUpdatePinUnpinsOthers(t *testing.T) {
	s := newTestStore()
	a := create(t, s, "A", true)
	b := create(t, s, "B", false)
	pin := true

	_, err := s.Update(b.ID, model.AnnouncementPatch{IsPinned: &pin})
	require.NoError(t, err)

	got, err := s.Get(a.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPinned)
	assert.Equal(t, []int64{b.ID, a.ID}, ids(s.List()))
}

func TestUpdateValidationLeavesRecordUnchanged(t *testing.T) {
	s := newTestStore()
	a := create(t, s, "A", false)
	empty := ""
	bad := model.Category("nope")

	_, err := s.Update(a.ID, model.AnnouncementPatch{Title: &empty})
	assert.True(t, IsValidation(err))
	_, err = s.Update(a.ID, model.AnnouncementPatch{Category: &bad})
	assert.True(t, IsValidation(err))

	got, err := s.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestNotFoundContract(t *testing.T) {
	s := newTestStore()
	create(t, s, "A", true)
	before := s.List()
	title := "x"

	_, err := s.Get(999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Update(999, model.AnnouncementPatch{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(999), ErrNotFound)

	assert.Equal(t, before, s.List())
}

func TestDeletePinnedLeavesNoPinned(t *testing.T) {
	s := newTestStore()
	create(t, s, "A", false)
	b := create(t, s, "B", true)

	require.NoError(t, s.Delete(b.ID))
	list := s.List()
	assert.Len(t, list, 1)
	assert.Zero(t, pinnedCount(list))
}

func TestListOrderingWithEqualTimestamps(t *testing.T) {
	s := NewAnnouncementStore(logger.NewNop())
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return fixed })

	a := create(t, s, "A", false)
	b := create(t, s, "B", false)
	c := create(t, s, "C", false)

	// 创建时间相同时保持插入顺序
	assert.Equal(t, []int64{a.ID, b.ID, c.ID}, ids(s.List()))
}

func TestPinUniquenessUnderRandomOperations(t *testing.T) {
	s := newTestStore()
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		list := s.List()
		switch op := r.Intn(3); {
		case op == 0 || len(list) == 0:
			_, err := s.Create(model.AnnouncementInput{Title: "t", Content: "c", IsPinned: r.Intn(2) == 0})
			require.NoError(t, err)
		case op == 1:
			pin := r.Intn(2) == 0
			_, err := s.Update(list[r.Intn(len(list))].ID, model.AnnouncementPatch{IsPinned: &pin})
			require.NoError(t, err)
		default:
			require.NoError(t, s.Delete(list[r.Intn(len(list))].ID))
		}

		list = s.List()
		require.LessOrEqual(t, pinnedCount(list), 1)
		for j := 1; j < len(list); j++ {
			require.False(t, list[j].IsPinned, "pinned record must be first")
			if j > 1 || !list[0].IsPinned {
				require.False(t, list[j].CreatedAt.After(list[j-1].CreatedAt))
			}
		}
	}
}

func TestConcurrentPinningNeverShowsTwoPinned(t *testing.T) {
	s := NewAnnouncementStore(logger.NewNop())
	for i := 0; i < 10; i++ {
		create(t, s, "A", false)
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	var violations int32

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				if pinnedCount(s.List()) > 1 {
					atomic.AddInt32(&violations, 1)
				}
			}
		}
	}()

	var writers sync.WaitGroup
	for w := 0; w < 4; w++ {
		writers.Add(1)
		go func(w int) {
			defer writers.Done()
			pin := true
			for i := 0; i < 200; i++ {
				_, _ = s.Update(int64((w+i)%10+1), model.AnnouncementPatch{IsPinned: &pin})
			}
		}(w)
	}
	writers.Wait()
	close(stop)
	wg.Wait()

	assert.Zero(t, atomic.LoadInt32(&violations))
	assert.Equal(t, 1, pinnedCount(s.List()))
}

func TestMutationsTriggerPersistAndNotify(t *testing.T) {
	s := newTestStore()
	p := &countingPersister{}
	n := &recordingNotifier{}
	s.SetPersister(p)
	s.SetNotifier(n)

	a := create(t, s, "A", true)
	b := create(t, s, "B", true)
	title := "x"
	_, err := s.Update(a.ID, model.AnnouncementPatch{Title: &title})
	require.NoError(t, err)
	require.NoError(t, s.Delete(b.ID))

	// 失败的操作不会触发
	_, _ = s.Create(model.AnnouncementInput{})
	_ = s.Delete(999)

	assert.Equal(t, int32(4), atomic.LoadInt32(&p.n))
	require.Len(t, n.events, 4)
	assert.Equal(t, EventCreated, n.events[0].Type)
	assert.Equal(t, []int64{a.ID}, n.events[1].Unpinned)
	assert.Equal(t, EventUpdated, n.events[2].Type)
	assert.Equal(t, EventDeleted, n.events[3].Type)
	assert.Equal(t, b.ID, n.events[3].Announcement.ID)
}

func TestNotifierPanicDoesNotFailMutation(t *testing.T) {
	s := newTestStore()
	s.SetNotifier(panickingNotifier{})

	a, err := s.Create(model.AnnouncementInput{Title: "A", Content: "c"})
	require.NoError(t, err)
	_, err = s.Get(a.ID)
	assert.NoError(t, err)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s := newTestStore()
	create(t, s, "A", false)
	b := create(t, s, "B", true)
	require.NoError(t, s.Delete(b.ID))
	create(t, s, "C", true)

	restored := NewAnnouncementStore(logger.NewNop())
	restored.Restore(s.Snapshot())

	assert.Equal(t, s.List(), restored.List())
	d, err := restored.Create(model.AnnouncementInput{Title: "D", Content: "d"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), d.ID)
}

func TestRestoreRepairsDuplicatePins(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewAnnouncementStore(logger.NewNop())
	s.Restore(AnnouncementState{Items: []model.Announcement{
		{ID: 5, Title: "old", Content: "c", IsPinned: true, CreatedAt: base},
		{ID: 7, Title: "new", Content: "c", IsPinned: true, CreatedAt: base.Add(time.Hour)},
		{ID: 7, Title: "dup", Content: "c"},
	}})

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, int64(7), list[0].ID)
	assert.Equal(t, 1, pinnedCount(list))
	assert.Equal(t, model.CategoryGeneral, list[0].Category)

	a, err := s.Create(model.AnnouncementInput{Title: "x", Content: "y"})
	require.NoError(t, err)
	assert.Equal(t, int64(8), a.ID)
}
