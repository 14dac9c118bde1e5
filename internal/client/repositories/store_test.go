package repositories

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/growthjournal/internal/models"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = models.Date{Year: 2024, Month: time.May, Day: 1}

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedChild(t *testing.T, s *Store, id string) models.Child {
	t.Helper()
	c := models.Child{ID: id, UserID: "u-1", Name: "Mia", BirthDate: day, Gender: models.GenderFemale, CreatedAt: 1, UpdatedAt: 2}
	require.NoError(t, s.Children.Upsert(context.Background(), c))
	return c
}

func TestOpen_CreatesTables(t *testing.T) {
	s := openStore(t)
	for _, name := range []string{"users", "children", "diaries", "media", "growth_records", "events", "milestones", "pending_deletes", "goose_db_version"} {
		var n int
		err := s.DB().QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "table %s", name)
	}
}

func TestRunMigrations_PropagatesError(t *testing.T) {
	orig := gooseUp
	t.Cleanup(func() { gooseUp = orig })
	gooseUp = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return assert.AnError
	}

	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "journal.db"))
	require.ErrorIs(t, err, assert.AnError)
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "a.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", DSN("a.db"))
	assert.Equal(t, "file:x?mode=memory&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", DSN("file:x?mode=memory"))
}

func TestTable_UpsertGetListDirtyMarkSynced(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	seedChild(t, s, "c-1")

	d := models.Diary{ID: "d-1", ChildID: "c-1", Title: "t", Content: "c", MediaIDs: []string{"m-2", "m-1"}, Date: day, CreatedAt: 10, UpdatedAt: 11}
	require.NoError(t, s.Diaries.Upsert(ctx, d))
	// idempotent
	require.NoError(t, s.Diaries.Upsert(ctx, d))

	got, err := s.Diaries.GetByID(ctx, "d-1")
	require.NoError(t, err)
	assert.Equal(t, d, got)

	dirty, err := s.Diaries.ListDirty(ctx)
	require.NoError(t, err)
	require.Len(t, dirty, 1)

	require.NoError(t, s.Diaries.MarkSynced(ctx, "d-1"))
	dirty, err = s.Diaries.ListDirty(ctx)
	require.NoError(t, err)
	assert.Empty(t, dirty)

	got, err = s.Diaries.GetByID(ctx, "d-1")
	require.NoError(t, err)
	assert.True(t, got.Synced)
	assert.Equal(t, d.Title, got.Title)
	assert.Equal(t, []string{"m-2", "m-1"}, got.MediaIDs)
}

func TestTable_GetByIDNotFound(t *testing.T) {
	s := openStore(t)
	_, err := s.Children.GetByID(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTable_DeleteByIDIdempotent(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	seedChild(t, s, "c-1")
	require.NoError(t, s.Children.DeleteByID(ctx, "c-1"))
	require.NoError(t, s.Children.DeleteByID(ctx, "c-1"))
	_, err := s.Children.GetByID(ctx, "c-1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTable_UpsertKeepsDependants(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	c := seedChild(t, s, "c-1")
	require.NoError(t, s.Events.Upsert(ctx, models.Event{ID: "e-1", ChildID: "c-1", Title: "x", EventDate: day, Type: models.EventCustom}))

	c.Name = "Renamed"
	require.NoError(t, s.Children.Upsert(ctx, c))

	evs, err := s.Events.ListByParent(ctx, "c-1")
	require.NoError(t, err)
	assert.Len(t, evs, 1)
}

func TestTable_ForeignKeyRejectsOrphans(t *testing.T) {
	s := openStore(t)
	err := s.Milestones.Upsert(context.Background(), models.Milestone{ID: "ms-1", ChildID: "ghost", Type: models.MilestoneMotor, Title: "x", AchievedAt: day})
	require.Error(t, err)
}

func TestGrowthRecord_NullableMeasurements(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	seedChild(t, s, "c-1")
	w := 4.2
	require.NoError(t, s.GrowthRecords.Upsert(ctx, models.GrowthRecord{ID: "g-1", ChildID: "c-1", Weight: &w, RecordedAt: day}))

	got, err := s.GrowthRecords.GetByID(ctx, "g-1")
	require.NoError(t, err)
	assert.Nil(t, got.Height)
	assert.Nil(t, got.HeadCircumference)
	require.NotNil(t, got.Weight)
	assert.Equal(t, 4.2, *got.Weight)
}

func TestMedia_DirtyUntilUploaded(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	seedChild(t, s, "c-1")
	m := models.Media{ID: "m-1", ChildID: "c-1", Type: models.MediaPhoto, Caption: "cap", TakenAt: 5, LocalPath: "/tmp/p.jpg"}
	require.NoError(t, s.Media.Upsert(ctx, m))

	dirty, err := s.Media.ListDirty(ctx)
	require.NoError(t, err)
	require.Len(t, dirty, 1)

	require.NoError(t, s.Media.MarkUploaded(ctx, "m-1", "https://cdn/x"))
	got, err := s.Media.GetByID(ctx, "m-1")
	require.NoError(t, err)
	assert.True(t, got.Uploaded)
	assert.Equal(t, "https://cdn/x", got.URL)
	assert.Empty(t, got.LocalPath)
	assert.Equal(t, "cap", got.Caption)

	dirty, err = s.Media.ListDirty(ctx)
	require.NoError(t, err)
	assert.Empty(t, dirty)
}

func TestListDirty_IsSnapshot(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	seedChild(t, s, "c-1")
	seedChild(t, s, "c-2")

	dirty, err := s.Children.ListDirty(ctx)
	require.NoError(t, err)
	require.Len(t, dirty, 2)

	// writes after the call do not change what was returned
	require.NoError(t, s.Children.MarkSynced(ctx, "c-1"))
	seedChild(t, s, "c-3")
	assert.Len(t, dirty, 2)
	assert.False(t, dirty[0].Synced)
}

func TestDeleteChildCascade(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	seedChild(t, s, "c-1")
	seedChild(t, s, "c-2")

	require.NoError(t, s.Diaries.Upsert(ctx, models.Diary{ID: "d-1", ChildID: "c-1", Date: day}))
	require.NoError(t, s.Media.Upsert(ctx, models.Media{ID: "m-1", ChildID: "c-1", Type: models.MediaVideo}))
	require.NoError(t, s.GrowthRecords.Upsert(ctx, models.GrowthRecord{ID: "g-1", ChildID: "c-1", RecordedAt: day}))
	require.NoError(t, s.Events.Upsert(ctx, models.Event{ID: "e-1", ChildID: "c-1", EventDate: day, Type: models.EventCeremony}))
	require.NoError(t, s.Milestones.Upsert(ctx, models.Milestone{ID: "ms-1", ChildID: "c-1", Type: models.MilestoneSocial, AchievedAt: day}))
	require.NoError(t, s.Diaries.Upsert(ctx, models.Diary{ID: "d-2", ChildID: "c-2", Date: day}))

	require.NoError(t, s.DeleteChildCascade(ctx, "c-1"))

	for name, list := range map[string]func() (int, error){
		"diaries":        func() (int, error) { v, err := s.Diaries.ListByParent(ctx, "c-1"); return len(v), err },
		"media":          func() (int, error) { v, err := s.Media.ListByParent(ctx, "c-1"); return len(v), err },
		"growth_records": func() (int, error) { v, err := s.GrowthRecords.ListByParent(ctx, "c-1"); return len(v), err },
		"events":         func() (int, error) { v, err := s.Events.ListByParent(ctx, "c-1"); return len(v), err },
		"milestones":     func() (int, error) { v, err := s.Milestones.ListByParent(ctx, "c-1"); return len(v), err },
	} {
		n, err := list()
		require.NoError(t, err)
		assert.Zero(t, n, name)
	}

	other, err := s.Diaries.ListByParent(ctx, "c-2")
	require.NoError(t, err)
	assert.Len(t, other, 1)

	ts, err := s.ListTombstones(ctx)
	require.NoError(t, err)
	got := map[string]string{}
	for _, tb := range ts {
		got[tb.Collection] = tb.ID
	}
	assert.Equal(t, map[string]string{
		"children":       "c-1",
		"diaries":        "d-1",
		"media":          "m-1",
		"growth_records": "g-1",
		"events":         "e-1",
		"milestones":     "ms-1",
	}, got)
}

func TestTombstones(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	require.NoError(t, s.AddTombstone(ctx, "diaries", "d-1"))
	require.NoError(t, s.AddTombstone(ctx, "diaries", "d-1"))

	ok, err := s.HasTombstone(ctx, "diaries", "d-1")
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := s.ListTombstones(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, s.RemoveTombstone(ctx, "diaries", "d-1"))
	ok, err = s.HasTombstone(ctx, "diaries", "d-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteWithTombstone(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	seedChild(t, s, "c-1")
	require.NoError(t, s.Events.Upsert(ctx, models.Event{ID: "e-1", ChildID: "c-1", EventDate: day, Type: models.EventCustom}))

	require.NoError(t, s.DeleteWithTombstone(ctx, "events", "e-1"))
	_, err := s.Events.GetByID(ctx, "e-1")
	require.ErrorIs(t, err, ErrNotFound)
	ok, err := s.HasTombstone(ctx, "events", "e-1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.Error(t, s.DeleteWithTombstone(ctx, "nope", "x"))
}

func TestObserve_EmitsOnWrites(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := openStore(t)
	seedChild(t, s, "c-1")

	ch := s.Diaries.Observe(ctx, "c-1")
	first := <-ch
	assert.Empty(t, first)

	require.NoError(t, s.Diaries.Upsert(ctx, models.Diary{ID: "d-1", ChildID: "c-1", Date: day}))

	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-ch:
			if len(snap) == 1 {
				assert.Equal(t, "d-1", snap[0].ID)
				cancel()
				for range ch {
				}
				return
			}
		case <-deadline:
			t.Fatal("no snapshot after write")
		}
	}
}

func TestObserve_CascadeNotifies(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := openStore(t)
	seedChild(t, s, "c-1")
	require.NoError(t, s.Media.Upsert(ctx, models.Media{ID: "m-1", ChildID: "c-1", Type: models.MediaPhoto}))

	ch := s.Media.Observe(ctx, "c-1")
	require.Len(t, <-ch, 1)

	require.NoError(t, s.DeleteChildCascade(ctx, "c-1"))

	select {
	case snap := <-ch:
		assert.Empty(t, snap)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot after cascade delete")
	}
}
