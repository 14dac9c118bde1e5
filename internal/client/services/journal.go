package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/growthjournal/internal/client/repositories"
	"github.com/dmitrijs2005/growthjournal/internal/client/syncer"
	"github.com/dmitrijs2005/growthjournal/internal/logging"
	"github.com/dmitrijs2005/growthjournal/internal/mapper"
	"github.com/dmitrijs2005/growthjournal/internal/models"
	"github.com/google/uuid"
)

var (
	ErrChildNotFound = errors.New("child not found")
	ErrInvalidInput  = errors.New("invalid input")
	// ErrPartialDelete means the record is gone locally but its remote copy
	// is not yet; the next sync retries.
	ErrPartialDelete = errors.New("deleted locally, remote delete pending")
)

// DeleteFlusher replays pending deletes against the remote store.
type DeleteFlusher interface {
	FlushDeletes(ctx context.Context) (*syncer.Result, error)
}

// Journal is the write side used by the CLI. Every write lands in the local
// store marked dirty; the sync engine carries it to the remote store later.
type Journal struct {
	store   *repositories.Store
	flusher DeleteFlusher
	userID  string
	log     logging.Logger

	now   func() time.Time
	newID func() string
}

func NewJournal(store *repositories.Store, flusher DeleteFlusher, userID string, log logging.Logger) *Journal {
	return &Journal{
		store:   store,
		flusher: flusher,
		userID:  userID,
		log:     log.With("module", "journal"),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func (j *Journal) UserID() string { return j.userID }

func (j *Journal) stamp() models.Millis { return models.MillisOf(j.now()) }

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func checkMediaIDs(ids []string) error {
	for _, id := range ids {
		if !mapper.ValidID(id) {
			return invalid("media id %q", id)
		}
	}
	return nil
}

func (j *Journal) requireChild(ctx context.Context, childID string) error {
	_, err := j.store.Children.GetByID(ctx, childID)
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrChildNotFound, childID)
	}
	return err
}

// SaveUser stores the current user's profile, keeping the original creation time.
func (j *Journal) SaveUser(ctx context.Context, u models.User) (models.User, error) {
	if u.Email == "" {
		return u, invalid("email is required")
	}
	u.ID = j.userID
	now := j.stamp()
	existing, err := j.store.Users.GetByID(ctx, u.ID)
	switch {
	case err == nil:
		u.CreatedAt = existing.CreatedAt
	case errors.Is(err, repositories.ErrNotFound):
		u.CreatedAt = now
	default:
		return u, err
	}
	u.UpdatedAt = now
	u.Synced = false
	return u, j.store.Users.Upsert(ctx, u)
}

// CreateChild adds a child owned by the current user.
func (j *Journal) CreateChild(ctx context.Context, c models.Child) (models.Child, error) {
	if c.Name == "" {
		return c, invalid("name is required")
	}
	if c.BirthDate.IsZero() {
		return c, invalid("birth date is required")
	}
	if _, err := models.ParseGender(string(c.Gender)); err != nil {
		return c, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	now := j.stamp()
	c.ID = j.newID()
	c.UserID = j.userID
	c.CreatedAt, c.UpdatedAt = now, now
	c.Synced = false
	return c, j.store.Children.Upsert(ctx, c)
}

func (j *Journal) AddDiary(ctx context.Context, d models.Diary) (models.Diary, error) {
	if d.Date.IsZero() {
		return d, invalid("date is required")
	}
	if err := checkMediaIDs(d.MediaIDs); err != nil {
		return d, err
	}
	if err := j.requireChild(ctx, d.ChildID); err != nil {
		return d, err
	}
	now := j.stamp()
	d.ID = j.newID()
	d.CreatedAt, d.UpdatedAt = now, now
	d.Synced = false
	return d, j.store.Diaries.Upsert(ctx, d)
}

func (j *Journal) AddGrowthRecord(ctx context.Context, g models.GrowthRecord) (models.GrowthRecord, error) {
	if err := g.Validate(); err != nil {
		return g, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if g.RecordedAt.IsZero() {
		return g, invalid("recorded date is required")
	}
	if err := j.requireChild(ctx, g.ChildID); err != nil {
		return g, err
	}
	g.ID = j.newID()
	g.CreatedAt = j.stamp()
	g.Synced = false
	return g, j.store.GrowthRecords.Upsert(ctx, g)
}

func (j *Journal) AddEvent(ctx context.Context, e models.Event) (models.Event, error) {
	if e.Title == "" || e.EventDate.IsZero() {
		return e, invalid("title and date are required")
	}
	if _, err := models.ParseEventType(string(e.Type)); err != nil {
		return e, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := checkMediaIDs(e.MediaIDs); err != nil {
		return e, err
	}
	if err := j.requireChild(ctx, e.ChildID); err != nil {
		return e, err
	}
	now := j.stamp()
	e.ID = j.newID()
	e.CreatedAt, e.UpdatedAt = now, now
	e.Synced = false
	return e, j.store.Events.Upsert(ctx, e)
}

func (j *Journal) AddMilestone(ctx context.Context, m models.Milestone) (models.Milestone, error) {
	if m.Title == "" || m.AchievedAt.IsZero() {
		return m, invalid("title and date are required")
	}
	if _, err := models.ParseMilestoneType(string(m.Type)); err != nil {
		return m, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := checkMediaIDs(m.MediaIDs); err != nil {
		return m, err
	}
	if err := j.requireChild(ctx, m.ChildID); err != nil {
		return m, err
	}
	m.ID = j.newID()
	m.CreatedAt = j.stamp()
	m.Synced = false
	return m, j.store.Milestones.Upsert(ctx, m)
}

// AddMedia registers a local file. It is uploaded on the next sync.
func (j *Journal) AddMedia(ctx context.Context, m models.Media) (models.Media, error) {
	if m.LocalPath == "" {
		return m, invalid("file path is required")
	}
	if _, err := models.ParseMediaType(string(m.Type)); err != nil {
		return m, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := j.requireChild(ctx, m.ChildID); err != nil {
		return m, err
	}
	m.ID = j.newID()
	if m.TakenAt == 0 {
		m.TakenAt = j.stamp()
	}
	m.URL = ""
	m.UploadedAt = 0
	m.Uploaded = false
	return m, j.store.Media.Upsert(ctx, m)
}

// Children lists the children visible to the user: their own and those of
// users sharing their family.
func (j *Journal) Children(ctx context.Context) ([]models.Child, error) {
	owners := []string{j.userID}
	u, err := j.store.Users.GetByID(ctx, j.userID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if err == nil && u.FamilyID != "" {
		family, err := j.store.Users.ListByParent(ctx, u.FamilyID)
		if err != nil {
			return nil, err
		}
		for _, m := range family {
			owners = append(owners, m.ID)
		}
	}
	slices.Sort(owners)
	owners = slices.Compact(owners)

	var out []models.Child
	for _, o := range owners {
		cs, err := j.store.Children.ListByParent(ctx, o)
		if err != nil {
			return nil, err
		}
		out = append(out, cs...)
	}
	return out, nil
}

// WatchDiaries streams the diary entries of a child as they change.
func (j *Journal) WatchDiaries(ctx context.Context, childID string) <-chan []models.Diary {
	return j.store.Diaries.Observe(ctx, childID)
}

// DeleteChild removes a child and everything recorded for it, locally at
// once and remotely as far as the remote store allows. ErrPartialDelete
// reports that some remote deletes are still pending.
func (j *Journal) DeleteChild(ctx context.Context, childID string) error {
	if err := j.requireChild(ctx, childID); err != nil {
		return err
	}
	if err := j.store.DeleteChildCascade(ctx, childID); err != nil {
		return err
	}
	return j.flush(ctx)
}

// DeleteEntity removes one child-scoped record the same way DeleteChild does.
func (j *Journal) DeleteEntity(ctx context.Context, entity models.EntityType, id string) error {
	if entity == models.EntityChild {
		return j.DeleteChild(ctx, id)
	}
	if !slices.Contains(models.ChildScoped, entity) {
		return invalid("cannot delete %s records", entity)
	}
	if err := j.store.DeleteWithTombstone(ctx, mapper.CollectionOf(entity), id); err != nil {
		return err
	}
	return j.flush(ctx)
}

func (j *Journal) flush(ctx context.Context) error {
	res, err := j.flusher.FlushDeletes(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPartialDelete, err)
	}
	for _, t := range res.Types {
		if t.Failed > 0 {
			j.log.Warn(ctx, "remote delete pending", "entity", t.Entity, "failed", t.Failed)
			if len(t.Failures) > 0 {
				return fmt.Errorf("%w: %w", ErrPartialDelete, t.Failures[0].Err)
			}
			return ErrPartialDelete
		}
	}
	return nil
}
