package repositories

import (
	"github.com/dmitrijs2005/growthjournal/internal/mapper"
	"github.com/dmitrijs2005/growthjournal/internal/models"
)

var userDef = tableDef[models.User]{
	name:         mapper.CollectionUsers,
	columns:      []string{"id", "email", "display_name", "profile_image_url", "created_at", "updated_at", "family_id", "is_partner", "synced"},
	parentColumn: "family_id",
	flagColumn:   "synced",
	args: func(u models.User) []any {
		return []any{u.ID, u.Email, u.DisplayName, u.ProfileImageURL, u.CreatedAt, u.UpdatedAt, u.FamilyID, u.IsPartner, u.Synced}
	},
	scan: func(s scanner) (models.User, error) {
		var u models.User
		err := s.Scan(&u.ID, &u.Email, &u.DisplayName, &u.ProfileImageURL, &u.CreatedAt, &u.UpdatedAt, &u.FamilyID, &u.IsPartner, &u.Synced)
		return u, err
	},
}

var childDef = tableDef[models.Child]{
	name:         mapper.CollectionChildren,
	columns:      []string{"id", "user_id", "name", "birth_date", "gender", "profile_image_url", "created_at", "updated_at", "synced"},
	parentColumn: "user_id",
	flagColumn:   "synced",
	args: func(c models.Child) []any {
		return []any{c.ID, c.UserID, c.Name, c.BirthDate, c.Gender, c.ProfileImageURL, c.CreatedAt, c.UpdatedAt, c.Synced}
	},
	scan: func(s scanner) (models.Child, error) {
		var c models.Child
		err := s.Scan(&c.ID, &c.UserID, &c.Name, &c.BirthDate, &c.Gender, &c.ProfileImageURL, &c.CreatedAt, &c.UpdatedAt, &c.Synced)
		return c, err
	},
}

var diaryDef = tableDef[models.Diary]{
	name:         mapper.CollectionDiaries,
	columns:      []string{"id", "child_id", "title", "content", "media_ids", "date", "created_at", "updated_at", "synced"},
	parentColumn: "child_id",
	flagColumn:   "synced",
	args: func(d models.Diary) []any {
		return []any{d.ID, d.ChildID, d.Title, d.Content, mapper.EncodeIDs(d.MediaIDs), d.Date, d.CreatedAt, d.UpdatedAt, d.Synced}
	},
	scan: func(s scanner) (models.Diary, error) {
		var (
			d   models.Diary
			ids string
		)
		err := s.Scan(&d.ID, &d.ChildID, &d.Title, &d.Content, &ids, &d.Date, &d.CreatedAt, &d.UpdatedAt, &d.Synced)
		d.MediaIDs = mapper.DecodeIDs(ids)
		return d, err
	},
}

var mediaDef = tableDef[models.Media]{
	name:         mapper.CollectionMedia,
	columns:      []string{"id", "child_id", "type", "url", "thumbnail_url", "caption", "taken_at", "uploaded_at", "uploaded", "local_path"},
	parentColumn: "child_id",
	flagColumn:   "uploaded",
	args: func(m models.Media) []any {
		return []any{m.ID, m.ChildID, m.Type, m.URL, m.ThumbnailURL, m.Caption, m.TakenAt, m.UploadedAt, m.Uploaded, m.LocalPath}
	},
	scan: func(s scanner) (models.Media, error) {
		var m models.Media
		err := s.Scan(&m.ID, &m.ChildID, &m.Type, &m.URL, &m.ThumbnailURL, &m.Caption, &m.TakenAt, &m.UploadedAt, &m.Uploaded, &m.LocalPath)
		return m, err
	},
}

var growthRecordDef = tableDef[models.GrowthRecord]{
	name:         mapper.CollectionGrowthRecords,
	columns:      []string{"id", "child_id", "height", "weight", "head_circumference", "recorded_at", "notes", "created_at", "synced"},
	parentColumn: "child_id",
	flagColumn:   "synced",
	args: func(g models.GrowthRecord) []any {
		return []any{g.ID, g.ChildID, g.Height, g.Weight, g.HeadCircumference, g.RecordedAt, g.Notes, g.CreatedAt, g.Synced}
	},
	scan: func(s scanner) (models.GrowthRecord, error) {
		var g models.GrowthRecord
		err := s.Scan(&g.ID, &g.ChildID, &g.Height, &g.Weight, &g.HeadCircumference, &g.RecordedAt, &g.Notes, &g.CreatedAt, &g.Synced)
		return g, err
	},
}

var eventDef = tableDef[models.Event]{
	name:         mapper.CollectionEvents,
	columns:      []string{"id", "child_id", "title", "description", "event_date", "media_ids", "type", "created_at", "updated_at", "synced"},
	parentColumn: "child_id",
	flagColumn:   "synced",
	args: func(e models.Event) []any {
		return []any{e.ID, e.ChildID, e.Title, e.Description, e.EventDate, mapper.EncodeIDs(e.MediaIDs), e.Type, e.CreatedAt, e.UpdatedAt, e.Synced}
	},
	scan: func(s scanner) (models.Event, error) {
		var (
			e   models.Event
			ids string
		)
		err := s.Scan(&e.ID, &e.ChildID, &e.Title, &e.Description, &e.EventDate, &ids, &e.Type, &e.CreatedAt, &e.UpdatedAt, &e.Synced)
		e.MediaIDs = mapper.DecodeIDs(ids)
		return e, err
	},
}

var milestoneDef = tableDef[models.Milestone]{
	name:         mapper.CollectionMilestones,
	columns:      []string{"id", "child_id", "type", "title", "description", "achieved_at", "media_ids", "created_at", "synced"},
	parentColumn: "child_id",
	flagColumn:   "synced",
	args: func(m models.Milestone) []any {
		return []any{m.ID, m.ChildID, m.Type, m.Title, m.Description, m.AchievedAt, mapper.EncodeIDs(m.MediaIDs), m.CreatedAt, m.Synced}
	},
	scan: func(s scanner) (models.Milestone, error) {
		var (
			m   models.Milestone
			ids string
		)
		err := s.Scan(&m.ID, &m.ChildID, &m.Type, &m.Title, &m.Description, &m.AchievedAt, &ids, &m.CreatedAt, &m.Synced)
		m.MediaIDs = mapper.DecodeIDs(ids)
		return m, err
	},
}
