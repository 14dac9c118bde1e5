package mapper

import "github.com/dmitrijs2005/growthjournal/internal/models"

var DiaryCodec = Codec[models.Diary]{
	Entity:      models.EntityDiary,
	Collection:  CollectionDiaries,
	ParentField: FieldChildID,
	id:          func(d models.Diary) string { return d.ID },
	parent:      func(d models.Diary) string { return d.ChildID },
	encode: func(d models.Diary, w *fieldWriter) {
		w.ref(FieldChildID, d.ChildID)
		w.str("title", d.Title)
		w.str("content", d.Content)
		w.ids(FieldMediaIDs, d.MediaIDs)
		w.date("date", d.Date)
		w.millis(FieldCreatedAt, d.CreatedAt)
		w.millis(FieldUpdatedAt, d.UpdatedAt)
	},
	decode: func(r *fieldReader) models.Diary {
		return models.Diary{
			ID:        r.doc.ID,
			ChildID:   r.str(FieldChildID),
			Title:     r.str("title"),
			Content:   r.str("content"),
			MediaIDs:  r.ids(FieldMediaIDs),
			Date:      r.date("date"),
			CreatedAt: r.millis(FieldCreatedAt),
			UpdatedAt: r.millis(FieldUpdatedAt),
			Synced:    true,
		}
	},
}

var MediaCodec = Codec[models.Media]{
	Entity:      models.EntityMedia,
	Collection:  CollectionMedia,
	ParentField: FieldChildID,
	id:          func(m models.Media) string { return m.ID },
	parent:      func(m models.Media) string { return m.ChildID },
	encode: func(m models.Media, w *fieldWriter) {
		w.ref(FieldChildID, m.ChildID)
		enum(w, "type", m.Type, models.ParseMediaType)
		w.str("url", m.URL)
		w.optStr("thumbnailUrl", m.ThumbnailURL)
		w.optStr("caption", m.Caption)
		w.millis("takenAt", m.TakenAt)
		w.optMillis("uploadedAt", m.UploadedAt)
	},
	decode: func(r *fieldReader) models.Media {
		return models.Media{
			ID:           r.doc.ID,
			ChildID:      r.str(FieldChildID),
			Type:         parseEnum(r, "type", models.ParseMediaType),
			URL:          r.str("url"),
			ThumbnailURL: r.optStr("thumbnailUrl"),
			Caption:      r.optStr("caption"),
			TakenAt:      r.millis("takenAt"),
			UploadedAt:   r.optMillis("uploadedAt"),
			Uploaded:     true,
			LocalPath:    "",
		}
	},
}

var GrowthRecordCodec = Codec[models.GrowthRecord]{
	Entity:      models.EntityGrowthRecord,
	Collection:  CollectionGrowthRecords,
	ParentField: FieldChildID,
	id:          func(g models.GrowthRecord) string { return g.ID },
	parent:      func(g models.GrowthRecord) string { return g.ChildID },
	encode: func(g models.GrowthRecord, w *fieldWriter) {
		w.ref(FieldChildID, g.ChildID)
		w.optFloat("height", g.Height)
		w.optFloat("weight", g.Weight)
		w.optFloat("headCircumference", g.HeadCircumference)
		w.date("recordedAt", g.RecordedAt)
		w.optStr("notes", g.Notes)
		w.millis(FieldCreatedAt, g.CreatedAt)
	},
	decode: func(r *fieldReader) models.GrowthRecord {
		return models.GrowthRecord{
			ID:                r.doc.ID,
			ChildID:           r.str(FieldChildID),
			Height:            r.optFloat("height"),
			Weight:            r.optFloat("weight"),
			HeadCircumference: r.optFloat("headCircumference"),
			RecordedAt:        r.date("recordedAt"),
			Notes:             r.optStr("notes"),
			CreatedAt:         r.millis(FieldCreatedAt),
			Synced:            true,
		}
	},
	check: func(g models.GrowthRecord) (string, error) {
		return "height", g.Validate()
	},
}

var EventCodec = Codec[models.Event]{
	Entity:      models.EntityEvent,
	Collection:  CollectionEvents,
	ParentField: FieldChildID,
	id:          func(e models.Event) string { return e.ID },
	parent:      func(e models.Event) string { return e.ChildID },
	encode: func(e models.Event, w *fieldWriter) {
		w.ref(FieldChildID, e.ChildID)
		w.str("title", e.Title)
		w.optStr("description", e.Description)
		w.date("eventDate", e.EventDate)
		w.ids(FieldMediaIDs, e.MediaIDs)
		enum(w, "eventType", e.Type, models.ParseEventType)
		w.millis(FieldCreatedAt, e.CreatedAt)
		w.millis(FieldUpdatedAt, e.UpdatedAt)
	},
	decode: func(r *fieldReader) models.Event {
		return models.Event{
			ID:          r.doc.ID,
			ChildID:     r.str(FieldChildID),
			Title:       r.str("title"),
			Description: r.optStr("description"),
			EventDate:   r.date("eventDate"),
			MediaIDs:    r.ids(FieldMediaIDs),
			Type:        parseEnum(r, "eventType", models.ParseEventType),
			CreatedAt:   r.millis(FieldCreatedAt),
			UpdatedAt:   r.millis(FieldUpdatedAt),
			Synced:      true,
		}
	},
}

var MilestoneCodec = Codec[models.Milestone]{
	Entity:      models.EntityMilestone,
	Collection:  CollectionMilestones,
	ParentField: FieldChildID,
	id:          func(m models.Milestone) string { return m.ID },
	parent:      func(m models.Milestone) string { return m.ChildID },
	encode: func(m models.Milestone, w *fieldWriter) {
		w.ref(FieldChildID, m.ChildID)
		enum(w, "type", m.Type, models.ParseMilestoneType)
		w.str("title", m.Title)
		w.optStr("description", m.Description)
		w.date("achievedAt", m.AchievedAt)
		w.ids(FieldMediaIDs, m.MediaIDs)
		w.millis(FieldCreatedAt, m.CreatedAt)
	},
	decode: func(r *fieldReader) models.Milestone {
		return models.Milestone{
			ID:          r.doc.ID,
			ChildID:     r.str(FieldChildID),
			Type:        parseEnum(r, "type", models.ParseMilestoneType),
			Title:       r.str("title"),
			Description: r.optStr("description"),
			AchievedAt:  r.date("achievedAt"),
			MediaIDs:    r.ids(FieldMediaIDs),
			CreatedAt:   r.millis(FieldCreatedAt),
			Synced:      true,
		}
	},
}

// CollectionOf returns the remote collection for an entity type.
func CollectionOf(t models.EntityType) string {
	switch t {
	case models.EntityUser:
		return CollectionUsers
	case models.EntityChild:
		return CollectionChildren
	case models.EntityDiary:
		return CollectionDiaries
	case models.EntityMedia:
		return CollectionMedia
	case models.EntityGrowthRecord:
		return CollectionGrowthRecords
	case models.EntityEvent:
		return CollectionEvents
	case models.EntityMilestone:
		return CollectionMilestones
	}
	return ""
}
