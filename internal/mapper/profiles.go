package mapper

import "github.com/dmitrijs2005/growthjournal/internal/models"

var UserCodec = Codec[models.User]{
	Entity:      models.EntityUser,
	Collection:  CollectionUsers,
	ParentField: FieldFamilyID,
	id:          func(u models.User) string { return u.ID },
	parent:      func(u models.User) string { return u.FamilyID },
	encode: func(u models.User, w *fieldWriter) {
		w.str("email", u.Email)
		w.optStr("displayName", u.DisplayName)
		w.optStr("profileImageUrl", u.ProfileImageURL)
		w.millis(FieldCreatedAt, u.CreatedAt)
		w.millis(FieldUpdatedAt, u.UpdatedAt)
		w.optStr(FieldFamilyID, u.FamilyID)
		w.boolean("isPartner", u.IsPartner)
	},
	decode: func(r *fieldReader) models.User {
		return models.User{
			ID:              r.doc.ID,
			Email:           r.str("email"),
			DisplayName:     r.optStr("displayName"),
			ProfileImageURL: r.optStr("profileImageUrl"),
			CreatedAt:       r.millis(FieldCreatedAt),
			UpdatedAt:       r.millis(FieldUpdatedAt),
			FamilyID:        r.optStr(FieldFamilyID),
			IsPartner:       r.boolean("isPartner"),
			Synced:          true,
		}
	},
}

var ChildCodec = Codec[models.Child]{
	Entity:      models.EntityChild,
	Collection:  CollectionChildren,
	ParentField: FieldUserID,
	id:          func(c models.Child) string { return c.ID },
	parent:      func(c models.Child) string { return c.UserID },
	encode: func(c models.Child, w *fieldWriter) {
		w.ref(FieldUserID, c.UserID)
		w.str("name", c.Name)
		w.date("birthDate", c.BirthDate)
		enum(w, "gender", c.Gender, models.ParseGender)
		w.optStr("profileImageUrl", c.ProfileImageURL)
		w.millis(FieldCreatedAt, c.CreatedAt)
		w.millis(FieldUpdatedAt, c.UpdatedAt)
	},
	decode: func(r *fieldReader) models.Child {
		return models.Child{
			ID:              r.doc.ID,
			UserID:          r.str(FieldUserID),
			Name:            r.str("name"),
			BirthDate:       r.date("birthDate"),
			Gender:          parseEnum(r, "gender", models.ParseGender),
			ProfileImageURL: r.optStr("profileImageUrl"),
			CreatedAt:       r.millis(FieldCreatedAt),
			UpdatedAt:       r.millis(FieldUpdatedAt),
			Synced:          true,
		}
	},
}
