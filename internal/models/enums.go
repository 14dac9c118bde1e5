package models

import (
	"errors"
	"fmt"
)

var ErrUnknownEnum = errors.New("unknown enum value")

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

func ParseGender(s string) (Gender, error) {
	switch g := Gender(s); g {
	case GenderMale, GenderFemale, GenderOther:
		return g, nil
	}
	return "", fmt.Errorf("%w: gender %q", ErrUnknownEnum, s)
}

type MediaType string

const (
	MediaPhoto MediaType = "PHOTO"
	MediaVideo MediaType = "VIDEO"
	MediaEcho  MediaType = "ECHO"
)

func ParseMediaType(s string) (MediaType, error) {
	switch t := MediaType(s); t {
	case MediaPhoto, MediaVideo, MediaEcho:
		return t, nil
	}
	return "", fmt.Errorf("%w: media type %q", ErrUnknownEnum, s)
}

type EventType string

const (
	EventBirthday  EventType = "BIRTHDAY"
	EventFirstStep EventType = "FIRST_STEP"
	EventCeremony  EventType = "CEREMONY"
	EventCustom    EventType = "CUSTOM"
)

func ParseEventType(s string) (EventType, error) {
	switch t := EventType(s); t {
	case EventBirthday, EventFirstStep, EventCeremony, EventCustom:
		return t, nil
	}
	return "", fmt.Errorf("%w: event type %q", ErrUnknownEnum, s)
}

type MilestoneType string

const (
	MilestoneMotor     MilestoneType = "MOTOR"
	MilestoneLanguage  MilestoneType = "LANGUAGE"
	MilestoneSocial    MilestoneType = "SOCIAL"
	MilestoneCognitive MilestoneType = "COGNITIVE"
)

func ParseMilestoneType(s string) (MilestoneType, error) {
	switch t := MilestoneType(s); t {
	case MilestoneMotor, MilestoneLanguage, MilestoneSocial, MilestoneCognitive:
		return t, nil
	}
	return "", fmt.Errorf("%w: milestone type %q", ErrUnknownEnum, s)
}
