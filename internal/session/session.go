// Package session persists per-player state and serializes actions on it.
//
// A session is stored as one JSON document per player key:
//
//	{"locale": "en", "profile": {...}, "quest": {...}}
//
// Decoding is total. Records written by older versions of the bot, flat
// profiles without the session envelope and damaged documents all decode
// to a usable session.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/q587p/telegram-game-bot/internal/game/portal"
	"github.com/q587p/telegram-game-bot/internal/model"
)

// ErrCorrupt reports session data that had to be discarded while decoding.
var ErrCorrupt = errors.New("corrupt session data")

// Session is the persisted state of one player.
type Session struct {
	Locale  string        `json:"locale,omitempty"`
	Profile model.Profile `json:"profile"`
	Quest   *portal.Quest `json:"quest,omitempty"`
}

// New returns the session of a player seen for the first time.
func New(now time.Time) Session {
	return Session{Profile: model.NewProfile(now)}
}

// Decode rebuilds a session from stored bytes. It always returns a usable
// session; a non-nil error describes the parts that were discarded.
func Decode(raw []byte, now time.Time) (Session, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return New(now), fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if doc == nil {
		return New(now), fmt.Errorf("%w: empty document", ErrCorrupt)
	}

	var (
		s    Session
		errs []error
	)

	if rawLocale, ok := doc["locale"]; ok {
		if err := json.Unmarshal(rawLocale, &s.Locale); err != nil {
			errs = append(errs, fmt.Errorf("%w: locale: %v", ErrCorrupt, err))
		}
	}

	profileDoc := raw
	if rawProfile, ok := doc["profile"]; ok {
		profileDoc = rawProfile
	}
	var fields map[string]any
	if err := json.Unmarshal(profileDoc, &fields); err != nil || fields == nil {
		errs = append(errs, fmt.Errorf("%w: profile is not an object", ErrCorrupt))
	}
	s.Profile = model.MigrateMap(fields, now)

	if rawQuest, ok := doc["quest"]; ok && string(rawQuest) != "null" {
		q, err := decodeQuest(rawQuest)
		if err != nil {
			errs = append(errs, err)
		}
		s.Quest = q
	}

	return s, errors.Join(errs...)
}

// decodeQuest returns the active quest in raw, or nil when it is finished or
// malformed.
func decodeQuest(raw json.RawMessage) (*portal.Quest, error) {
	var q portal.Quest
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil, fmt.Errorf("%w: quest: %v", ErrCorrupt, err)
	}
	if !q.Active {
		return nil, nil
	}
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &q, nil
}

// Encode serializes the session for storage.
func (s *Session) Encode() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding session: %w", err)
	}
	return data, nil
}
