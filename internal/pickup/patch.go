package pickup

import (
	"fmt"
	"strings"
	"time"
)

// GamePatch lists the fields a host may edit independently. Nil means
// "leave as is".
type GamePatch struct {
	Sport            *string    `json:"sport,omitempty"`
	Title            *string    `json:"title,omitempty"`
	Description      *string    `json:"description,omitempty"`
	DateTime         *time.Time `json:"dateTime,omitempty"`
	Duration         *int       `json:"duration,omitempty"`
	SkillRequirement *string    `json:"skillRequirement,omitempty"`
	MaxPlayers       *int       `json:"maxPlayers,omitempty"`
	IsPrivate        *bool      `json:"isPrivate,omitempty"`
	Location         *Location  `json:"location,omitempty"`
}

// RowPatch is the partial row a GamePatch maps to. Only set fields are
// serialized, so a store applying it never touches anything else.
type RowPatch struct {
	Sport            *string  `json:"sport,omitempty"`
	Title            *string  `json:"title,omitempty"`
	Description      *string  `json:"description,omitempty"`
	DateTime         *string  `json:"date_time,omitempty"`
	Duration         *int     `json:"duration,omitempty"`
	SkillRequirement *string  `json:"skill_requirement,omitempty"`
	MaxPlayers       *int     `json:"max_players,omitempty"`
	IsPrivate        *bool    `json:"is_private,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	AreaName         *string  `json:"area_name,omitempty"`
}

func (p RowPatch) Empty() bool { return p == RowPatch{} }

func ptr[T any](v T) *T { return &v }

// ToUpdatePatch validates the provided fields and maps them to a RowPatch.
func ToUpdatePatch(p GamePatch) (RowPatch, error) {
	var out RowPatch
	var problems []string

	if p.Sport != nil {
		if s := strings.TrimSpace(*p.Sport); s == "" {
			problems = append(problems, "sport cannot be blank")
		} else {
			out.Sport = ptr(s)
		}
	}
	if p.Title != nil {
		if s := strings.TrimSpace(*p.Title); s == "" {
			problems = append(problems, "title cannot be blank")
		} else {
			out.Title = ptr(s)
		}
	}
	if p.Description != nil {
		out.Description = ptr(strings.TrimSpace(*p.Description))
	}
	if p.DateTime != nil {
		if p.DateTime.IsZero() {
			problems = append(problems, "date and time cannot be blank")
		} else {
			out.DateTime = ptr(p.DateTime.UTC().Format(TimeLayout))
		}
	}
	if p.Duration != nil {
		if *p.Duration <= 0 {
			problems = append(problems, "duration must be positive")
		} else {
			out.Duration = ptr(*p.Duration)
		}
	}
	if p.SkillRequirement != nil {
		out.SkillRequirement = ptr(strings.TrimSpace(*p.SkillRequirement))
	}
	if p.MaxPlayers != nil {
		if *p.MaxPlayers < 2 {
			problems = append(problems, "max players must be at least 2")
		} else {
			out.MaxPlayers = ptr(*p.MaxPlayers)
		}
	}
	if p.IsPrivate != nil {
		out.IsPrivate = ptr(*p.IsPrivate)
	}
	if p.Location != nil {
		if err := p.Location.validate(); err != nil {
			problems = append(problems, err.Error())
		} else {
			out.Latitude = ptr(p.Location.Latitude)
			out.Longitude = ptr(p.Location.Longitude)
			out.AreaName = ptr(strings.TrimSpace(p.Location.AreaName))
		}
	}

	if len(problems) > 0 {
		return RowPatch{}, fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}
	if out.Empty() {
		return RowPatch{}, fmt.Errorf("%w: nothing to update", ErrValidation)
	}
	return out, nil
}

// Apply overlays the set fields of p onto row.
func (p RowPatch) Apply(row GameRow) GameRow {
	if p.Sport != nil {
		row.Sport = *p.Sport
	}
	if p.Title != nil {
		row.Title = *p.Title
	}
	if p.Description != nil {
		row.Description = *p.Description
	}
	if p.DateTime != nil {
		row.DateTime = *p.DateTime
	}
	if p.Duration != nil {
		row.Duration = *p.Duration
	}
	if p.SkillRequirement != nil {
		row.SkillRequirement = *p.SkillRequirement
	}
	if p.MaxPlayers != nil {
		row.MaxPlayers = *p.MaxPlayers
	}
	if p.IsPrivate != nil {
		row.IsPrivate = *p.IsPrivate
	}
	if p.Latitude != nil {
		row.Latitude = *p.Latitude
	}
	if p.Longitude != nil {
		row.Longitude = *p.Longitude
	}
	if p.AreaName != nil {
		row.AreaName = *p.AreaName
	}
	return row
}

// Edit applies a host edit to g. Capacity may not drop below the players
// already in the game.
func Edit(g Game, actorID string, p RowPatch) (Game, error) {
	if !g.IsHost(actorID) {
		return g, fmt.Errorf("%w: only the host can edit the game", ErrNotAuthorized)
	}
	if p.Empty() {
		return g, fmt.Errorf("%w: nothing to update", ErrValidation)
	}
	next, err := ToDomain(p.Apply(ToRow(g)))
	if err != nil {
		return g, err
	}
	if len(next.PlayerIDs) > next.MaxPlayers {
		return g, fmt.Errorf("%w: max players cannot be below the %d players already in", ErrValidation, len(next.PlayerIDs))
	}
	next.Host, next.Players = g.Host, g.Players
	return next, nil
}
