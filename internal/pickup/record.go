package pickup

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the wire format for every timestamp in a GameRow.
const TimeLayout = time.RFC3339Nano

// GameRow is the persisted shape of a game. It is the contract with the
// store and must round-trip through ToDomain and ToRow.
type GameRow struct {
	ID                string                       `json:"id"`
	HostID            string                       `json:"host_id"`
	Sport             string                       `json:"sport"`
	Title             string                       `json:"title"`
	Description       string                       `json:"description"`
	DateTime          string                       `json:"date_time"`
	Duration          int                          `json:"duration"`
	SkillRequirement  string                       `json:"skill_requirement"`
	MaxPlayers        int                          `json:"max_players"`
	PlayerIDs         []string                     `json:"player_ids"`
	PendingRequestIDs []string                     `json:"pending_request_ids"`
	IsPrivate         bool                         `json:"is_private"`
	Status            string                       `json:"status"`
	CheckedInIDs      []string                     `json:"checked_in_ids"`
	RunsStarted       bool                         `json:"runs_started"`
	EndedAt           *string                      `json:"ended_at"`
	PostGameVotes     map[string]map[string]int    `json:"post_game_votes"`
	PostGameVoters    map[string]map[string]string `json:"post_game_voters"`
	Latitude          float64                      `json:"latitude"`
	Longitude         float64                      `json:"longitude"`
	AreaName          string                       `json:"area_name"`
	CreatedAt         string                       `json:"created_at,omitempty"`
	Version           int64                        `json:"version"`
}

func integrity(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDataIntegrity, fmt.Sprintf(format, args...))
}

// ToDomain converts a stored row into a Game. The host is always folded
// into the player ids; pending requests and check-ins are limited to ids
// that can hold them. Missing identity, ownership, schedule or status
// fields and a capacity below two are reported as ErrDataIntegrity rather
// than defaulted.
func ToDomain(row GameRow) (Game, error) {
	if row.ID == "" {
		return Game{}, integrity("game row has no id")
	}
	if row.HostID == "" {
		return Game{}, integrity("game %s has no host", row.ID)
	}
	status := Status(row.Status)
	if !status.Valid() {
		return Game{}, integrity("game %s has unknown status %q", row.ID, row.Status)
	}
	if row.MaxPlayers < 2 {
		return Game{}, integrity("game %s has max players %d", row.ID, row.MaxPlayers)
	}
	if row.DateTime == "" {
		return Game{}, integrity("game %s has no date", row.ID)
	}
	dateTime, err := time.Parse(TimeLayout, row.DateTime)
	if err != nil {
		return Game{}, integrity("game %s has malformed date %q", row.ID, row.DateTime)
	}

	g := Game{
		ID:               row.ID,
		HostID:           row.HostID,
		Sport:            row.Sport,
		Title:            row.Title,
		Description:      row.Description,
		DateTime:         dateTime.UTC(),
		Duration:         row.Duration,
		SkillRequirement: row.SkillRequirement,
		MaxPlayers:       row.MaxPlayers,
		IsPrivate:        row.IsPrivate,
		Status:           status,
		RunsStarted:      row.RunsStarted,
		Location: Location{
			Latitude:  row.Latitude,
			Longitude: row.Longitude,
			AreaName:  row.AreaName,
		},
		Version: row.Version,
	}

	g.PlayerIDs = dedupe(append([]string{row.HostID}, row.PlayerIDs...))
	g.PendingRequestIDs = make([]string, 0, len(row.PendingRequestIDs))
	for _, id := range dedupe(row.PendingRequestIDs) {
		if !g.IsPlayer(id) {
			g.PendingRequestIDs = append(g.PendingRequestIDs, id)
		}
	}
	g.CheckedInIDs = make([]string, 0, len(row.CheckedInIDs))
	for _, id := range dedupe(row.CheckedInIDs) {
		if g.IsPlayer(id) {
			g.CheckedInIDs = append(g.CheckedInIDs, id)
		}
	}

	if row.EndedAt != nil && *row.EndedAt != "" {
		ended, err := time.Parse(TimeLayout, *row.EndedAt)
		if err != nil {
			return Game{}, integrity("game %s has malformed ended_at %q", row.ID, *row.EndedAt)
		}
		ended = ended.UTC()
		g.EndedAt = &ended
	}
	if row.CreatedAt != "" {
		created, err := time.Parse(TimeLayout, row.CreatedAt)
		if err != nil {
			return Game{}, integrity("game %s has malformed created_at %q", row.ID, row.CreatedAt)
		}
		g.CreatedAt = created.UTC()
	}

	g.PostGameVotes = EmptyTally()
	for key, counts := range row.PostGameVotes {
		c := VoteCategory(key)
		if !c.Valid() {
			return Game{}, integrity("game %s has unknown vote category %q", row.ID, key)
		}
		for candidate, n := range counts {
			g.PostGameVotes[c][candidate] = n
		}
	}
	g.PostGameVoters = make(Ledger, len(row.PostGameVoters))
	for voter, picks := range row.PostGameVoters {
		m := make(map[VoteCategory]string, len(picks))
		for key, candidate := range picks {
			c := VoteCategory(key)
			if !c.Valid() {
				return Game{}, integrity("game %s has unknown vote category %q", row.ID, key)
			}
			m[c] = candidate
		}
		g.PostGameVoters[voter] = m
	}
	return g, nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

// ToRow converts a Game back to its persisted shape. Host and Players are
// display-only and dropped.
func ToRow(g Game) GameRow {
	row := GameRow{
		ID:                g.ID,
		HostID:            g.HostID,
		Sport:             g.Sport,
		Title:             g.Title,
		Description:       g.Description,
		DateTime:          g.DateTime.UTC().Format(TimeLayout),
		Duration:          g.Duration,
		SkillRequirement:  g.SkillRequirement,
		MaxPlayers:        g.MaxPlayers,
		PlayerIDs:         nonNil(dedupe(g.PlayerIDs)),
		PendingRequestIDs: nonNil(dedupe(g.PendingRequestIDs)),
		IsPrivate:         g.IsPrivate,
		Status:            string(g.Status),
		CheckedInIDs:      nonNil(dedupe(g.CheckedInIDs)),
		RunsStarted:       g.RunsStarted,
		Latitude:          g.Location.Latitude,
		Longitude:         g.Location.Longitude,
		AreaName:          g.Location.AreaName,
		Version:           g.Version,
	}
	if g.EndedAt != nil {
		s := g.EndedAt.UTC().Format(TimeLayout)
		row.EndedAt = &s
	}
	if !g.CreatedAt.IsZero() {
		row.CreatedAt = g.CreatedAt.UTC().Format(TimeLayout)
	}

	row.PostGameVotes = make(map[string]map[string]int, len(Categories))
	for _, c := range Categories {
		row.PostGameVotes[string(c)] = map[string]int{}
	}
	for c, counts := range g.PostGameVotes {
		bucket := make(map[string]int, len(counts))
		for candidate, n := range counts {
			bucket[candidate] = n
		}
		row.PostGameVotes[string(c)] = bucket
	}
	row.PostGameVoters = make(map[string]map[string]string, len(g.PostGameVoters))
	for voter, picks := range g.PostGameVoters {
		m := make(map[string]string, len(picks))
		for c, candidate := range picks {
			m[string(c)] = candidate
		}
		row.PostGameVoters[voter] = m
	}
	return row
}

// ToInsertable builds the row sent on creation. The id, version and
// creation time belong to the store, so any provisional id is dropped.
func ToInsertable(g Game) GameRow {
	row := ToRow(g)
	row.ID = ""
	row.Version = 0
	row.CreatedAt = ""
	return row
}

// GameInput carries the fields a host fills in when creating a game.
type GameInput struct {
	Sport            string    `json:"sport"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	DateTime         time.Time `json:"dateTime"`
	Duration         int       `json:"duration"`
	SkillRequirement string    `json:"skillRequirement"`
	MaxPlayers       int       `json:"maxPlayers"`
	IsPrivate        bool      `json:"isPrivate"`
	Location         Location  `json:"location"`
}

func (in GameInput) validate() error {
	var problems []string
	if strings.TrimSpace(in.Sport) == "" {
		problems = append(problems, "sport is required")
	}
	if strings.TrimSpace(in.Title) == "" {
		problems = append(problems, "title is required")
	}
	if in.DateTime.IsZero() {
		problems = append(problems, "date and time are required")
	}
	if in.Duration <= 0 {
		problems = append(problems, "duration must be positive")
	}
	if in.MaxPlayers < 2 {
		problems = append(problems, "max players must be at least 2")
	}
	if err := in.Location.validate(); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

func (l Location) validate() error {
	if strings.TrimSpace(l.AreaName) == "" {
		return fmt.Errorf("location area is required")
	}
	if l.Latitude < -90 || l.Latitude > 90 || l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("location coordinates are out of range")
	}
	return nil
}

// NewGame builds a scheduled game hosted by hostID with the host as its only
// player. id may be a provisional id.
func NewGame(id, hostID string, in GameInput) (Game, error) {
	if hostID == "" {
		return Game{}, fmt.Errorf("%w: host is required", ErrValidation)
	}
	if err := in.validate(); err != nil {
		return Game{}, err
	}
	return Game{
		ID:                id,
		HostID:            hostID,
		Sport:             strings.TrimSpace(in.Sport),
		Title:             strings.TrimSpace(in.Title),
		Description:       strings.TrimSpace(in.Description),
		DateTime:          in.DateTime.UTC(),
		Duration:          in.Duration,
		SkillRequirement:  strings.TrimSpace(in.SkillRequirement),
		MaxPlayers:        in.MaxPlayers,
		PlayerIDs:         []string{hostID},
		PendingRequestIDs: []string{},
		IsPrivate:         in.IsPrivate,
		Status:            StatusScheduled,
		CheckedInIDs:      []string{},
		PostGameVotes:     EmptyTally(),
		PostGameVoters:    Ledger{},
		Location:          in.Location,
	}, nil
}
