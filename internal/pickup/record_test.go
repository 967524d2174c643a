package pickup

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRow() GameRow {
	ended := "2026-10-17T19:30:00Z"
	return GameRow{
		ID:                "g1",
		HostID:            "host",
		Sport:             "basketball",
		Title:             "Friday run",
		Description:       "full court",
		DateTime:          "2026-10-17T18:00:00Z",
		Duration:          90,
		SkillRequirement:  "intermediate",
		MaxPlayers:        10,
		PlayerIDs:         []string{"host", "a", "b"},
		PendingRequestIDs: []string{"c"},
		IsPrivate:         true,
		Status:            "finished",
		CheckedInIDs:      []string{"a"},
		RunsStarted:       false,
		EndedAt:           &ended,
		PostGameVotes: map[string]map[string]int{
			"best_shooter":    {"a": 1},
			"best_passer":     {},
			"best_all_around": {},
			"best_scorer":     {},
			"best_defender":   {},
		},
		PostGameVoters: map[string]map[string]string{
			"b": {"best_shooter": "a"},
		},
		Latitude:  40.73,
		Longitude: -74.0,
		AreaName:  "West 4th",
		CreatedAt: "2026-10-10T12:00:00.5Z",
		Version:   7,
	}
}

func TestRowRoundTrip(t *testing.T) {
	row := sampleRow()
	g, err := ToDomain(row)
	require.NoError(t, err)
	assert.Equal(t, row, ToRow(g))
}

func TestRowRoundTripThroughJSON(t *testing.T) {
	data, err := json.Marshal(sampleRow())
	require.NoError(t, err)

	var row GameRow
	require.NoError(t, json.Unmarshal(data, &row))
	g, err := ToDomain(row)
	require.NoError(t, err)
	assert.Equal(t, sampleRow(), ToRow(g))
}

func TestToDomainRepairsHostAndDuplicates(t *testing.T) {
	row := sampleRow()
	row.PlayerIDs = []string{"a", "a", "b"}
	row.PendingRequestIDs = []string{"a", "c", "c"}

	g, err := ToDomain(row)
	require.NoError(t, err)
	assert.Equal(t, []string{"host", "a", "b"}, g.PlayerIDs)
	assert.Equal(t, []string{"c"}, g.PendingRequestIDs)
}

func TestToDomainDropsCheckInsOfNonPlayers(t *testing.T) {
	row := sampleRow()
	row.CheckedInIDs = []string{"a", "c", "gone", "a", "host"}

	g, err := ToDomain(row)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "host"}, g.CheckedInIDs)
	for _, id := range g.CheckedInIDs {
		assert.True(t, g.IsPlayer(id), id)
	}
}

func TestToDomainEndedAtAbsent(t *testing.T) {
	row := sampleRow()
	row.EndedAt = nil
	row.PostGameVotes = nil
	row.PostGameVoters = nil

	g, err := ToDomain(row)
	require.NoError(t, err)
	assert.Nil(t, g.EndedAt)
	assert.Len(t, g.PostGameVotes, len(Categories))
	assert.NotNil(t, g.PostGameVoters)
}

func TestToDomainIntegrity(t *testing.T) {
	tests := []struct {
		name string
		edit func(*GameRow)
	}{
		{"no id", func(r *GameRow) { r.ID = "" }},
		{"no host", func(r *GameRow) { r.HostID = "" }},
		{"bad status", func(r *GameRow) { r.Status = "cancelled" }},
		{"no date", func(r *GameRow) { r.DateTime = "" }},
		{"bad date", func(r *GameRow) { r.DateTime = "tomorrow" }},
		{"bad ended_at", func(r *GameRow) { s := "later"; r.EndedAt = &s }},
		{"unknown category", func(r *GameRow) { r.PostGameVotes["mvp"] = map[string]int{"a": 1} }},
		{"no capacity", func(r *GameRow) { r.MaxPlayers = 0 }},
		{"capacity of one", func(r *GameRow) { r.MaxPlayers = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := sampleRow()
			tt.edit(&row)
			_, err := ToDomain(row)
			require.ErrorIs(t, err, ErrDataIntegrity)
		})
	}
}

func TestToInsertableDropsProvisionalID(t *testing.T) {
	g := newTestGame(t, 6, false)
	g.ID = "temp-123"
	row := ToInsertable(g)

	assert.Empty(t, row.ID)
	assert.Equal(t, []string{"host"}, row.PlayerIDs)
	assert.Equal(t, "scheduled", row.Status)
	assert.Equal(t, "2026-10-17T18:00:00Z", row.DateTime)
}

func TestToUpdatePatchOnlyProvidedFields(t *testing.T) {
	desc := "  bring a white shirt "
	p, err := ToUpdatePatch(GamePatch{Description: &desc})
	require.NoError(t, err)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"description":"bring a white shirt"}`, string(data))

	row := sampleRow()
	patched := p.Apply(row)
	row.Description = "bring a white shirt"
	assert.Equal(t, row, patched)
}

func TestToUpdatePatchValidation(t *testing.T) {
	blank := " "
	one := 1
	zero := time.Time{}

	for name, p := range map[string]GamePatch{
		"empty":       {},
		"blank title": {Title: &blank},
		"one player":  {MaxPlayers: &one},
		"zero date":   {DateTime: &zero},
		"no area":     {Location: &Location{}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ToUpdatePatch(p)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestEdit(t *testing.T) {
	g := newTestGame(t, 4, false)
	g, _, _ = Join(g, "a")
	g, _, _ = Join(g, "b")

	two := 2
	p, err := ToUpdatePatch(GamePatch{MaxPlayers: &two})
	require.NoError(t, err)

	_, err = Edit(g, "a", p)
	require.ErrorIs(t, err, ErrNotAuthorized)

	_, err = Edit(g, "host", p)
	require.ErrorIs(t, err, ErrValidation)

	title := "Saturday run"
	p, err = ToUpdatePatch(GamePatch{Title: &title})
	require.NoError(t, err)
	next, err := Edit(g, "host", p)
	require.NoError(t, err)
	assert.Equal(t, "Saturday run", next.Title)
	assert.Equal(t, g.PlayerIDs, next.PlayerIDs)
	assert.Equal(t, g.Description, next.Description)
}

func TestCloneIsDeep(t *testing.T) {
	g := finishedGame(t, "a")
	g, _, err := SubmitVotes(g, "a", []Vote{{BestScorer, "host"}})
	require.NoError(t, err)

	c := g.Clone()
	c.PlayerIDs[0] = "x"
	c.PostGameVotes[BestScorer]["host"] = 99
	c.PostGameVoters["a"][BestScorer] = "x"
	*c.EndedAt = time.Time{}

	assert.Equal(t, "host", g.PlayerIDs[0])
	assert.Equal(t, 1, g.PostGameVotes[BestScorer]["host"])
	assert.Equal(t, "host", g.PostGameVoters["a"][BestScorer])
	assert.False(t, g.EndedAt.IsZero())
}
