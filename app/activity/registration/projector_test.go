package registration

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject(t *testing.T) {
	at := time.Date(2026, 2, 14, 10, 30, 0, 0, time.UTC)
	rec := Record{ActivityID: 3, UserID: 11, Status: StatusActive, RegisteredAt: at}

	t.Run("named participant", func(t *testing.T) {
		u := User{ID: 11, DisplayName: "Jan Jansen", Phone: "0612345678", Village: "Vasse", Neighborhood: "Dorp"}
		view := Project(rec, u)

		assert.Equal(t, AttendeeView{
			DisplayName:  "Jan Jansen",
			Village:      "Vasse",
			Neighborhood: "Dorp",
			RegisteredAt: at,
		}, view)
	})

	t.Run("anonymous participant", func(t *testing.T) {
		u := User{ID: 11, DisplayName: "Jan Jansen", Phone: "0612345678", Village: "Vasse", Neighborhood: "Dorp",
			AnonymousParticipation: true}
		view := Project(rec, u)

		assert.True(t, view.Anonymous)
		assert.Empty(t, view.DisplayName)
		assert.Equal(t, "Vasse", view.Village)
		assert.Equal(t, "Dorp", view.Neighborhood)

		raw, err := json.Marshal(view)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "Jan")
		assert.NotContains(t, string(raw), "display_name")
		assert.NotContains(t, string(raw), "0612345678")
	})

	t.Run("empty profile is still total", func(t *testing.T) {
		view := Project(Record{}, User{})
		assert.Equal(t, AttendeeView{}, view)
	})
}

// Anonymous users never leak a display name, whatever the name looks like.
func TestProjectNeverLeaksAnonymousName(t *testing.T) {
	names := []string{"A", "Bewoner met een hele lange naam", "  ", "Ëlla-Marie 't Hooft", "<script>"}
	for _, name := range names {
		view := Project(Record{UserID: 1}, User{ID: 1, DisplayName: name, AnonymousParticipation: true})
		assert.Empty(t, view.DisplayName, name)
		assert.True(t, view.Anonymous)
	}
}

func TestProjectAll(t *testing.T) {
	records := []Record{{UserID: 1}, {UserID: 2}, {UserID: 3}}
	users := map[int64]*User{
		1: {ID: 1, DisplayName: "Een"},
		3: {ID: 3, DisplayName: "Drie", AnonymousParticipation: true},
	}

	views := ProjectAll(records, users)
	require.Len(t, views, 2)
	assert.Equal(t, "Een", views[0].DisplayName)
	assert.True(t, views[1].Anonymous)
}
