package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func TestNewTrip_Validation(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("valid_trip", func(t *testing.T) {
		tr, err := NewTrip("u1", " Alps ", "ski", mustDate(t, "2024-06-01"), mustDate(t, "2024-06-10"), true, "", now)
		require.NoError(t, err)
		assert.Equal(t, "Alps", tr.Name)
		assert.NotEmpty(t, tr.ID)
		assert.True(t, tr.IsPublic)
		assert.Equal(t, now, tr.CreatedAt)
	})

	t.Run("single_day_trip_is_allowed", func(t *testing.T) {
		_, err := NewTrip("u1", "Day out", "", mustDate(t, "2024-06-01"), mustDate(t, "2024-06-01"), false, "", now)
		assert.NoError(t, err)
	})

	t.Run("end_before_start_fails", func(t *testing.T) {
		_, err := NewTrip("u1", "Back", "", mustDate(t, "2024-06-10"), mustDate(t, "2024-06-01"), false, "", now)
		require.Error(t, err)
		assert.Equal(t, CodeValidation, CodeOf(err))
	})

	t.Run("missing_owner_fails", func(t *testing.T) {
		_, err := NewTrip("", "x", "", mustDate(t, "2024-06-01"), mustDate(t, "2024-06-02"), false, "", now)
		assert.Equal(t, CodeValidation, CodeOf(err))
	})

	t.Run("missing_dates_fail", func(t *testing.T) {
		_, err := NewTrip("u1", "x", "", time.Time{}, mustDate(t, "2024-06-02"), false, "", now)
		assert.Contains(t, err.Error(), "required")
	})
}

func TestTrip_NewStop(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	tr, err := NewTrip("u1", "Italy", "", mustDate(t, "2024-06-01"), mustDate(t, "2024-06-10"), false, "", now)
	require.NoError(t, err)

	t.Run("stop_inside_trip", func(t *testing.T) {
		s, err := tr.NewStop("rome", mustDate(t, "2024-06-01"), mustDate(t, "2024-06-04"), 0)
		require.NoError(t, err)
		assert.Equal(t, tr.ID, s.TripID)
		assert.Equal(t, 0, s.OrderIndex)
	})

	t.Run("stop_outside_trip_fails", func(t *testing.T) {
		_, err := tr.NewStop("rome", mustDate(t, "2024-05-30"), mustDate(t, "2024-06-04"), 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "stop outside trip dates")
	})

	t.Run("inverted_stop_fails", func(t *testing.T) {
		_, err := tr.NewStop("rome", mustDate(t, "2024-06-05"), mustDate(t, "2024-06-04"), 0)
		assert.Equal(t, CodeValidation, CodeOf(err))
	})
}

func TestTripStop_NewActivity(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	stop := &TripStop{ID: "s1", StartDate: mustDate(t, "2024-06-01"), EndDate: mustDate(t, "2024-06-03")}

	t.Run("normalizes_time", func(t *testing.T) {
		a, err := stop.NewActivity("a1", mustDate(t, "2024-06-02"), strPtr("09:30:00"), nil, nil, now)
		require.NoError(t, err)
		require.NotNil(t, a.Time)
		assert.Equal(t, "09:30", *a.Time)
	})

	t.Run("blank_time_is_untimed", func(t *testing.T) {
		a, err := stop.NewActivity("a1", mustDate(t, "2024-06-02"), strPtr(" "), nil, nil, now)
		require.NoError(t, err)
		assert.Nil(t, a.Time)
	})

	t.Run("date_outside_stop_fails", func(t *testing.T) {
		_, err := stop.NewActivity("a1", mustDate(t, "2024-06-04"), nil, nil, nil, now)
		assert.Contains(t, err.Error(), "outside stop dates")
	})

	t.Run("inverted_overrides_fail", func(t *testing.T) {
		_, err := stop.NewActivity("a1", mustDate(t, "2024-06-02"), nil, f64Ptr(50), f64Ptr(10), now)
		assert.Equal(t, CodeValidation, CodeOf(err))
	})
}

func TestTrip_Visibility(t *testing.T) {
	priv := &Trip{OwnerID: "u1"}
	pub := &Trip{OwnerID: "u1", IsPublic: true}

	assert.True(t, priv.VisibleTo("u1"))
	assert.False(t, priv.VisibleTo("u2"))
	assert.False(t, priv.VisibleTo(""))
	assert.True(t, pub.VisibleTo("u2"))
	assert.False(t, pub.OwnedBy(""))
}

func TestTrip_OverlapPrimitive(t *testing.T) {
	tr := &Trip{StartDate: mustDate(t, "2024-12-28"), EndDate: mustDate(t, "2025-01-03")}

	assert.True(t, tr.Touches(mustDate(t, "2024-12-28")))
	assert.True(t, tr.Touches(time.Date(2025, 1, 3, 23, 59, 0, 0, time.UTC)))
	assert.False(t, tr.Touches(mustDate(t, "2025-01-04")))

	assert.True(t, tr.Overlaps(mustDate(t, "2025-01-01"), mustDate(t, "2025-01-31")))
	assert.True(t, tr.Overlaps(mustDate(t, "2024-12-01"), mustDate(t, "2024-12-28")))
	assert.False(t, tr.Overlaps(mustDate(t, "2024-11-01"), mustDate(t, "2024-11-30")))
}

func TestTrip_SortGraph(t *testing.T) {
	d := mustDate(t, "2024-06-02")
	tr := &Trip{Stops: []*TripStop{
		{ID: "b", OrderIndex: 1},
		{ID: "a", OrderIndex: 0, Activities: []*TripActivity{
			{ID: "untimed", Date: d},
			{ID: "late", Date: d, Time: strPtr("18:00")},
			{ID: "early", Date: d, Time: strPtr("08:00")},
			{ID: "prev-day", Date: d.Add(-Day)},
		}},
	}}

	tr.SortGraph()

	assert.Equal(t, "a", tr.Stops[0].ID)
	assert.Equal(t, 2, tr.NextOrderIndex())
	var ids []string
	for _, a := range tr.Stops[0].Activities {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"prev-day", "early", "late", "untimed"}, ids)
}

func TestTripActivity_SameSlot(t *testing.T) {
	d := mustDate(t, "2024-06-02")
	a := &TripActivity{TripStopID: "s", ActivityID: "x", Date: d, Time: strPtr("10:00")}
	b := &TripActivity{TripStopID: "s", ActivityID: "x", Date: d, Time: strPtr("10:00")}
	c := &TripActivity{TripStopID: "s", ActivityID: "x", Date: d}

	assert.True(t, a.SameSlot(b))
	assert.False(t, a.SameSlot(c))
	assert.True(t, c.SameSlot(&TripActivity{TripStopID: "s", ActivityID: "x", Date: d}))
}

func TestParseActivityCategory(t *testing.T) {
	c, err := ParseActivityCategory(" Food ")
	require.NoError(t, err)
	assert.Equal(t, CategoryFood, c)

	_, err = ParseActivityCategory("gambling")
	require.Error(t, err)
	assert.Equal(t, CodeValidation, CodeOf(err))
	assert.Len(t, ActivityCategories(), 10)
}

func TestParseTripSort(t *testing.T) {
	f, o, err := ParseTripSort("", "")
	require.NoError(t, err)
	assert.Equal(t, SortCreatedAt, f)
	assert.Equal(t, OrderDesc, o)

	_, _, err = ParseTripSort("owner_id", "asc")
	assert.Error(t, err)

	_, _, err = ParseTripSort("name", "sideways")
	assert.Error(t, err)
}
