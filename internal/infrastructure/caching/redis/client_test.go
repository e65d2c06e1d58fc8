package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/baechuer/trip-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := New("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestClient_RoundTripTripGraph(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	start, _ := domain.ParseDate("2024-06-01")
	end, _ := domain.ParseDate("2024-06-10")
	tod := "09:30"
	in := &domain.Trip{
		ID: "t1", OwnerID: "u1", Name: "Italy", StartDate: start, EndDate: end,
		Stops: []*domain.TripStop{{
			ID: "s1", City: &domain.City{ID: "rome", Name: "Rome"},
			Activities: []*domain.TripActivity{{ID: "a1", Date: start, Time: &tod}},
		}},
	}

	require.NoError(t, c.Set(ctx, "trip:t1", in, time.Minute))

	var out domain.Trip
	found, err := c.Get(ctx, "trip:t1", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Rome", out.Stops[0].City.Name)
	assert.Equal(t, "09:30", *out.Stops[0].Activities[0].Time)
	assert.True(t, out.StartDate.Equal(start))

	assert.True(t, mr.Exists("trip-service:trip:t1"))
	ttl := mr.TTL("trip-service:trip:t1")
	assert.Equal(t, time.Minute, ttl)

	mr.FastForward(2 * time.Minute)
	found, err = c.Get(ctx, "trip:t1", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClient_Delete(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", 1, 0))
	require.NoError(t, c.Set(ctx, "b", 2, 0))
	require.NoError(t, mr.Set("calendar:year:u1:2024", "other service"))

	require.NoError(t, c.Delete(ctx, "a", "b", "missing", " "))
	require.NoError(t, c.Delete(ctx))
	require.NoError(t, c.Delete(ctx, ""))
	assert.False(t, mr.Exists("trip-service:a"))
	assert.False(t, mr.Exists("trip-service:b"))
	assert.True(t, mr.Exists("calendar:year:u1:2024"), "keys outside the namespace are untouched")
}

func TestClient_NegativeTTLStoresWithoutExpiry(t *testing.T) {
	c, mr := newTestClient(t)
	require.NoError(t, c.Set(context.Background(), "calendar:year:u1:2024", map[string]int{"year": 2024}, -time.Second))
	assert.Zero(t, mr.TTL(c.Key("calendar:year:u1:2024")))
	assert.True(t, mr.Exists(c.Key("calendar:year:u1:2024")))
}

func TestClient_Errors(t *testing.T) {
	t.Run("corrupt_value_is_dropped_as_miss", func(t *testing.T) {
		c, mr := newTestClient(t)
		require.NoError(t, mr.Set(c.Key("trip:bad"), "{not json"))
		var out domain.Trip
		found, err := c.Get(context.Background(), "trip:bad", &out)
		require.NoError(t, err)
		assert.False(t, found)
		assert.False(t, mr.Exists(c.Key("trip:bad")))
	})

	t.Run("unencodable_value", func(t *testing.T) {
		c, _ := newTestClient(t)
		err := c.Set(context.Background(), "trip:x", make(chan int), time.Minute)
		assert.Error(t, err)
	})

	t.Run("server_down", func(t *testing.T) {
		mr := miniredis.RunT(t)
		c := NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
		mr.Close()
		_, err := c.Get(context.Background(), "k", new(int))
		assert.Error(t, err)
	})

	t.Run("bad_url", func(t *testing.T) {
		_, err := New("not-a-url")
		assert.Error(t, err)
	})
}
