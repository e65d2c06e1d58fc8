package postgres

const getUserSQL = `
SELECT id, first_name, last_name, country, city, created_at
FROM users WHERE id = $1
`

const tripColumns = `t.id, t.owner_id, t.name, t.description, t.start_date, t.end_date,
       t.is_public, t.cover_image, t.created_at, t.updated_at`

const getTripSQL = `
SELECT ` + tripColumns + `
FROM trips t WHERE t.id = $1
`

const selectTripForUpdateSQL = `
SELECT ` + tripColumns + `
FROM trips t WHERE t.id = $1
FOR UPDATE
`

const insertTripSQL = `
INSERT INTO trips (
  id, owner_id, name, description, start_date, end_date,
  is_public, cover_image, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`

const countRegionalSQL = `
SELECT COUNT(*)
FROM trips t JOIN users u ON u.id = t.owner_id
WHERE t.is_public
  AND t.owner_id <> $1
  AND lower(trim(u.country)) = lower(trim($2))
  AND t.end_date >= $3
`

const listRegionalSQL = `
SELECT ` + tripColumns + `
FROM trips t JOIN users u ON u.id = t.owner_id
WHERE t.is_public
  AND t.owner_id <> $1
  AND lower(trim(u.country)) = lower(trim($2))
  AND t.end_date >= $3
ORDER BY t.created_at DESC, t.end_date ASC, t.id ASC
LIMIT $4 OFFSET $5
`

const listVisibleInRangeSQL = `
SELECT ` + tripColumns + `
FROM trips t
WHERE (t.owner_id = $1 OR t.is_public)
  AND t.start_date <= $3
  AND t.end_date >= $2
ORDER BY t.start_date ASC, t.id ASC
`

const selectStopsSQL = `
SELECT s.id, s.trip_id, s.city_id, s.start_date, s.end_date, s.order_index,
       c.id, c.name, c.country, c.cost_index, c.popularity, c.description, c.image_url
FROM trip_stops s JOIN cities c ON c.id = s.city_id
WHERE s.trip_id = ANY($1)
ORDER BY s.trip_id, s.order_index
`

const selectTripActivitiesSQL = `
SELECT ta.id, ta.trip_stop_id, ta.activity_id, ta.date, ta.time_of_day::text,
       ta.min_cost_override, ta.max_cost_override, ta.created_at,
       a.id, a.city_id, a.name, a.category, a.min_cost, a.max_cost, a.duration_minutes
FROM trip_activities ta JOIN activities a ON a.id = ta.activity_id
WHERE ta.trip_stop_id = ANY($1)
ORDER BY ta.date ASC, ta.time_of_day ASC NULLS LAST, ta.id ASC
`

const maxStopOrderSQL = `
SELECT COALESCE(MAX(order_index), -1) FROM trip_stops WHERE trip_id = $1
`

const getStopSQL = `
SELECT id, trip_id, city_id, start_date, end_date, order_index
FROM trip_stops WHERE id = $1 AND trip_id = $2
`

const insertStopSQL = `
INSERT INTO trip_stops (id, trip_id, city_id, start_date, end_date, order_index)
VALUES ($1,$2,$3,$4,$5,$6)
`

const insertTripActivitySQL = `
INSERT INTO trip_activities (
  id, trip_stop_id, activity_id, date, time_of_day,
  min_cost_override, max_cost_override, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`

const deleteStopSQL = `DELETE FROM trip_stops WHERE id = $1`

const deleteTripSQL = `DELETE FROM trips WHERE id = $1`

const getCitySQL = `
SELECT id, name, country, cost_index, popularity, description, image_url
FROM cities WHERE id = $1
`
