package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/NataKl/weather-API/internal/domain"
)

// naiveLayout is how timestamps without zone information were written by
// earlier deployments; such values are read as local time.
const naiveLayout = "2006-01-02T15:04:05.999999"

var validate = validator.New()

// record is the persisted form of one user, keyed by the decimal user id.
type record struct {
	Notifications bool            `json:"notifications"`
	Location      *locationRecord `json:"location"`
	LastCheck     *string         `json:"last_check"`
}

type locationRecord struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	City string  `json:"city"`
}

func toRecord(u domain.User) record {
	r := record{Notifications: u.NotificationsEnabled}
	if u.Location != nil {
		r.Location = &locationRecord{Lat: u.Location.Lat, Lon: u.Location.Lon, City: u.Location.Name}
	}
	if u.LastNotifiedAt != nil {
		s := u.LastNotifiedAt.UTC().Format(time.RFC3339Nano)
		r.LastCheck = &s
	}
	return r
}

func fromRecord(id int64, r record) domain.User {
	u := domain.NewUser(id)
	u.NotificationsEnabled = r.Notifications
	if r.Location != nil {
		loc := domain.Location{Lat: r.Location.Lat, Lon: r.Location.Lon, Name: r.Location.City}
		if validate.Struct(loc) == nil {
			u.Location = &loc
		}
	}
	if r.LastCheck != nil {
		u.LastNotifiedAt = parseTimestamp(*r.LastCheck)
	}
	return u
}

// parseTimestamp accepts RFC 3339 and the legacy naive layout. Anything else
// reads as absent.
func parseTimestamp(s string) *time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return &t
	}
	if t, err := time.ParseInLocation(naiveLayout, s, time.Local); err == nil {
		return &t
	}
	return nil
}

func parseUserID(key string) (int64, bool) {
	id, err := strconv.ParseInt(key, 10, 64)
	return id, err == nil
}

// encodeDocument renders all users as one JSON object keyed by user id.
func encodeDocument(users map[int64]domain.User) ([]byte, error) {
	doc := make(map[string]record, len(users))
	for id, u := range users {
		doc[strconv.FormatInt(id, 10)] = toRecord(u)
	}
	return json.MarshalIndent(doc, "", "  ")
}

// decodeDocument parses a whole-map document. Entries with a non-numeric key
// or malformed body are skipped.
func decodeDocument(b []byte) (map[int64]domain.User, int, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, 0, fmt.Errorf("decode user document: %w", err)
	}
	users := make(map[int64]domain.User, len(raw))
	skipped := 0
	for key, body := range raw {
		id, ok := parseUserID(key)
		if !ok {
			skipped++
			continue
		}
		var r record
		if err := json.Unmarshal(body, &r); err != nil {
			skipped++
			continue
		}
		users[id] = fromRecord(id, r)
	}
	return users, skipped, nil
}
