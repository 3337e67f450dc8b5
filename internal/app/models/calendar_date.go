package models

import (
	"clinic-service/internal/pkg/constvars"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// CalendarDate holds a payment date as YYYY-MM-DD. Older documents carry a
// full BSON datetime or an ISO timestamp string; only the date part is kept.
type CalendarDate string

func (d *CalendarDate) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		*d = CalendarDate(raw.StringValue())
	case bsontype.DateTime:
		*d = CalendarDate(raw.Time().UTC().Format(constvars.DateLayout))
	default:
		*d = ""
	}
	return nil
}

// Time returns the date at midnight UTC. ok is false when the stored value
// does not start with a valid YYYY-MM-DD date.
func (d CalendarDate) Time() (date time.Time, ok bool) {
	value := string(d)
	if len(value) < len(constvars.DateLayout) {
		return time.Time{}, false
	}
	date, err := time.ParseInLocation(constvars.DateLayout, value[:len(constvars.DateLayout)], time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}
