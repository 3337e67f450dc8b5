package models

import (
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// numberFromRaw reads a numeric field written as an int, a double, a
// decimal128 or a numeric string. Anything else, including NaN and the
// infinities, reports ok as false.
func numberFromRaw(raw bson.RawValue) (value float64, ok bool) {
	switch raw.Type {
	case bsontype.Int32:
		value = float64(raw.Int32())
	case bsontype.Int64:
		value = float64(raw.Int64())
	case bsontype.Double:
		value = raw.Double()
	case bsontype.Decimal128:
		parsed, err := strconv.ParseFloat(raw.Decimal128().String(), 64)
		if err != nil {
			return 0, false
		}
		value = parsed
	case bsontype.String:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(raw.StringValue()), 64)
		if err != nil {
			return 0, false
		}
		value = parsed
	default:
		return 0, false
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

// optionalNumber is numberFromRaw for fields where absence has a meaning of
// its own.
func optionalNumber(raw bson.RawValue) *float64 {
	value, ok := numberFromRaw(raw)
	if !ok {
		return nil
	}
	return &value
}

func stringFromRaw(raw bson.RawValue) string {
	value, _ := raw.StringValueOK()
	return value
}

func flexibleIDsFromRaw(raw bson.RawValue) []FlexibleID {
	array, ok := raw.ArrayOK()
	if !ok {
		return nil
	}
	values, err := array.Values()
	if err != nil {
		return nil
	}
	ids := make([]FlexibleID, 0, len(values))
	for _, value := range values {
		var id FlexibleID
		_ = id.UnmarshalBSONValue(value.Type, value.Value)
		ids = append(ids, id)
	}
	return ids
}
