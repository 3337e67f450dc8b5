package models

import (
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// FlexibleID is an identifier that historical documents stored as a string,
// an ObjectID or a number. Decoding canonicalises all of them to a string;
// any other BSON type decodes to the empty ID.
type FlexibleID string

func (id *FlexibleID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		*id = FlexibleID(raw.StringValue())
	case bsontype.ObjectID:
		*id = FlexibleID(raw.ObjectID().Hex())
	case bsontype.Int32:
		*id = FlexibleID(strconv.FormatInt(int64(raw.Int32()), 10))
	case bsontype.Int64:
		*id = FlexibleID(strconv.FormatInt(raw.Int64(), 10))
	case bsontype.Double:
		*id = FlexibleID(strconv.FormatFloat(raw.Double(), 'f', -1, 64))
	default:
		*id = ""
	}
	return nil
}

func (id FlexibleID) String() string {
	return string(id)
}

func (id FlexibleID) IsEmpty() bool {
	return id == ""
}
