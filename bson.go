package jolt

import (
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/bson"
)

// MarshalBSON converts a decoded value tree into a BSON document.  The
// top-level value must be an object.  Use it to hand decoded JSON straight
// to the MongoDB driver without re-parsing.
func MarshalBSON(v any) ([]byte, error) {
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("bson conversion requires a top-level object, got %T", v)
	}
	return bson.Marshal(bsonValue(doc))
}

// UnmarshalToBSON decodes a single complete JSON object from in and
// returns it as a BSON document.
func UnmarshalToBSON(in []byte) ([]byte, error) {
	v, err := Unmarshal(in)
	if err != nil {
		return nil, err
	}
	return MarshalBSON(v)
}

// bsonValue maps decoded values onto the driver's types.  Integers that
// fit in 32 bits narrow to int32, matching the driver's own ExtJSON
// conversion.
func bsonValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(bson.M, len(t))
		for k, e := range t {
			m[k] = bsonValue(e)
		}
		return m
	case []any:
		a := make(bson.A, len(t))
		for i, e := range t {
			a[i] = bsonValue(e)
		}
		return a
	case int64:
		if t >= math.MinInt32 && t <= math.MaxInt32 {
			return int32(t)
		}
		return t
	default:
		return v
	}
}
