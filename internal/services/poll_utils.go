package services

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/voxpoll/voxpoll-backend/internal/apperrors"
)

// ToPlain converts raw store documents into plain mappings. Purely
// structural; field values keep their driver types until SimplifyPoll
// flattens them.
func ToPlain(records []bson.M) []map[string]interface{} {
	plain := make([]map[string]interface{}, 0, len(records))
	for _, record := range records {
		m := make(map[string]interface{}, len(record))
		for k, v := range record {
			m[k] = v
		}
		plain = append(plain, m)
	}
	return plain
}

// SimplifyPoll normalizes a raw poll record into the client-facing shape:
// the store id becomes a plain hex string under "id", driver wrapper types
// (object ids, datetimes, arrays, nested documents) become plain scalars and
// maps, numeric fields pass through untouched.
func SimplifyPoll(raw map[string]interface{}) (map[string]interface{}, error) {
	for _, field := range []string{"_id", "category", "created_by"} {
		if _, ok := raw[field]; !ok {
			return nil, fmt.Errorf("poll record missing %q: %w", field, apperrors.ErrMalformedRecord)
		}
	}

	simplified := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		if k == "_id" {
			continue
		}
		simplified[k] = flattenValue(v)
	}

	switch id := raw["_id"].(type) {
	case primitive.ObjectID:
		simplified["id"] = id.Hex()
	case string:
		simplified["id"] = id
	default:
		return nil, fmt.Errorf("poll record has malformed _id: %w", apperrors.ErrMalformedRecord)
	}

	return simplified, nil
}

// flattenValue turns driver wrapper types into plain JSON-friendly values.
func flattenValue(v interface{}) interface{} {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC().Format(time.RFC3339)
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case primitive.A:
		out := make([]interface{}, 0, len(t))
		for _, item := range t {
			out = append(out, flattenValue(item))
		}
		return out
	case []interface{}:
		out := make([]interface{}, 0, len(t))
		for _, item := range t {
			out = append(out, flattenValue(item))
		}
		return out
	case bson.M:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[k] = flattenValue(item)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[k] = flattenValue(item)
		}
		return out
	case bson.D:
		out := make(map[string]interface{}, len(t))
		for _, e := range t {
			out[e.Key] = flattenValue(e.Value)
		}
		return out
	default:
		return v
	}
}

// pollObjectID extracts the document store id of a raw poll record.
func pollObjectID(raw map[string]interface{}) (primitive.ObjectID, error) {
	switch id := raw["_id"].(type) {
	case primitive.ObjectID:
		return id, nil
	case string:
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return primitive.NilObjectID, fmt.Errorf("poll record has malformed _id: %w", apperrors.ErrMalformedRecord)
		}
		return oid, nil
	default:
		return primitive.NilObjectID, fmt.Errorf("poll record missing _id: %w", apperrors.ErrMalformedRecord)
	}
}

// pollOwnerID extracts created_by.user_id from a raw or simplified record.
func pollOwnerID(record map[string]interface{}) (int64, error) {
	createdBy, ok := record["created_by"].(map[string]interface{})
	if !ok {
		if m, isBsonM := record["created_by"].(bson.M); isBsonM {
			createdBy = m
		} else {
			return 0, fmt.Errorf("poll record has malformed created_by: %w", apperrors.ErrMalformedRecord)
		}
	}

	id, err := toInt64(createdBy["user_id"])
	if err != nil {
		return 0, fmt.Errorf("poll record has malformed created_by.user_id: %w", apperrors.ErrMalformedRecord)
	}
	return id, nil
}

// toInt64 normalizes the numeric types the driver may decode ids into.
func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
}
