package postgres

import (
	"encoding/json"
	"time"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

func marshalJSON(v interface{}) []byte {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

func marshalStrings(list []string) []byte {
	if len(list) == 0 {
		return nil
	}
	return marshalJSON(list)
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}
