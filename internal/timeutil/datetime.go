// Package timeutil converts between the ISO-8601 timestamps used by the
// document store and the fixed-width DATETIME format MySQL expects.
package timeutil

import (
	"fmt"
	"time"
)

// StorageLayout is the wall-clock format of a MySQL DATETIME column.
const StorageLayout = "2006-01-02 15:04:05"

// ToStorageDatetime converts an ISO-8601 timestamp to MySQL DATETIME form,
// truncating sub-second precision. UTC components are used throughout;
// formatting in the local zone would shift the stored wall-clock value by
// the host's UTC offset and break round trips.
//
//	2025-11-29T19:43:01.586Z -> 2025-11-29 19:43:01
func ToStorageDatetime(iso string) (string, error) {
	t, err := time.Parse(time.RFC3339Nano, iso)
	if err != nil {
		return "", fmt.Errorf("parse timestamp %q: %w", iso, err)
	}
	return t.UTC().Format(StorageLayout), nil
}

// FormatStorage renders a time.Time in MySQL DATETIME form, UTC components.
func FormatStorage(t time.Time) string {
	return t.UTC().Format(StorageLayout)
}

// ParseStorage parses a MySQL DATETIME string back into a UTC time.Time.
func ParseStorage(s string) (time.Time, error) {
	t, err := time.ParseInLocation(StorageLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse datetime %q: %w", s, err)
	}
	return t, nil
}
