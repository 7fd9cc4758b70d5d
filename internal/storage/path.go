package storage

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"
)

var pathComponentPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,127}$`)

// BuildExportPath returns exports/<table>/<utc timestamp>-<id>.parquet.
// The table name is lower-cased so keys stay stable across dialects.
func BuildExportPath(tableName string, at time.Time, id string) (string, error) {
	tableName = strings.ToLower(strings.TrimSpace(tableName))
	if err := validatePathComponent(tableName, "table name"); err != nil {
		return "", err
	}
	if err := validatePathComponent(id, "export id"); err != nil {
		return "", err
	}
	return path.Join(
		"exports",
		tableName,
		fmt.Sprintf("%s-%s.parquet", at.UTC().Format("20060102T150405Z"), id),
	), nil
}

func validatePathComponent(value, field string) error {
	if !pathComponentPattern.MatchString(value) {
		return fmt.Errorf("invalid %s: %q", field, value)
	}
	return nil
}
