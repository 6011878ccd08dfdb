package storage

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// ObjectKey builds the storage path for an uploaded file:
// {folder}/{unixMillis}_{originalFileName}. The timestamp prefix keeps two
// uploads of identically named files from colliding and gives the raw blob
// listing a coarse chronological order.
func ObjectKey(folder, originalName string) string {
	return ObjectKeyAt(folder, originalName, time.Now())
}

func ObjectKeyAt(folder, originalName string, now time.Time) string {
	name := path.Base(strings.TrimSpace(originalName))
	if name == "." || name == "/" || name == "" {
		name = "file"
	}
	name = strings.ReplaceAll(name, " ", "_")
	return fmt.Sprintf("%s/%d_%s", strings.Trim(folder, "/"), now.UnixMilli(), name)
}
