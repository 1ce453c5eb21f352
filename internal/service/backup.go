package service

import (
	"html"

	"github.com/emrgen/shazam/internal/model"
	"github.com/microcosm-cc/bluemonday"
)

const noComment = "No comment"

var plainText = bluemonday.StrictPolicy()

// BackupEntry is one item of a restore menu.
type BackupEntry struct {
	Timestamp int64  `json:"timestamp"`
	Name      string `json:"name"`
}

// BackupName formats a snapshot as "[last modified] comment (author)".
func BackupName(doc *model.ConfigDocument, includeAuthor bool) string {
	var meta model.DocumentMeta
	if doc != nil && doc.Meta != nil {
		meta = *doc.Meta
	}

	comment := meta.SaveComment
	if comment == "" {
		comment = noComment
	}

	name := "[" + meta.LastModified + "] " + html.UnescapeString(plainText.Sanitize(comment))
	if includeAuthor {
		name += " (" + meta.LastModifiedBy + ")"
	}

	return name
}

// BackupEntries lists the backups newest first.
func BackupEntries(backups model.BackupSet) []BackupEntry {
	entries := make([]BackupEntry, 0, len(backups))
	for _, b := range backups {
		entries = append(entries, BackupEntry{
			Timestamp: b.Timestamp,
			Name:      BackupName(b.Document, true),
		})
	}
	return entries
}
