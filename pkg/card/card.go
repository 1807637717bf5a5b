// Package card defines the card record and loads records from tab-separated
// data files.
//
// A record is one row of the input table. It is read once, handed to the
// renderer, and never persisted on its own:
//
//	records, err := card.LoadTSV("database.tsv")
//	for _, rec := range records {
//	    path := filepath.Join("cards", rec.FileName())
//	    // render rec to path
//	}
package card

import (
	"strings"
	"unicode"
)

// Field names used by layouts to bind a region to a record value.
const (
	FieldName        = "name"
	FieldType        = "type"
	FieldEnergy      = "energy"
	FieldTrigger     = "trigger"
	FieldDescription = "description"
)

// Fields lists every bindable field in column order.
var Fields = []string{FieldName, FieldType, FieldEnergy, FieldTrigger, FieldDescription}

// Record is a single card as read from one input row.
type Record struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Energy      string `json:"energy"`
	Trigger     string `json:"trigger"`
	Description string `json:"description"`
}

// Field returns the value bound to a layout field name.
// The second result is false for unknown field names.
func (r Record) Field(name string) (string, bool) {
	switch name {
	case FieldName:
		return r.Name, true
	case FieldType:
		return r.Type, true
	case FieldEnergy:
		return r.Energy, true
	case FieldTrigger:
		return r.Trigger, true
	case FieldDescription:
		return r.Description, true
	}
	return "", false
}

// FileName returns the raster file name for the record, derived from its name.
func (r Record) FileName() string {
	return SanitizeName(r.Name) + ".png"
}

// IsField reports whether name is a bindable record field.
func IsField(name string) bool {
	_, ok := Record{}.Field(name)
	return ok
}

// illegalFileChars are replaced in file names on every platform so that the
// same data file produces the same output tree everywhere.
const illegalFileChars = `/\:*?"<>|`

// SanitizeName turns a card name into a safe file base name.
// Spaces and characters illegal in file names become underscores; an empty
// result becomes a single underscore.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r == ' ', unicode.IsControl(r), strings.ContainsRune(illegalFileChars, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}
