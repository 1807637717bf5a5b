package card

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	cperrors "github.com/matzehuels/cardpress/pkg/errors"
)

const sampleTSV = "Name\tType\tEnergy\tTrigger\tDescription\n" +
	"Fireball\tSpell\t3\tOn Cast\tDeal 3 damage to target.\n" +
	"Healing Berry\tFood\t2\tOn Eat\tRestore 2 health.\n"

func TestReadTSV(t *testing.T) {
	recs, err := ReadTSV(strings.NewReader(sampleTSV))
	if err != nil {
		t.Fatalf("ReadTSV: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len(recs) = %d, want 2", len(recs))
	}

	want := Record{Name: "Fireball", Type: "Spell", Energy: "3", Trigger: "On Cast", Description: "Deal 3 damage to target."}
	if recs[0] != want {
		t.Errorf("recs[0] = %+v, want %+v", recs[0], want)
	}
	if recs[1].Name != "Healing Berry" || recs[1].Type != "Food" {
		t.Errorf("recs[1] = %+v", recs[1])
	}
}

func TestReadTSVColumnOrderAndExtras(t *testing.T) {
	data := "Description\tId\tname\tENERGY\tTrigger\tType\n" +
		"Blocks one attack.\t7\tShield\t1\tOn Block\tItem\n"

	recs, err := ReadTSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadTSV: %v", err)
	}
	want := Record{Name: "Shield", Type: "Item", Energy: "1", Trigger: "On Block", Description: "Blocks one attack."}
	if len(recs) != 1 || recs[0] != want {
		t.Errorf("recs = %+v, want [%+v]", recs, want)
	}
}

func TestReadTSVShortRow(t *testing.T) {
	data := "Name\tType\tEnergy\tTrigger\tDescription\nLonely\tSpell\n"

	recs, err := ReadTSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadTSV: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("len(recs) = %d, want 1", len(recs))
	}
	if recs[0].Energy != "" || recs[0].Description != "" {
		t.Errorf("short row should yield empty fields, got %+v", recs[0])
	}
}

func TestReadTSVByteOrderMark(t *testing.T) {
	recs, err := ReadTSV(strings.NewReader("\ufeff" + sampleTSV))
	if err != nil {
		t.Fatalf("ReadTSV: %v", err)
	}
	if recs[0].Name != "Fireball" {
		t.Errorf("Name = %q, want Fireball", recs[0].Name)
	}
}

func TestReadTSVQuotes(t *testing.T) {
	data := "Name\tType\tEnergy\tTrigger\tDescription\n" +
		"Quote\tSpell\t1\tOn Cast\tSay \"hello\" twice.\n"

	recs, err := ReadTSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadTSV: %v", err)
	}
	if got := recs[0].Description; got != `Say "hello" twice.` {
		t.Errorf("Description = %q", got)
	}
}

func TestReadTSVErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"missing columns", "Name\tType\nFoo\tBar\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTSV(strings.NewReader(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !cperrors.Is(err, cperrors.ErrCodeInvalidInput) {
				t.Errorf("error code = %v, want %v", cperrors.GetCode(err), cperrors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestReadTSVNoRows(t *testing.T) {
	recs, err := ReadTSV(strings.NewReader("Name\tType\tEnergy\tTrigger\tDescription\n"))
	if err != nil {
		t.Fatalf("ReadTSV: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("len(recs) = %d, want 0", len(recs))
	}
}

func TestLoadTSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "database.tsv")
	if err := os.WriteFile(path, []byte(sampleTSV), 0644); err != nil {
		t.Fatal(err)
	}

	recs, err := LoadTSV(path)
	if err != nil {
		t.Fatalf("LoadTSV: %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("len(recs) = %d, want 2", len(recs))
	}
}

func TestLoadTSVMissingFile(t *testing.T) {
	_, err := LoadTSV(filepath.Join(t.TempDir(), "nope.tsv"))
	if !cperrors.Is(err, cperrors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}
