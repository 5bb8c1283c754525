package csvimport

import (
	"strings"
	"testing"
)

func TestImportReadsHeaderAsColumnsAndRowsAsVarchar(t *testing.T) {
	csv := "id,name\n1,ada\n2,grace\n"
	tbl, err := Import("people", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tbl.Cols) != 2 || tbl.Cols[0].Name != "id" || tbl.Cols[1].Name != "name" {
		t.Fatalf("expected columns [id name], got %+v", tbl.Cols)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(tbl.Rows))
	}
	s, _ := tbl.Rows[0][1].ToString()
	if s != "ada" {
		t.Fatalf("expected ada, got %q", s)
	}
}

func TestImportRejectsShortRows(t *testing.T) {
	csv := "a,b,c\n1,2\n"
	tbl, err := Import("t", strings.NewReader(csv))
	if err == nil {
		t.Fatalf("expected an error for a record with fewer fields than the header")
	}
	if tbl != nil {
		t.Fatalf("expected no table when a record is rejected")
	}
}

func TestImportEmptyReaderErrors(t *testing.T) {
	if _, err := Import("t", strings.NewReader("")); err == nil {
		t.Fatalf("expected an error reading a header from empty input")
	}
}
