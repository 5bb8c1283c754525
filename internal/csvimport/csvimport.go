// Package csvimport implements bulk-loading a CSV file into a table.
//
// What: the first CSV row is read as column headers; every column is
// created as VARCHAR (no type inference is attempted — the caller can
// follow an import with ALTER TABLE ... ALTER COLUMN to assign a narrower
// type if it knows one). Every subsequent row becomes one table row,
// positionally matched to the header.
// How: encoding/csv is the only CSV implementation referenced anywhere in
// the retrieved corpus — no third-party CSV library appears in any example
// repo's go.mod — so this is one of the few places this module reaches for
// the standard library by necessity rather than by choice.
package csvimport

import (
	"encoding/csv"
	"io"

	"github.com/nanosql/nanosql/internal/storage"
	"github.com/nanosql/nanosql/internal/value"
)

// Import reads CSV data from r and returns a ready-to-register
// *storage.Table named name.
func Import(name string, r io.Reader) (*storage.Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, err
	}
	cols := make([]storage.Column, len(header))
	for i, h := range header {
		cols[i] = storage.Column{Name: h, Type: storage.VarcharType}
	}
	tbl := storage.NewTable(name, cols, false)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(value.Tuple, len(cols))
		for i := range cols {
			if i < len(rec) {
				row[i] = value.NewVarchar(rec[i])
			} else {
				row[i] = value.NewNull()
			}
		}
		prepared, err := tbl.PrepareRow(row)
		if err != nil {
			return nil, err
		}
		if err := tbl.AppendRow(prepared); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}
