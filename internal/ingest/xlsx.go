package ingest

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
)

// sheetReader serves spreadsheet rows through the csvutil.Reader interface.
// Rows shorter than the header are padded with empty cells.
type sheetReader struct {
	rows  [][]string
	next  int
	width int
}

func (s *sheetReader) Read() ([]string, error) {
	if s.next >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.next]
	s.next++
	if s.width == 0 {
		s.width = len(row)
	}
	if len(row) < s.width {
		row = append(row, make([]string, s.width-len(row))...)
	}
	return row[:s.width], nil
}

// openSheet reads every row of the first sheet of a workbook.
func openSheet(r io.Reader) (*sheetReader, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open workbook")
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &sheetReader{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read sheet %q", sheets[0])
	}
	return &sheetReader{rows: rows}, nil
}
