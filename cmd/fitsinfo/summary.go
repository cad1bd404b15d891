package main

import (
	"fmt"
	"strings"

	"github.com/wippyai/fits"
	"github.com/wippyai/fits/bintable"
	"github.com/wippyai/fits/hdu"
	"github.com/wippyai/fits/tform"
)

type fileSummary struct {
	File string       `yaml:"file"`
	HDUs []hduSummary `yaml:"hdus"`
}

type hduSummary struct {
	Image    *imageSummary  `yaml:"image,omitempty"`
	Table    *tableSummary  `yaml:"table,omitempty"`
	Name     string         `yaml:"name,omitempty"`
	Kind     string         `yaml:"kind"`
	Keywords []keywordEntry `yaml:"keywords"`
	Index    int            `yaml:"index"`
}

type keywordEntry struct {
	Name    string `yaml:"name"`
	Value   string `yaml:"value,omitempty"`
	Comment string `yaml:"comment,omitempty"`
}

type imageSummary struct {
	Bitpix string    `yaml:"bitpix"`
	Axes   []int     `yaml:"axes"`
	CType  []string  `yaml:"ctype,omitempty"`
	CRVal  []float64 `yaml:"crval,omitempty"`
	Sample []float64 `yaml:"sample,omitempty"`
	BScale float64   `yaml:"bscale"`
	BZero  float64   `yaml:"bzero"`
}

type tableSummary struct {
	Columns []columnSummary `yaml:"columns"`
	Preview [][]string      `yaml:"preview,omitempty"`
	Rows    int             `yaml:"rows"`
}

type columnSummary struct {
	Name string `yaml:"name"`
	Form string `yaml:"form"`
	Unit string `yaml:"unit,omitempty"`
}

// summarize describes the selected HDUs of f. index < 0 selects all;
// rows caps the table preview.
func summarize(path string, f *fits.File, index, rows int) (fileSummary, error) {
	s := fileSummary{File: path}
	if index >= f.Len() {
		return s, fmt.Errorf("hdu %d out of range (file has %d)", index, f.Len())
	}
	for i, u := range f.HDUs {
		if index >= 0 && i != index {
			continue
		}
		hs, err := summarizeHDU(i, u, rows)
		if err != nil {
			return s, err
		}
		s.HDUs = append(s.HDUs, hs)
	}
	return s, nil
}

func summarizeHDU(i int, u *hdu.HDU, rows int) (hduSummary, error) {
	hs := hduSummary{Index: i, Kind: u.Kind.String()}
	hs.Name, _ = u.ExtName()
	if hs.Name == "" && u.Primary() {
		hs.Name = fits.PrimaryName
	}
	for _, kw := range u.Header.All() {
		e := keywordEntry{Name: kw.Name, Comment: kw.Comment}
		if !kw.Value.IsNone() {
			e.Value = kw.Value.String()
		}
		hs.Keywords = append(hs.Keywords, e)
	}

	var err error
	switch u.Kind {
	case hdu.KindImage:
		hs.Image = summarizeImage(u, rows)
	case hdu.KindTable:
		hs.Table = summarizeTable(u, rows)
	case hdu.KindBinTable:
		hs.Table, err = summarizeBinTable(u, rows)
	}
	return hs, err
}

func summarizeImage(u *hdu.HDU, n int) *imageSummary {
	img := u.Image()
	s := &imageSummary{
		Bitpix: img.Bitpix.String(),
		Axes:   img.Axes,
		BScale: img.BScale,
		BZero:  img.BZero,
	}
	if img.WCS != nil {
		s.CType = img.WCS.CType
		s.CRVal = img.WCS.CRVal
	}
	all := img.Float64s()
	s.Sample = all[:min(n, len(all))]
	return s
}

func summarizeTable(u *hdu.HDU, n int) *tableSummary {
	t := u.Table()
	s := &tableSummary{Rows: t.NumRows()}
	for _, c := range t.Columns {
		s.Columns = append(s.Columns, columnSummary{Name: c.Name, Form: c.Form.String(), Unit: c.Unit})
	}
	for r := range min(n, t.NumRows()) {
		row := make([]string, t.NumCols())
		for c, col := range t.Columns {
			cell, _ := t.At(r, c)
			row[c] = display(col.Disp, cell.Interface())
		}
		s.Preview = append(s.Preview, row)
	}
	return s
}

func summarizeBinTable(u *hdu.HDU, n int) (*tableSummary, error) {
	t := u.BinTable()
	s := &tableSummary{Rows: t.NRows}
	for _, c := range t.Columns {
		s.Columns = append(s.Columns, columnSummary{Name: c.Name, Form: c.Form.String(), Unit: c.Unit})
	}
	for r := range min(n, t.NRows) {
		row := make([]string, t.NumCols())
		for c, col := range t.Columns {
			cell, err := t.Physical(r, c)
			if err != nil {
				return nil, err
			}
			if v, ok := cell.Value.(bintable.VarArray); ok {
				if cell, err = t.Resolve(v); err != nil {
					return nil, err
				}
			}
			row[c] = display(col.Disp, cell.Value)
		}
		s.Preview = append(s.Preview, row)
	}
	return s, nil
}

// display renders v with the column's TDISP format when it has one.
func display(d *tform.TDisp, v any) string {
	if v == nil {
		return "null"
	}
	if d == nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSpace(d.Format(v))
}
