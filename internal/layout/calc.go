package layout

import "github.com/wippyai/fits/tform"

// Info describes a row layout.
type Info struct {
	// Offsets holds the byte offset of each column within a row.
	Offsets []int
	// Sizes holds the byte size of each column.
	Sizes []int
	// Size is the total row width in bytes.
	Size int
}

// Calculate lays out forms in declaration order. It reports false when
// the row width does not fit in an int.
func Calculate(forms []tform.TForm) (Info, bool) {
	info := Info{
		Offsets: make([]int, len(forms)),
		Sizes:   make([]int, len(forms)),
	}
	offset := 0
	for i, f := range forms {
		info.Offsets[i] = offset
		info.Sizes[i] = f.Bytes()
		next, ok := Add(offset, info.Sizes[i])
		if !ok {
			return Info{}, false
		}
		offset = next
	}
	info.Size = offset
	return info, true
}

// Span returns the byte range of column col within a row.
func (i Info) Span(col int) (start, end int) {
	return i.Offsets[col], i.Offsets[col] + i.Sizes[col]
}
