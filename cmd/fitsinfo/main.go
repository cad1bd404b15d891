package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/fits"
)

func main() {
	var (
		file        = flag.String("file", "", "Path to FITS file (.fits, .fits.gz, .fits.zst)")
		hduIndex    = flag.Int("hdu", -1, "Only show this HDU (0-based)")
		format      = flag.String("format", "text", "Output format: text or yaml")
		rows        = flag.Int("rows", 5, "Table rows and image pixels to preview")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Log decoder diagnostics to stderr")
	)
	flag.Parse()

	if *file == "" && flag.NArg() > 0 {
		*file = flag.Arg(0)
	}
	if *file == "" {
		fmt.Fprintln(os.Stderr, "Usage: fitsinfo -file <file.fits> [-hdu n] [-format text|yaml] [-rows n]")
		fmt.Fprintln(os.Stderr, "       fitsinfo -file <file.fits> -i  (interactive mode)")
		os.Exit(1)
	}

	opts := fits.DefaultOptions()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = l.Sync() }()
		fits.SetLogger(l)
		opts.Logger = l
	}

	if *interactive {
		if err := runInteractive(*file, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(os.Stdout, *file, *hduIndex, *format, *rows, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer, path string, index int, format string, rows int, opts fits.Options) error {
	f, err := fits.Open(path, opts)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}

	s, err := summarize(path, f, index, rows)
	if err != nil {
		return err
	}

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	case "text":
		writeText(w, s, isTerminal(w))
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func isTerminal(w io.Writer) bool {
	fh, ok := w.(*os.File)
	return ok && term.IsTerminal(int(fh.Fd()))
}

var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	commentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// textStyles renders with lipgloss on a terminal and as plain text
// otherwise.
type textStyles struct {
	styled bool
}

func (t textStyles) render(s lipgloss.Style, text string) string {
	if !t.styled {
		return text
	}
	return s.Render(text)
}

func writeText(w io.Writer, s fileSummary, styled bool) {
	st := textStyles{styled: styled}

	fmt.Fprintf(w, "File: %s\n", s.File)
	for _, h := range s.HDUs {
		title := fmt.Sprintf("HDU %d  %s", h.Index, h.Kind)
		if h.Name != "" {
			title += "  " + h.Name
		}
		fmt.Fprintf(w, "\n%s\n", st.render(headingStyle, title))

		for _, kw := range h.Keywords {
			line := st.render(keyStyle, fmt.Sprintf("%-8s", kw.Name))
			if kw.Value != "" {
				line += " = " + st.render(valueStyle, kw.Value)
			}
			if kw.Comment != "" {
				line += " " + st.render(commentStyle, "/ "+kw.Comment)
			}
			fmt.Fprintln(w, line)
		}

		if img := h.Image; img != nil {
			fmt.Fprintf(w, "\nImage: %s %v\n", img.Bitpix, img.Axes)
			if len(img.CType) > 0 {
				fmt.Fprintf(w, "WCS: %s at %v\n", strings.Join(img.CType, ", "), img.CRVal)
			}
			if len(img.Sample) > 0 {
				fmt.Fprintf(w, "First pixels: %v\n", img.Sample)
			}
		}

		if t := h.Table; t != nil {
			fmt.Fprintf(w, "\nTable: %d rows, %d columns\n", t.Rows, len(t.Columns))
			for _, c := range t.Columns {
				unit := ""
				if c.Unit != "" {
					unit = " [" + c.Unit + "]"
				}
				fmt.Fprintf(w, "  %s %s%s\n", st.render(keyStyle, c.Name), st.render(valueStyle, c.Form), unit)
			}
			for _, row := range t.Preview {
				fmt.Fprintf(w, "  | %s |\n", strings.Join(row, " | "))
			}
		}
	}
}
