package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const previewWidth = 60

var colorFlag string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List files and their saved selections",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&colorFlag, "color", "auto", "colorize output (auto|on|off)")
}

func runList(cmd *cobra.Command, args []string) error {
	if err := applyColor(colorFlag, cmd.OutOrStdout()); err != nil {
		return err
	}

	sel, err := openSelections()
	if err != nil {
		return err
	}
	defer sel.Close()

	files := sel.store.Files()
	labels := make([]string, len(files))
	width := 0
	for i, f := range files {
		labels[i] = sel.resolver.Relative(f.Path)
		width = max(width, runewidth.StringWidth(labels[i]))
	}

	out := cmd.OutOrStdout()
	fileColor := color.New(color.FgCyan, color.Bold)
	spanColor := color.New(color.FgYellow)
	dim := color.New(color.Faint)

	for i, f := range files {
		fileColor.Fprint(out, runewidth.FillRight(labels[i], width))
		fmt.Fprintf(out, "  %d %s, %d %s\n",
			f.Ranges, plural(f.Ranges, "range"), f.Lines, plural(f.Lines, "line"))

		for _, r := range sel.store.Ranges(f.Path) {
			spanColor.Fprintf(out, "  %d-%d", r.StartLine+1, r.EndLine+1)
			fmt.Fprint(out, "  ")
			dim.Fprintln(out, preview(r.Content))
		}
	}
	return nil
}

func applyColor(mode string, out io.Writer) error {
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		f, ok := out.(*os.File)
		color.NoColor = !ok || !term.IsTerminal(int(f.Fd()))
	default:
		return fmt.Errorf("invalid --color value %q (want auto, on or off)", mode)
	}
	return nil
}

// preview returns the first line of content cut to previewWidth columns.
func preview(content string) string {
	line, _, more := strings.Cut(content, "\n")
	line = strings.TrimRight(line, " \t\r")
	if runewidth.StringWidth(line) > previewWidth {
		return runewidth.Truncate(line, previewWidth, "...")
	}
	if more {
		return line + " ..."
	}
	return line
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
