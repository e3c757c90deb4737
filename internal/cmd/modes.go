package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/gogpu/asciiscreen"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	nameStyle  = lipgloss.NewStyle().Bold(true).Width(14)
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(5).Align(lipgloss.Right)
	tipStyle   = lipgloss.NewStyle().Faint(true)
)

func newModesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List the available glyph ramps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printModes(cmd.OutOrStdout())
		},
	}
}

// printModes writes one line per built-in ramp, darkest glyph first.
func printModes(w io.Writer) error {
	fmt.Fprintln(w, titleStyle.Render("Modes (darkest to brightest)"))
	for _, name := range asciiscreen.Modes() {
		ramp, err := asciiscreen.RampForMode(name)
		if err != nil {
			return err
		}
		marker := " "
		if name == asciiscreen.DefaultMode {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s%s  %s\n",
			marker, nameStyle.Render(name), countStyle.Render(fmt.Sprint(ramp.Len())), ramp.String())
	}
	fmt.Fprintln(w, tipStyle.Render("* default. Non-ASCII ramps need a UTF-8 terminal or --encoding cp437."))
	return nil
}
