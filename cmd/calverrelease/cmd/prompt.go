package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/grokify/calverrelease/internal/conductor"
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// styler colours status lines when writing to a terminal.
type styler struct {
	successColor *color.Color
	warnColor    *color.Color
	infoColor    *color.Color
}

func newStyler(w io.Writer) *styler {
	s := &styler{
		successColor: color.New(color.FgGreen, color.Bold),
		warnColor:    color.New(color.FgYellow),
		infoColor:    color.New(color.FgCyan),
	}
	if !isTerminal(w) {
		s.successColor.DisableColor()
		s.warnColor.DisableColor()
		s.infoColor.DisableColor()
	}
	return s
}

func (s *styler) success(msg string) string { return s.successColor.Sprint(msg) }
func (s *styler) warn(msg string) string    { return s.warnColor.Sprint(msg) }
func (s *styler) info(msg string) string    { return s.infoColor.Sprint(msg) }

// confirmRelease shows the planned release and asks before tagging.
func confirmRelease(cmd *cobra.Command) conductor.ConfirmFunc {
	return func(ctx context.Context, plan *conductor.Plan) (bool, error) {
		if !isTerminal(cmd.InOrStdin()) {
			return false, conductor.ErrNotTerminal
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "\n%s\n\n", plan.Notes)

		var ok bool
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("Create and push tag %s?", plan.Version),
			Default: false,
		}
		if err := survey.AskOne(prompt, &ok); err != nil {
			return false, err
		}
		return ok, nil
	}
}
