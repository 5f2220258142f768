// ABOUTME: Interactive place command
// ABOUTME: Drives the editor session's placing and labeling modes from a terminal

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/harper/pointedit/internal/editor"
	"github.com/harper/pointedit/internal/ui"
	"github.com/spf13/cobra"
)

const placeHelp = `Enter "<lat> <lng>" to place a point, "here" to use your current location,
"edit <index>" to relabel a point, "cancel" to drop a pending point, or "done" to finish.`

var placeCmd = &cobra.Command{
	Use:   "place [<latitude> <longitude>]",
	Short: "Place points interactively",
	Long: `Place points one after another, optionally naming each one as it is placed.

With coordinates, a single point is placed and the command exits.
With --label-prompt, each placed point waits for a label before it is saved.

Examples:
  pointedit place
  pointedit place --label-prompt
  pointedit place 41.8781 -87.6298 --label-prompt`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("expected no arguments or <latitude> <longitude>, got %d", len(args))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt, _ := cmd.Flags().GetBool("label-prompt")
		session.SetLabelPrompt(prompt)

		in := cmd.InOrStdin()
		once := len(args) == 2
		if once {
			in = io.MultiReader(strings.NewReader(args[0]+" "+args[1]+"\n"), in)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), placeHelp)
		}
		return runPlaceLoop(cmd.Context(), session, in, cmd.OutOrStdout(), once)
	},
}

func init() {
	placeCmd.Flags().SetInterspersed(false)
	placeCmd.Flags().Bool("label-prompt", false, "ask for a label before saving each placed point")

	rootCmd.AddCommand(placeCmd)
}

// runPlaceLoop reads placing commands from in until "done" or EOF.
// When once is set it returns after the first point is saved.
func runPlaceLoop(ctx context.Context, s *editor.Session, in io.Reader, out io.Writer, once bool) error {
	scanner := bufio.NewScanner(in)
	s.StartPlacing()

	for {
		fmt.Fprintf(out, "%s> ", ui.FormatMode(s.Mode()))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			s.Cancel()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		before := len(s.Points())

		var err error
		switch s.Mode() {
		case editor.ModeLabelingNew, editor.ModeEditingLabel:
			err = handleLabelLine(ctx, s, line, out)
		default:
			var finished bool
			finished, err = handlePlaceLine(ctx, s, line, out)
			if finished {
				s.Cancel()
				return nil
			}
		}

		if err != nil {
			retry := errors.Is(err, editor.ErrLabelRequired) || errors.Is(err, editor.ErrLabelTooLong)
			if once && !retry {
				s.Cancel()
				return err
			}
			switch {
			case errors.Is(err, editor.ErrLabelRequired):
				fmt.Fprintln(out, color.YellowString("A label is required (or \"cancel\")."))
			case errors.Is(err, editor.ErrLabelTooLong):
				fmt.Fprintln(out, color.YellowString("%v. Try a shorter label (or \"cancel\").", err))
			default:
				fmt.Fprintln(out, color.RedString("✗ %v", err))
			}
		}

		if after := s.Points(); len(after) > before {
			fmt.Fprintf(out, "%s %s\n", color.GreenString("✓ Added"), ui.FormatPoint(len(after)-1, after[len(after)-1]))
			if once {
				return nil
			}
		}

		if notice := s.Notice(); notice != nil {
			fmt.Fprintln(out, ui.FormatNotice(notice))
			s.DismissNotice()
		}

		if s.Mode() == editor.ModeBrowsing {
			if once {
				return nil
			}
			s.StartPlacing()
		}
	}
}

func handleLabelLine(ctx context.Context, s *editor.Session, line string, out io.Writer) error {
	if line == "cancel" {
		s.Cancel()
		return nil
	}
	editing := s.Mode() == editor.ModeEditingLabel
	if err := s.SubmitLabel(ctx, line); err != nil {
		return err
	}
	if editing {
		fmt.Fprintln(out, color.GreenString("✓ Label updated"))
	}
	return nil
}

func handlePlaceLine(ctx context.Context, s *editor.Session, line string, out io.Writer) (finished bool, err error) {
	switch {
	case line == "":
		return false, nil
	case line == "done" || line == "quit" || line == "q" || line == "cancel":
		return true, nil
	case line == "here":
		// No geolocation source is available from a terminal.
		s.ReportLocateFailure()
		return false, nil
	case strings.HasPrefix(line, "edit "):
		index, err := parseIndex(strings.TrimPrefix(line, "edit "))
		if err != nil {
			return false, err
		}
		current, err := s.BeginEditLabel(index)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(out, "Current label: %s. Enter a new label:\n", color.CyanString(current))
		return false, nil
	}

	loc, err := parseLocationLine(line)
	if err != nil {
		return false, err
	}
	if _, err := s.Place(ctx, loc); err != nil {
		return false, err
	}
	if s.Mode() == editor.ModeLabelingNew {
		fmt.Fprintln(out, "Enter a label for the new point:")
	}
	return false, nil
}
