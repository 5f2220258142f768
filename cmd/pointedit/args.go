// ABOUTME: Argument parsing shared by point commands
// ABOUTME: Converts 1-based indices, validates coordinates, and asks for confirmation

package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/harper/pointedit/internal/models"
	"github.com/spf13/cobra"
)

// parseIndex converts a 1-based index argument into a 0-based index.
func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid index %q: must be a positive number (see 'pointedit list')", s)
	}
	return n - 1, nil
}

// parseLocation parses latitude and longitude arguments.
func parseLocation(latStr, lngStr string) (models.LocationInput, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return models.LocationInput{}, fmt.Errorf("invalid latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return models.LocationInput{}, fmt.Errorf("invalid longitude: %w", err)
	}
	if err := models.ValidateCoordinates(lat, lng); err != nil {
		return models.LocationInput{}, err
	}
	return models.PairInput(lat, lng), nil
}

// parseLocationLine accepts "lat lng" or "lat,lng".
func parseLocationLine(line string) (models.LocationInput, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if len(fields) != 2 {
		return models.LocationInput{}, fmt.Errorf("expected \"<lat> <lng>\", got %q", line)
	}
	return parseLocation(fields[0], fields[1])
}

// confirmed returns true when --confirm is set or the user answers yes to prompt.
func confirmed(cmd *cobra.Command, prompt string) bool {
	if ok, _ := cmd.Flags().GetBool("confirm"); ok {
		return true
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	if response == "y" || response == "yes" {
		return true
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Canceled.")
	return false
}
