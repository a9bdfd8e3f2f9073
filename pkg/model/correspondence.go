package model

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/oliviercoulon/MeCA-internship/internal/models"
)

// LoadCorrespondence reads a landmark correspondence table.
//
// The format is the whitespace text table the existing tooling produces:
// four labeled rows of landmark indices, `#` comments and blank lines
// ignored.
//
//	# Human to Chimp, left hemisphere
//	longitude1: 0 1 3 4
//	longitude2: 0 2 3 5
//	latitude1:  0 1 2
//	latitude2:  0 1 3
//
// Row N lists the landmark indices of species N; columns pair up across the
// two rows of an axis kind. Row lengths are not reconciled here: the
// registration core checks them and reports a dimension mismatch with axis
// context, so a truncated row fails the run rather than silently dropping
// pairs.
func LoadCorrespondence(path string) (*models.CorrespondenceTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading correspondence table: %w", err)
	}
	defer f.Close()

	table := &models.CorrespondenceTable{}
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		label, rest, found := strings.Cut(line, ":")
		if !found {
			return nil, fmt.Errorf("%s:%d: expected \"label: indices...\", got %q", path, lineNo, line)
		}
		label = strings.TrimSpace(label)
		if seen[label] {
			return nil, fmt.Errorf("%s:%d: row %q declared twice", path, lineNo, label)
		}
		seen[label] = true

		indices, err := parseIndices(rest)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}

		switch label {
		case "longitude1":
			table.Longitude.Species1 = indices
		case "longitude2":
			table.Longitude.Species2 = indices
		case "latitude1":
			table.Latitude.Species1 = indices
		case "latitude2":
			table.Latitude.Species2 = indices
		default:
			return nil, fmt.Errorf("%s:%d: unknown row label %q", path, lineNo, label)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading correspondence table: %w", err)
	}

	for _, required := range []string{"longitude1", "longitude2", "latitude1", "latitude2"} {
		if !seen[required] {
			return nil, fmt.Errorf("%s: missing row %q", path, required)
		}
	}

	return table, nil
}

func parseIndices(s string) ([]int, error) {
	fields := strings.Fields(s)
	indices := make([]int, len(fields))
	for i, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("index %q is not an integer", field)
		}
		if n < 0 {
			return nil, fmt.Errorf("index %d is negative", n)
		}
		indices[i] = n
	}
	return indices, nil
}
