// Package flatfile implements the bridge's directories on top of the
// colon-delimited text files the deployment is configured with
// (contactos.txt, grupoproyecto.txt, and the optional project sink map).
package flatfile

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// readRecords parses a colon-delimited flat file into trimmed field slices.
// Blank lines and lines with fewer than minFields non-empty leading fields
// are skipped, matching how the deployment files have always been curated
// by hand.
func readRecords(path string, minFields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var records [][]string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Split(line, ":")
		if len(parts) < minFields {
			continue
		}
		fields := make([]string, len(parts))
		usable := true
		for i, p := range parts {
			fields[i] = strings.TrimSpace(p)
			if i < minFields && fields[i] == "" {
				usable = false
			}
		}
		if !usable {
			continue
		}
		records = append(records, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}
