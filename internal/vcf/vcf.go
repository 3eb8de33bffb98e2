// Package vcf extracts phone numbers from vCard files.
package vcf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Parse reads a vCard stream and returns the values of all TEL properties
// in file order. Both the bare "TEL:" form and parameterized forms such as
// "TEL;TYPE=CELL:" are recognized. An empty result is not an error.
func Parse(r io.Reader) ([]string, error) {
	var phones []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "TEL:") && !strings.HasPrefix(line, "TEL;") {
			continue
		}

		colon := strings.Index(line, ":")
		if colon < 0 {
			continue
		}

		phone := strings.TrimSpace(line[colon+1:])
		if phone == "" {
			continue
		}
		phones = append(phones, phone)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vcf: %w", err)
	}

	return phones, nil
}
