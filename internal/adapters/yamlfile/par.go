package yamlfile

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadPar reads a fable .par parameter file.
func LoadPar(path string) (map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read par file: %w", err)
	}
	return ParsePar(data), nil
}

// ParsePar parses fable .par text: one "name value" pair per line, split on
// whitespace. Blank lines and '#' comments are skipped, and so are entries
// whose value is not a number; par files mix free-text settings in with the
// calibration.
func ParsePar(data []byte) map[string]float64 {
	params := make(map[string]float64)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}
		params[fields[0]] = v
	}

	return params
}
