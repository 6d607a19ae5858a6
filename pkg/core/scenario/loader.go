package scenario

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v2"
)

// Format names a scenario file encoding
type Format string

const (
	FormatYAML  Format = "yaml"
	FormatHJSON Format = "hjson"
	FormatJSON  Format = "json"
)

// FormatFromPath picks the format from the file extension (JSON when unknown)
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".hjson":
		return FormatHJSON
	}
	return FormatJSON
}

// LoadFile reads and parses a scenario file
func LoadFile(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to read scenario: %w", err)
	}
	s, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a scenario over the defaults, so omitted fields keep their
// reference values.
func Parse(data []byte, format Format) (Scenario, error) {
	s := Default()
	s.CapexMode = ""

	var err error
	switch format {
	case FormatYAML:
		err = parseYAML(data, &s)
	case FormatHJSON:
		err = parseHJSON(data, &s)
	case FormatJSON, "":
		err = parseLenientJSON(data, &s)
	default:
		err = fmt.Errorf("unsupported scenario format %q", format)
	}
	if err != nil {
		return Scenario{}, err
	}

	if err := s.normalize(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

func parseYAML(data []byte, s *Scenario) error {
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("YAML_PARSE_ERROR: %v", err)
	}
	return nil
}

// parseHJSON goes through a generic value and standard JSON so the
// TextUnmarshaler on the adjustment type is honoured.
func parseHJSON(data []byte, s *Scenario) error {
	var generic interface{}
	if err := hjson.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("HJSON_PARSE_ERROR: %v", err)
	}
	jsonBytes, err := json.Marshal(generic)
	if err != nil {
		return fmt.Errorf("JSON_MARSHAL_ERROR: %v", err)
	}
	if err := json.Unmarshal(jsonBytes, s); err != nil {
		return fmt.Errorf("JSON_STRUCTURAL_ERROR: %v", err)
	}
	return nil
}

// parseLenientJSON tries, in order:
// 1. Standard JSON
// 2. JSON repair (trailing commas, single quotes, comments, code fences)
// 3. Hjson (most lenient)
func parseLenientJSON(data []byte, s *Scenario) error {
	// Each attempt decodes into a copy so a partial failure leaves s untouched
	attempt := func(b []byte) bool {
		tmp := s.clone()
		if err := json.Unmarshal(b, &tmp); err != nil {
			return false
		}
		*s = tmp
		return true
	}

	if attempt(data) {
		return nil
	}

	repaired, err := jsonrepair.RepairJSON(string(data))
	if err == nil && attempt([]byte(repaired)) {
		log.Printf("[SCENARIO] input repaired before decoding")
		return nil
	}

	tmp := s.clone()
	if err := parseHJSON(data, &tmp); err == nil {
		*s = tmp
		return nil
	}

	return fmt.Errorf("SMART_PARSE_FAILED: all parsing strategies failed for input")
}
