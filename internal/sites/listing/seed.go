package listing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"listharvest/internal/harvest"
)

// LoadSeed reads previously collected records from path. It accepts the json
// output of a past run or a bare array of records.
func LoadSeed(path string) ([]harvest.ItemRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes seed records from data.
func ParseSeed(data []byte) ([]harvest.ItemRecord, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var items []harvest.ItemRecord
	if data[0] == '[' {
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("failed to parse seed records: %w", err)
		}
		return items, nil
	}

	var doc jsonListing
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return doc.Items, nil
}
