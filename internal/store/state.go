package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"ExchangeLedger/internal/model"
)

// loadSnapshot reads the persisted group ledgers from a JSON file. Returns
// an empty map if the file doesn't exist. A corrupt snapshot starts the
// store empty rather than keeping the bot down: the per-day logs, not the
// snapshot, are the durable record.
func loadSnapshot(path string) (map[int64]*model.GroupLedger, error) {
	groups := make(map[int64]*model.GroupLedger)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return groups, nil
		}
		return nil, fmt.Errorf("read state snapshot: %w", err)
	}
	if err := json.Unmarshal(data, &groups); err != nil {
		log.Printf("[ERROR] state snapshot %s is corrupt, starting empty: %v", path, err)
		return make(map[int64]*model.GroupLedger), nil
	}
	return groups, nil
}

// marshalSnapshot renders all group ledgers to JSON. Kept separate from the
// file write so callers can marshal under the map lock and write outside it.
func marshalSnapshot(groups map[int64]*model.GroupLedger) ([]byte, error) {
	return json.MarshalIndent(groups, "", "  ")
}

// writeSnapshot replaces the snapshot file atomically via temp file plus
// rename, so a crash mid-write never leaves a half-written snapshot behind.
func writeSnapshot(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
