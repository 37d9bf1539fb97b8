package loader

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/nickyhof/TemporalDB/op"
)

// Export writes a table's full revision log as JSON Lines, one revision per
// line in effective order per entity. The export is the complete history,
// intervals included, not a point-in-time state. Returns the number of
// revisions written.
func Export(log *op.TableLog, url string) (int, error) {
	return ExportWithConfig(log, url, nil)
}

func ExportWithConfig(log *op.TableLog, url string, cfg *S3Config) (int, error) {
	writer, err := openWriter(url, cfg)
	if err != nil {
		return 0, err
	}

	entityIds, err := log.EntityIDs()
	if err != nil {
		writer.Close()
		return 0, err
	}

	written := 0
	for _, entityId := range entityIds {
		revisions, err := log.RevisionsOf(entityId)
		if err != nil {
			writer.Close()
			return 0, err
		}

		for _, rev := range revisions {
			line, err := json.Marshal(rev)
			if err != nil {
				writer.Close()
				return 0, err
			}
			if _, err := writer.Write(append(line, '\n')); err != nil {
				writer.Close()
				return 0, err
			}
			written++
		}
	}

	if err := writer.Close(); err != nil {
		return 0, err
	}

	return written, nil
}

// entityFromPayload parses the primary key column value as the entity id.
// Nil means auto-assign.
func entityFromPayload(pk *string, payload map[string]string) (*int64, error) {
	if pk == nil {
		return nil, nil
	}

	value, ok := payload[*pk]
	if !ok || value == "" {
		return nil, nil
	}

	entity, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("primary key value '%s' is not an integer", value)
	}

	return &entity, nil
}
