package ps

import (
	"fmt"
	"strconv"
	"strings"
)

const sequencePath = ".temporaldb/sequence"

// Sequence returns the last allocated revision id, 0 when nothing has been
// allocated yet. The counter blob travels in the same commit as the revisions
// it covers, so a restored or replicated log always carries a consistent
// high-water mark.
func (p *Persistence) Sequence() (int64, error) {
	if err := p.ensureInitialized(); err != nil {
		return 0, err
	}

	data, err := p.ReadFileDirect(sequencePath)
	if err != nil {
		return 0, nil
	}

	last, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt sequence blob %q: %w", string(data), err)
	}

	return last, nil
}

// SequenceChange builds the Change recording a new high-water mark. Callers
// include it in the same Apply as the revisions that consumed the ids.
func SequenceChange(last int64) Change {
	return Change{
		Path: sequencePath,
		Data: []byte(strconv.FormatInt(last, 10)),
	}
}
