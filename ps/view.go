package ps

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nickyhof/TemporalDB/core"
)

// Saved point-in-time views live under .temporaldb/views/. A view pins a
// table at an instant; the engine answers SELECT FROM VIEW by running the
// table query as of the pinned timestamp.

func viewPath(name string) string {
	return fmt.Sprintf(".temporaldb/views/%s.json", name)
}

// CreateView stores a view definition
func (persistence *Persistence) CreateView(view core.View, identity core.Identity) (Transaction, error) {
	dataBytes, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to marshal view: %w", err)
	}

	return persistence.WriteFileDirect(viewPath(view.Name), dataBytes, identity, fmt.Sprintf("Creating view %s", view.Name))
}

// GetView retrieves a view definition
func (persistence *Persistence) GetView(name string) (*core.View, error) {
	data, err := persistence.ReadFileDirect(viewPath(name))
	if err != nil {
		return nil, fmt.Errorf("view %s does not exist: %w", name, err)
	}

	var view core.View
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, fmt.Errorf("failed to unmarshal view: %w", err)
	}

	return &view, nil
}

// ListViews returns all saved views
func (persistence *Persistence) ListViews() ([]core.View, error) {
	entries, err := persistence.ListEntriesDirect(".temporaldb/views")
	if err != nil {
		// No views directory yet - return empty list
		return []core.View{}, nil
	}

	var views []core.View
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name, ".json") {
			continue
		}

		viewName := strings.TrimSuffix(entry.Name, ".json")
		view, err := persistence.GetView(viewName)
		if err != nil {
			continue // Skip invalid views
		}
		views = append(views, *view)
	}

	return views, nil
}

// DropView removes a view definition
func (persistence *Persistence) DropView(name string, identity core.Identity) (Transaction, error) {
	paths := []string{viewPath(name)}

	return persistence.DeletePathDirect(paths, identity, fmt.Sprintf("Dropping view %s", name))
}
