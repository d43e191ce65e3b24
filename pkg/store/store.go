// Package store persists saved workflows. It sits outside the editor core and
// receives whatever the save gate lets through.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/ritzau/workflow-canvas/pkg/codec"
	"github.com/ritzau/workflow-canvas/pkg/model"
)

// ErrNotFound is returned when no workflow with the requested name exists.
var ErrNotFound = errors.New("workflow not found")

// Workflow is a saved canvas.
type Workflow struct {
	Name    string       `json:"name" msgpack:"name"`
	Nodes   []model.Node `json:"nodes" msgpack:"nodes"`
	Edges   []model.Edge `json:"edges" msgpack:"edges"`
	SavedAt time.Time    `json:"savedAt" msgpack:"saved_at"`
}

// Summary describes a stored workflow without its graph.
type Summary struct {
	Name    string    `json:"name"`
	Slug    string    `json:"slug"`
	Nodes   int       `json:"nodes"`
	Edges   int       `json:"edges"`
	SavedAt time.Time `json:"savedAt"`
}

// Store is the persistence collaborator.
type Store interface {
	Save(ctx context.Context, wf Workflow) error
	Load(ctx context.Context, name string) (Workflow, error)
	List(ctx context.Context) ([]Summary, error)
	Close() error
}

// Driver names a Store implementation
type Driver string

const (
	DriverFile   Driver = "file"
	DriverSQLite Driver = "sqlite"
)

// ParseDriver validates a driver name from configuration.
func ParseDriver(s string) (Driver, error) {
	switch d := Driver(strings.ToLower(s)); d {
	case DriverFile, DriverSQLite:
		return d, nil
	default:
		return "", fmt.Errorf("unknown store driver %q", s)
	}
}

// Open creates the store selected by driver. For the file driver path is a
// directory; for sqlite it is the database file.
func Open(driver Driver, path string, c *codec.Codec) (Store, error) {
	switch driver {
	case DriverFile:
		return NewFileStore(path, c)
	case DriverSQLite:
		return OpenSQLite(path, c)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// Slug turns a workflow name into a stable key: lower case, runs of anything
// other than letters and digits collapse to a single '-'.
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "workflow"
	}
	return slug
}

func summarize(wf Workflow) Summary {
	return Summary{
		Name:    wf.Name,
		Slug:    Slug(wf.Name),
		Nodes:   len(wf.Nodes),
		Edges:   len(wf.Edges),
		SavedAt: wf.SavedAt,
	}
}
