package diff

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	rdiff "github.com/r3labs/diff/v3"
)

// Kind classifies a single delta entry.
type Kind string

const (
	// KindAdded marks a field present in B but not in A.
	KindAdded Kind = "added"
	// KindRemoved marks a field present in A but not in B.
	KindRemoved Kind = "removed"
	// KindChanged marks a field whose value differs between A and B.
	KindChanged Kind = "changed"
	// KindTypeChanged marks a field whose value type differs between A and B.
	KindTypeChanged Kind = "type_changed"
)

// Entry is one field-level difference between two documents.
type Entry struct {
	// Path locates the field, one component per nesting level.
	Path []string
	// Kind classifies the difference.
	Kind Kind
	// From is the value on the A side (nil for added fields).
	From any
	// To is the value on the B side (nil for removed fields).
	To any
}

// PathString renders the entry path in dotted form.
func (e Entry) PathString() string {
	return strings.Join(e.Path, ".")
}

// Delta is the structured description of all differences between two
// documents. An empty delta means the documents are identical.
type Delta struct {
	Entries []Entry
}

// Empty reports whether the two documents were identical.
func (d Delta) Empty() bool {
	return len(d.Entries) == 0
}

// Details serializes the delta as JSON grouped by kind, suitable for a
// report cell.
func (d Delta) Details() (string, error) {
	grouped := map[Kind]map[string]any{}
	for _, e := range d.Entries {
		if grouped[e.Kind] == nil {
			grouped[e.Kind] = map[string]any{}
		}
		switch e.Kind {
		case KindAdded:
			grouped[e.Kind][e.PathString()] = e.To
		case KindRemoved:
			grouped[e.Kind][e.PathString()] = e.From
		default:
			grouped[e.Kind][e.PathString()] = map[string]any{"from": e.From, "to": e.To}
		}
	}

	out, err := json.Marshal(grouped)
	if err != nil {
		return "", fmt.Errorf("failed to encode delta: %w", err)
	}
	return string(out), nil
}

// Differ computes field-level deltas between two documents. The recursive
// walk itself is delegated to the r3labs differ; this type classifies its
// changelog and applies exclusions.
type Differ struct {
	excludes Excludes
}

// NewDiffer creates a differ with the given exclusion set.
func NewDiffer(excludes Excludes) *Differ {
	return &Differ{excludes: excludes}
}

// Compare diffs document A against document B and returns the classified
// delta. Fields under an excluded path are ignored.
func (d *Differ) Compare(a, b map[string]any) (Delta, error) {
	changelog, err := rdiff.Diff(a, b)
	if err != nil {
		return Delta{}, fmt.Errorf("failed to diff documents: %w", err)
	}

	// A value replaced by one of a different type may surface as a
	// delete/create pair at the same path. Collect per path first so
	// those pairs can be folded into a single type_changed entry.
	byPath := map[string][]rdiff.Change{}
	order := []string{}
	for _, c := range changelog {
		if d.excludes.Match(c.Path) {
			continue
		}
		key := strings.Join(c.Path, ".")
		if _, seen := byPath[key]; !seen {
			order = append(order, key)
		}
		byPath[key] = append(byPath[key], c)
	}
	sort.Strings(order)

	var delta Delta
	for _, key := range order {
		changes := byPath[key]
		if e, ok := foldReplacement(changes); ok {
			delta.Entries = append(delta.Entries, e)
			continue
		}
		for _, c := range changes {
			delta.Entries = append(delta.Entries, classify(c))
		}
	}
	return delta, nil
}

func classify(c rdiff.Change) Entry {
	e := Entry{Path: c.Path, From: c.From, To: c.To}
	switch c.Type {
	case rdiff.CREATE:
		e.Kind = KindAdded
	case rdiff.DELETE:
		e.Kind = KindRemoved
	default:
		e.Kind = KindChanged
		if isTypeChange(c.From, c.To) {
			e.Kind = KindTypeChanged
		}
	}
	return e
}

func foldReplacement(changes []rdiff.Change) (Entry, bool) {
	if len(changes) != 2 {
		return Entry{}, false
	}
	del, create := changes[0], changes[1]
	if del.Type != rdiff.DELETE {
		del, create = create, del
	}
	if del.Type != rdiff.DELETE || create.Type != rdiff.CREATE {
		return Entry{}, false
	}
	return Entry{
		Path: del.Path,
		Kind: KindTypeChanged,
		From: del.From,
		To:   create.To,
	}, true
}

func isTypeChange(from, to any) bool {
	if from == nil || to == nil {
		return false
	}
	return reflect.TypeOf(from) != reflect.TypeOf(to)
}
