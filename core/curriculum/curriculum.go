// Package curriculum presents the module outline of a course and keeps the
// set of expanded modules per session.
package curriculum

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

type Lesson struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Duration int    `json:"duration" yaml:"duration"`
	Type     string `json:"type" yaml:"type"`
	IsFree   bool   `json:"isFree" yaml:"is_free"`
}

type Module struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Duration    int      `json:"duration" yaml:"duration"`
	Lessons     []Lesson `json:"lessons" yaml:"lessons"`
}

//go:embed modules.yaml
var modulesYAML []byte

// Load parses a module outline. Module ids must be unique.
func Load(b []byte) ([]Module, error) {
	var doc struct {
		Modules []Module `yaml:"modules"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parsing curriculum: %w", err)
	}

	seen := make(map[string]bool, len(doc.Modules))
	for i, m := range doc.Modules {
		if m.ID == "" {
			return nil, fmt.Errorf("module %d has no id", i)
		}
		if seen[m.ID] {
			return nil, fmt.Errorf("duplicate module id %q", m.ID)
		}
		seen[m.ID] = true
		for _, l := range m.Lessons {
			switch l.Type {
			case "video", "article", "lab", "quiz":
			default:
				return nil, fmt.Errorf("lesson %q: unknown type %q", l.ID, l.Type)
			}
		}
	}
	return doc.Modules, nil
}

// Sample is the outline shipped with the binary.
func Sample() []Module {
	ms, err := Load(modulesYAML)
	if err != nil {
		panic(err)
	}
	return ms
}

type Totals struct {
	Modules       int    `json:"modules"`
	Lessons       int    `json:"lessons"`
	Duration      int    `json:"duration"`
	DurationLabel string `json:"durationLabel"`
}

// Summarize totals the whole outline, independent of what is expanded.
func Summarize(ms []Module) Totals {
	t := Totals{Modules: len(ms)}
	for _, m := range ms {
		t.Duration += m.Duration
		t.Lessons += len(m.Lessons)
	}
	t.DurationLabel = FormatMinutes(t.Duration)
	return t
}

// FormatMinutes renders minutes as "Xh Ym".
func FormatMinutes(min int) string {
	return fmt.Sprintf("%dh %dm", min/60, min%60)
}

// Expanded is the set of module ids whose lessons are shown.
type Expanded map[string]bool

// Initial expands the first module, or nothing for an empty outline.
func Initial(ms []Module) Expanded {
	e := Expanded{}
	if len(ms) > 0 {
		e[ms[0].ID] = true
	}
	return e
}

// Toggle returns a copy of e with id added if absent and removed if present.
func (e Expanded) Toggle(id string) Expanded {
	out := make(Expanded, len(e)+1)
	for k := range e {
		out[k] = true
	}
	if out[id] {
		delete(out, id)
	} else {
		out[id] = true
	}
	return out
}

// IDs lists the expanded ids in outline order.
func (e Expanded) IDs(ms []Module) []string {
	ids := make([]string, 0, len(e))
	for _, m := range ms {
		if e[m.ID] {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

type ModuleView struct {
	Module
	Expanded bool `json:"expanded"`
}

type View struct {
	Totals   Totals       `json:"totals"`
	Modules  []ModuleView `json:"modules"`
	Expanded []string     `json:"expanded"`
	CTA      string       `json:"cta"`
}

func Present(ms []Module, e Expanded) View {
	v := View{
		Totals:   Summarize(ms),
		Modules:  make([]ModuleView, 0, len(ms)),
		Expanded: e.IDs(ms),
	}
	for _, m := range ms {
		v.Modules = append(v.Modules, ModuleView{Module: m, Expanded: e[m.ID]})
	}
	v.CTA = fmt.Sprintf("Get full access to all %d lessons", v.Totals.Lessons)
	return v
}
