package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/valyala/fasttemplate"

	"github.com/maksimkurb/livebox-wan/src/internal/livebox"
)

// outputMode selects what is printed from the WAN status.
type outputMode int

const (
	modeField outputMode = iota
	modeTemplate
)

// renderer prints either a single field or a {{Field}} template.
type renderer struct {
	mode     outputMode
	field    string
	template *fasttemplate.Template
}

func newFieldRenderer(field string) *renderer {
	return &renderer{mode: modeField, field: field}
}

func newTemplateRenderer(format string) (*renderer, error) {
	t, err := fasttemplate.NewTemplate(unescape(format), "{{", "}}")
	if err != nil {
		return nil, err
	}
	return &renderer{mode: modeTemplate, template: t}, nil
}

// Render writes the selected value followed by a newline. A missing field
// writes nothing; a missing template variable renders as empty.
func (r *renderer) Render(w io.Writer, status livebox.WANStatus) error {
	if r.mode == modeTemplate {
		out := r.template.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
			value, _ := status.Get(strings.TrimSpace(tag))
			return w.Write([]byte(value))
		})
		_, err := fmt.Fprintln(w, out)
		return err
	}

	value, ok := status.Get(r.field)
	if !ok {
		return nil
	}
	_, err := fmt.Fprintln(w, value)
	return err
}

// unescape turns the two-character sequences \n and \t into the characters.
func unescape(format string) string {
	return strings.NewReplacer(`\n`, "\n", `\t`, "\t").Replace(format)
}
