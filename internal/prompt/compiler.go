// Package prompt assembles the compiled prompt sent to the model
// endpoint from instruction, context and data sections.
package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/kayz/motion/internal/template"
)

// Inputs are the raw section texts before compilation.
type Inputs struct {
	Instruction      string
	ExtraInstruction string
	Context          string
	Data             string
}

type section struct {
	label   string
	content string
}

// Compile merges the inputs into one ordered prompt string. Empty
// sections are omitted; the Context section is always present because
// the current wall-clock facts are appended to it. The joined result is
// run through the template expander a final time, since user context
// can reintroduce literal {{ }} text after the first pass.
func Compile(in Inputs, now time.Time, region string) string {
	var sections []section

	sections = appendSection(sections, "Instruction:", template.Expand(in.Instruction, now))
	sections = appendSection(sections, "Additional Instructions:", template.Expand(in.ExtraInstruction, now))
	sections = appendSection(sections, "Context:", contextBody(in.Context, now, region))
	sections = appendSection(sections, "Data:", in.Data)

	return template.Expand(renderSections(sections), now)
}

// contextBody expands the user context and appends the dynamic facts.
func contextBody(userContext string, now time.Time, region string) string {
	var lines []string
	if expanded := strings.TrimSpace(template.Expand(userContext, now)); expanded != "" {
		lines = append(lines, expanded)
	}
	lines = append(lines, fmt.Sprintf("Right now it's %s", now.Format(template.LongDateTimeLayout)))
	if region != "" {
		lines = append(lines, fmt.Sprintf("My region is %s", region))
	}
	return strings.Join(lines, "\n")
}

func appendSection(list []section, label, content string) []section {
	// Trim the section edges only; internal blank lines stay intact.
	content = strings.TrimSpace(content)
	if content == "" {
		return list
	}
	return append(list, section{label: label, content: content})
}

func renderSections(sections []section) string {
	var out strings.Builder
	for i, s := range sections {
		if i > 0 {
			out.WriteString("\n\n")
		}
		out.WriteString(s.label)
		out.WriteString("\n")
		out.WriteString(s.content)
	}
	return out.String()
}
