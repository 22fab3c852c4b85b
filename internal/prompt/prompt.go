// Package prompt composes the instruction sent alongside the creative.
package prompt

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"
)

const (
	MaxCustomInstructionsLength = 2000
	HeadlineMaxChars            = 40
)

type Tone struct {
	Name     string
	Guidance string
}

var tones = []Tone{
	{Name: "Direct Response", Guidance: `Sales-focused, clear CTA, "Buy Now" mentality`},
	{Name: "Problem-Solution", Guidance: "Agitate pain points, offer the product as the hero"},
	{Name: "Storytelling", Guidance: "Narrative-driven, relatable, builds brand affinity"},
	{Name: "Social Proof/Trust", Guidance: "Uses testimonials, numbers, or authority bias"},
	{Name: "Urgency/FOMO", Guidance: "Scarcity, limited time, exclusive offer"},
}

//go:embed template.txt
var templateText string

var promptTemplate = template.Must(template.New("prompt").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(templateText))

type Options struct {
	CustomInstructions string
	// only paid plans may steer the copywriter
	AllowCustom bool
}

type templateData struct {
	Tones              []Tone
	HeadlineMaxChars   int
	CustomInstructions string
}

// returns the fixed tone names in the order the model is asked to follow
func Tones() []string {
	names := make([]string, len(tones))
	for i, t := range tones {
		names[i] = t.Name
	}

	return names
}

// renders the instruction text; identical options always yield identical output
func Build(opts Options) (string, error) {
	data := templateData{
		Tones:            tones,
		HeadlineMaxChars: HeadlineMaxChars,
	}

	if opts.AllowCustom {
		data.CustomInstructions = NormalizeInstructions(opts.CustomInstructions)
	}

	var sb strings.Builder
	if err := promptTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}

	return strings.TrimSpace(sb.String()), nil
}

// trims whitespace and caps the length in runes
func NormalizeInstructions(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= MaxCustomInstructionsLength {
		return s
	}

	runes := []rune(s)
	return strings.TrimSpace(string(runes[:MaxCustomInstructionsLength]))
}
