package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"sync"
	"text/template"
)

//go:embed templates/*.tmpl templates/*.json
var templateFS embed.FS

type TemplateName string

const (
	TemplateWorkoutSystem TemplateName = "workout_system.tmpl"
	TemplateWorkoutUser   TemplateName = "workout_user.tmpl"
)

// PromptBuilder renders the workout prompts. The template set is parsed once, together with
// the compact plan schema that the system prompt embeds through the schema func.
type PromptBuilder struct {
	once sync.Once
	set  *template.Template
	err  error
}

var (
	defaultBuilderOnce sync.Once
	defaultBuilder     *PromptBuilder
)

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

func DefaultPromptBuilder() *PromptBuilder {
	defaultBuilderOnce.Do(func() {
		defaultBuilder = NewPromptBuilder()
	})
	return defaultBuilder
}

func (pb *PromptBuilder) load() error {
	pb.once.Do(func() {
		schema, err := WorkoutSchema()
		if err != nil {
			pb.err = err
			return
		}

		funcs := template.FuncMap{
			"schema": func() string { return schema },
			"join":   strings.Join,
		}
		pb.set, pb.err = template.New("workout").
			Option("missingkey=error").
			Funcs(funcs).
			ParseFS(templateFS, "templates/*.tmpl")
		if pb.err != nil {
			pb.err = fmt.Errorf("parse prompt templates: %w", pb.err)
		}
	})
	return pb.err
}

// Render executes the named template; surrounding whitespace is trimmed.
func (pb *PromptBuilder) Render(name TemplateName, data any) (string, error) {
	if err := pb.load(); err != nil {
		return "", err
	}

	tmpl := pb.set.Lookup(string(name))
	if tmpl == nil {
		return "", fmt.Errorf("unknown prompt template %s", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}

	return strings.TrimSpace(buf.String()), nil
}
