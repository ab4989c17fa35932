// Package coach turns the week's rides and the rider's brief into a prompt for a language model and keeps a
// log of the answers.
package coach

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed prompts/*.md
var prompts embed.FS

// DefaultPrompt is the name of the embedded weekly planning prompt.
const DefaultPrompt = "cycling"

// Prompts returns the embedded prompt templates.
func Prompts() fs.FS {
	sub, err := fs.Sub(prompts, "prompts")
	if err != nil {
		panic(err)
	}
	return sub
}

// LoadPrompt reads name.md from fsys and replaces every {key} placeholder with data[key].
func LoadPrompt(fsys fs.FS, name string, data map[string]string) (string, error) {
	b, err := fs.ReadFile(fsys, name+".md")
	if err != nil {
		return "", fmt.Errorf("load prompt %s: %w", name, err)
	}
	contents := strings.TrimSpace(string(b))
	for key, value := range data {
		contents = strings.ReplaceAll(contents, "{"+key+"}", value)
	}
	return contents, nil
}
