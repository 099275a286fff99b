package version

import (
	"os"
	"path/filepath"
	"text/template"
)

const infoTemplate = `package info

// NAME the application name, also used for config, cache and log paths
const NAME = "{{ .NAME }}"

// VERSION the current release of the application
const VERSION = "{{ .VERSION }}"
`

// TemplateGenerator implements the Generator interface using templates
type TemplateGenerator struct {
	outFile string
	outDir  string
}

// NewTemplateGenerator returns a new instance of TemplateGenerator
func NewTemplateGenerator(outFile string) *TemplateGenerator {
	return &TemplateGenerator{
		outFile: outFile,
		outDir:  filepath.Dir(outFile),
	}
}

// Generate implements the Generate method using templates
func (t *TemplateGenerator) Generate(data VersionData) error {
	if err := os.MkdirAll(t.outDir, 0751); err != nil {
		return err
	}

	file, err := os.Create(t.outFile)

	if err != nil {
		return err
	}

	defer file.Close()

	tmpl, err := template.New("info.go").Parse(infoTemplate)

	if err != nil {
		return err
	}

	return tmpl.Execute(file, data)
}
