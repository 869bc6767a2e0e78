package cli_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCLI_FileInputOutput tests the CLI with file input and output
func TestCLI_FileInputOutput(t *testing.T) {
	tempDir := t.TempDir()

	jsonContent := `{
		"name": "John Doe",
		"address": {"city": "Anytown"},
		"phones": [
			{"type": "home", "number": "555-1234"},
			{"type": "work", "number": "555-5678"}
		],
		"active": true
	}`
	jsonFile := filepath.Join(tempDir, "data.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(jsonContent), 0644))

	tmpl := "{{name}} ({{address.city}})\n{{#phones}}{{type}}: {{number}}\n{{/phones}}{{?active}}active{{/active}}"
	tmplFile := filepath.Join(tempDir, "card.mustache")
	require.NoError(t, os.WriteFile(tmplFile, []byte(tmpl), 0644))

	outputFile := filepath.Join(tempDir, "card.txt")

	cmd := exec.Command("go", "run", "../../main.go", "-t", tmplFile, "-i", jsonFile, "-o", outputFile)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "CLI command failed: %s", string(output))

	rendered, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	assert.Equal(t, "John Doe (Anytown)\nhome: 555-1234\nwork: 555-5678\nactive", string(rendered))
}

// TestCLI_StdinStdout tests the CLI with stdin input and stdout output
func TestCLI_StdinStdout(t *testing.T) {
	tmplFile := filepath.Join(t.TempDir(), "hello.mustache")
	require.NoError(t, os.WriteFile(tmplFile, []byte("Hello {{name}}, {{%tags}} tags"), 0644))

	cmd := exec.Command("go", "run", "../../main.go", "-t", tmplFile)
	cmd.Stdin = strings.NewReader(`{"name": "Jane Smith", "tags": ["a", "b"]}`)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	require.NoError(t, err, "CLI command failed: %s", stderr.String())
	assert.Equal(t, "Hello Jane Smith, 2 tags", stdout.String())
}

// TestCLI_Partials tests partial lookup with a custom partials directory
func TestCLI_Partials(t *testing.T) {
	tempDir := t.TempDir()
	partialsDir := filepath.Join(tempDir, "partials")
	require.NoError(t, os.MkdirAll(partialsDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(partialsDir, "row.mustache"), []byte("[{{.}}]"), 0644))

	tmplFile := filepath.Join(tempDir, "table.mustache")
	require.NoError(t, os.WriteFile(tmplFile, []byte("{{#rows}}{{>row}}{{/rows}}"), 0644))

	cmd := exec.Command("go", "run", "../../main.go", "-t", tmplFile, "-p", partialsDir)
	cmd.Stdin = strings.NewReader(`{"rows": [1, 2, 3]}`)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	require.NoError(t, cmd.Run())
	assert.Equal(t, "[1][2][3]", stdout.String())
}

// TestCLI_Markdown tests Markdown conversion of the output
func TestCLI_Markdown(t *testing.T) {
	tmplFile := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(tmplFile, []byte("## {{title}}\n"), 0644))

	cmd := exec.Command("go", "run", "../../main.go", "-t", tmplFile, "-m")
	cmd.Stdin = strings.NewReader(`{"title": "Overview"}`)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	require.NoError(t, cmd.Run())
	assert.Equal(t, "<h2>Overview</h2>\n", stdout.String())
}

// TestCLI_TemplateError tests that mismatched sections fail the command
func TestCLI_TemplateError(t *testing.T) {
	tmplFile := filepath.Join(t.TempDir(), "bad.mustache")
	require.NoError(t, os.WriteFile(tmplFile, []byte("{{?b}}{{/a}}"), 0644))

	cmd := exec.Command("go", "run", "../../main.go", "-t", tmplFile)
	cmd.Stdin = strings.NewReader(`{}`)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	assert.Error(t, err, "CLI should fail with a mismatched section")
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "Template error")
}

// TestCLI_InvalidJSON tests the CLI with invalid JSON input
func TestCLI_InvalidJSON(t *testing.T) {
	tmplFile := filepath.Join(t.TempDir(), "t.mustache")
	require.NoError(t, os.WriteFile(tmplFile, []byte("{{a}}"), 0644))

	cmd := exec.Command("go", "run", "../../main.go", "-t", tmplFile)
	cmd.Stdin = strings.NewReader(`{"name": "Invalid JSON",}`)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	assert.Error(t, err, "CLI should fail with invalid JSON")
	assert.Contains(t, stderr.String(), "Data parsing error")
}

// TestCLI_MissingTemplate tests the CLI without a template
func TestCLI_MissingTemplate(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go")
	cmd.Stdin = strings.NewReader(`{}`)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	assert.Error(t, err)
	assert.Contains(t, stderr.String(), "no template provided")
}

// TestCLI_Version tests the version flag
func TestCLI_Version(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go", "-v")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err)
	assert.Contains(t, string(output), "gostache version")
}

// TestCLI_Help tests the help output
func TestCLI_Help(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go", "--help")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err)

	helpOutput := string(output)
	assert.Contains(t, helpOutput, "Usage:")
	assert.Contains(t, helpOutput, "-t, --template")
	assert.Contains(t, helpOutput, "-i, --input")
	assert.Contains(t, helpOutput, "-o, --output")
	assert.Contains(t, helpOutput, "-p, --partials")
	assert.Contains(t, helpOutput, "-w, --watch")
}
