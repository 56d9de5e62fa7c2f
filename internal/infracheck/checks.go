package infracheck

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// Check is one named validation over the files under a root directory
type Check struct {
	Name  string
	Title string
	Run   func(r *Runner) bool
}

// Checks returns the built-in checks in the order they run
func Checks() []Check {
	return []Check{
		{Name: "template", Title: "Testing CloudFormation template...", Run: (*Runner).checkTemplate},
		{Name: "parameters", Title: "Testing parameter files...", Run: (*Runner).checkParameters},
		{Name: "website", Title: "Testing static website files...", Run: (*Runner).checkWebsite},
		{Name: "application", Title: "Testing application code...", Run: (*Runner).checkApplication},
		{Name: "scripts", Title: "Testing deployment scripts...", Run: (*Runner).checkScripts},
	}
}

// Summary counts passed checks
type Summary struct {
	Passed int
	Total  int
}

// OK reports whether every check passed
func (s Summary) OK() bool {
	return s.Passed == s.Total
}

// Runner runs checks against one directory tree
type Runner struct {
	root     string
	manifest *Manifest
	out      io.Writer
	pass     *color.Color
	fail     *color.Color
}

// NewRunner creates a runner printing to out
func NewRunner(root string, manifest *Manifest, out io.Writer, colors bool) *Runner {
	pass := color.New(color.FgGreen)
	fail := color.New(color.FgRed)
	if !colors {
		pass.DisableColor()
		fail.DisableColor()
	}
	return &Runner{
		root:     root,
		manifest: manifest,
		out:      out,
		pass:     pass,
		fail:     fail,
	}
}

// Run executes every check and prints the results
func (r *Runner) Run() Summary {
	fmt.Fprintln(r.out, "🧪 Running AWS Three-Tier Architecture Tests")

	checks := Checks()
	summary := Summary{Total: len(checks)}
	for _, check := range checks {
		fmt.Fprintf(r.out, "\n%s\n", check.Title)
		if check.Run(r) {
			summary.Passed++
		} else {
			r.fail.Fprintln(r.out, "❌ Test failed!")
		}
	}

	fmt.Fprintf(r.out, "\n📊 Test Results: %d/%d tests passed\n", summary.Passed, summary.Total)
	if summary.OK() {
		r.pass.Fprintln(r.out, "🎉 All tests passed!")
	} else {
		r.fail.Fprintln(r.out, "❌ Some tests failed!")
	}
	return summary
}

func (r *Runner) ok(format string, args ...any) {
	r.pass.Fprintf(r.out, "✅ "+format+"\n", args...)
}

func (r *Runner) failed(format string, args ...any) bool {
	r.fail.Fprintf(r.out, "❌ "+format+"\n", args...)
	return false
}

func (r *Runner) path(rel string) string {
	return filepath.Join(r.root, rel)
}

func (r *Runner) read(rel string) (string, bool) {
	data, err := os.ReadFile(r.path(rel))
	if err != nil {
		return "", false
	}
	return string(data), true
}

func (r *Runner) checkTemplate() bool {
	spec := r.manifest.Template

	content, ok := r.read(spec.Path)
	if !ok {
		return r.failed("Template file not found: %s", spec.Path)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return r.failed("Error testing template: %v", err)
	}
	top := mappingKeys(rootMapping(&doc))

	for _, section := range spec.RequiredSections {
		if _, found := top[section]; !found {
			return r.failed("Missing required section: %s", section)
		}
	}
	r.ok("Template structure is valid")

	resources := mappingKeys(top["Resources"])
	r.ok("Template contains %d parameters and %d resources", len(mappingKeys(top["Parameters"])), len(resources))

	for _, resource := range spec.RequiredResources {
		if _, found := resources[resource]; !found {
			return r.failed("Missing required resource: %s", resource)
		}
	}

	found := 0
	for _, fn := range spec.IntrinsicFunctions {
		if strings.Contains(content, fn) {
			found++
		}
	}
	if found < spec.MinIntrinsic {
		return r.failed("Template should use CloudFormation intrinsic functions")
	}

	r.ok("All required resources are present")
	r.ok("Template uses CloudFormation intrinsic functions")
	return true
}

// rootMapping returns the mapping node of a parsed document, or nil
func rootMapping(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return nil
	}
	return doc
}

// mappingKeys indexes the values of a mapping node by key
func mappingKeys(node *yaml.Node) map[string]*yaml.Node {
	keys := make(map[string]*yaml.Node)
	if node == nil || node.Kind != yaml.MappingNode {
		return keys
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys[node.Content[i].Value] = node.Content[i+1]
	}
	return keys
}

type parameter struct {
	ParameterKey   string `json:"ParameterKey"`
	ParameterValue string `json:"ParameterValue"`
}

func (r *Runner) checkParameters() bool {
	spec := r.manifest.Parameters

	for _, file := range spec.Files {
		content, ok := r.read(file)
		if !ok {
			return r.failed("Parameter file not found: %s", file)
		}

		var raw any
		if err := json.Unmarshal([]byte(content), &raw); err != nil {
			return r.failed("JSON parsing error in %s: %v", file, err)
		}
		if _, isList := raw.([]any); !isList {
			return r.failed("Parameter file should contain a list: %s", file)
		}

		var params []parameter
		if err := json.Unmarshal([]byte(content), &params); err != nil {
			return r.failed("Error testing parameter file %s: %v", file, err)
		}

		keys := make(map[string]bool, len(params))
		for _, p := range params {
			keys[p.ParameterKey] = true
		}
		for _, required := range spec.RequiredKeys {
			if !keys[required] {
				return r.failed("Missing required parameter %s in %s", required, file)
			}
		}

		r.ok("Parameter file valid: %s", file)
	}
	return true
}

func (r *Runner) checkWebsite() bool {
	for _, file := range r.manifest.Website.Files {
		content, ok := r.read(file)
		if !ok {
			return r.failed("Website file not found: %s", file)
		}

		if !strings.HasPrefix(strings.TrimSpace(content), "<!DOCTYPE html>") {
			return r.failed("Invalid HTML structure in %s", file)
		}
		if !strings.Contains(content, "<html") || !strings.Contains(content, "</html>") {
			return r.failed("Missing HTML tags in %s", file)
		}

		r.ok("Website file valid: %s", file)
	}
	return true
}

func (r *Runner) checkApplication() bool {
	spec := r.manifest.Application

	content, ok := r.read(spec.Path)
	if !ok {
		return r.failed("Application file not found: %s", spec.Path)
	}

	for _, component := range spec.RequiredComponents {
		if !strings.Contains(content, component) {
			return r.failed("Missing component in application: %s", component)
		}
	}

	r.ok("Application code structure is valid")
	return true
}

func (r *Runner) checkScripts() bool {
	spec := r.manifest.Scripts

	for _, file := range spec.Files {
		info, err := os.Stat(r.path(file))
		if err != nil {
			return r.failed("Script not found: %s", file)
		}
		if info.Mode().Perm()&0o111 == 0 {
			return r.failed("Script not executable: %s", file)
		}

		content, ok := r.read(file)
		if !ok {
			return r.failed("Error testing script %s", file)
		}
		if !strings.HasPrefix(content, spec.Shebang) {
			return r.failed("Script missing shebang: %s", file)
		}

		r.ok("Script valid: %s", file)
	}
	return true
}
