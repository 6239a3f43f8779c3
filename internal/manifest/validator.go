package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/attributes.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// ValidationResult contains the outcome of an attribute validation.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue represents a single validation error.
type ValidationIssue struct {
	Path    string // Instance location (e.g., "/GUI", "/Native-Platforms/1")
	Message string // Human-readable error message
	Keyword string // Schema keyword that failed
}

// Summary renders the issues as one line per issue, prefixed by a count.
func (r *ValidationResult) Summary() string {
	if r.Valid {
		return ""
	}
	var b strings.Builder
	b.WriteString(printer.Sprintf("%d attribute issue(s)", len(r.Issues)))
	for _, issue := range r.Issues {
		b.WriteString("\n  ")
		if issue.Path != "" {
			b.WriteString(issue.Path)
			b.WriteString(": ")
		}
		b.WriteString(issue.Message)
	}
	return b.String()
}

// getSchema compiles the embedded JSON schema once and returns it.
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("attributes.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("attributes.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Validate checks the capsule attributes against the embedded schema and
// then checks that Min-Java-Version does not exceed Java-Version.
// The error return is for schema compilation failures only.
func Validate(c *Capsule) (*ValidationResult, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	jsonData, err := json.Marshal(attributeDocument(c))
	if err != nil {
		return nil, fmt.Errorf("converting attributes to JSON: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	if err := schema.Validate(inst); err != nil {
		validationErr, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return nil, fmt.Errorf("unexpected validation error type: %w", err)
		}
		return &ValidationResult{Valid: false, Issues: extractIssues(validationErr)}, nil
	}

	if issue := checkJavaBounds(c); issue != nil {
		return &ValidationResult{Valid: false, Issues: []ValidationIssue{*issue}}, nil
	}

	return &ValidationResult{Valid: true}, nil
}

// attributeDocument converts the main-section attributes into a JSON-ready
// object: booleans become JSON booleans when they spell true/false, lists
// become arrays, everything else stays a string.
func attributeDocument(c *Capsule) map[string]interface{} {
	doc := make(map[string]interface{})
	for _, name := range c.Manifest.Main.Names() {
		value, _ := c.Manifest.Main.Get(name)
		doc[canonicalName(name)] = strings.TrimSpace(value)
	}
	for _, name := range BoolAttributes {
		if v, ok := doc[name].(string); ok {
			switch strings.ToLower(v) {
			case "true":
				doc[name] = true
			case "false":
				doc[name] = false
			}
		}
	}
	for _, name := range ListAttributes {
		if v, ok := doc[name].(string); ok {
			items := []string{}
			for _, f := range strings.Fields(v) {
				if name == AttrNativePlatforms {
					f = strings.ToLower(f)
				}
				items = append(items, f)
			}
			doc[name] = items
		}
	}
	return doc
}

var knownNames = []string{
	AttrManifestVersion, AttrAppName, AttrAppVersion, AttrIcon, AttrGUI,
	AttrSingleInstance, AttrImplementationVendor, AttrNativeDescription,
	AttrCopyright, AttrInternalName, AttrMinJavaVersion, AttrJavaVersion,
	AttrJDKRequired, AttrNativePlatforms, AttrNativeOutput, AttrCaplets,
}

// canonicalName maps a case-insensitive attribute name to its schema spelling.
func canonicalName(name string) string {
	for _, k := range knownNames {
		if strings.EqualFold(k, name) {
			return k
		}
	}
	return name
}

// checkJavaBounds reports Min-Java-Version > Java-Version.
func checkJavaBounds(c *Capsule) *ValidationIssue {
	minRaw, maxRaw := c.Attr(AttrMinJavaVersion), c.Attr(AttrJavaVersion)
	if minRaw == "" || maxRaw == "" {
		return nil
	}
	lo, err := ParseJavaVersion(minRaw)
	if err != nil {
		return &ValidationIssue{Path: "/" + AttrMinJavaVersion, Message: err.Error(), Keyword: "format"}
	}
	hi, err := ParseJavaVersion(maxRaw)
	if err != nil {
		return &ValidationIssue{Path: "/" + AttrJavaVersion, Message: err.Error(), Keyword: "format"}
	}
	if lo.Compare(hi) > 0 {
		return &ValidationIssue{
			Path:    "/" + AttrMinJavaVersion,
			Message: printer.Sprintf("minimum runtime version %s is greater than maximum %s", minRaw, maxRaw),
			Keyword: "order",
		}
	}
	return nil
}

// JavaVersion is a Java-style runtime version. Core holds the first three
// numeric components and any pre-release tag; Extra holds further numeric
// components such as the patch level of 11.0.20.1.
type JavaVersion struct {
	Core  *semver.Version
	Extra []uint64
}

// ParseJavaVersion parses a Java-style version ("1.8.0_45", "11",
// "17.0.2", "11.0.20.1", "21-ea"). The update suffix after "_" is ignored.
func ParseJavaVersion(v string) (*JavaVersion, error) {
	raw := strings.TrimSpace(v)
	s := raw
	if idx := strings.Index(s, "_"); idx >= 0 {
		s = s[:idx]
	}
	num, pre, _ := strings.Cut(s, "-")

	parts := strings.Split(num, ".")
	var extra []uint64
	if len(parts) > 3 {
		for _, p := range parts[3:] {
			n, err := strconv.ParseUint(p, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("parsing runtime version %q: %w", raw, err)
			}
			extra = append(extra, n)
		}
		parts = parts[:3]
	}
	core := strings.Join(parts, ".")
	if pre != "" {
		core += "-" + pre
	}

	parsed, err := semver.NewVersion(core)
	if err != nil {
		return nil, fmt.Errorf("parsing runtime version %q: %w", raw, err)
	}
	return &JavaVersion{Core: parsed, Extra: extra}, nil
}

// Compare returns -1, 0 or 1. Extra components rank below the patch level
// and above the pre-release tag, and missing ones count as zero.
func (v *JavaVersion) Compare(o *JavaVersion) int {
	if c := release(v.Core).Compare(release(o.Core)); c != 0 {
		return c
	}
	for i := 0; i < max(len(v.Extra), len(o.Extra)); i++ {
		a, b := component(v.Extra, i), component(o.Extra, i)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
	}
	return v.Core.Compare(o.Core)
}

func (v *JavaVersion) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d.%d.%d", v.Core.Major(), v.Core.Minor(), v.Core.Patch())
	for _, e := range v.Extra {
		fmt.Fprintf(&b, ".%d", e)
	}
	if pre := v.Core.Prerelease(); pre != "" {
		b.WriteString("-" + pre)
	}
	return b.String()
}

func release(v *semver.Version) *semver.Version {
	r, err := v.SetPrerelease("")
	if err != nil {
		return v
	}
	return &r
}

func component(parts []uint64, i int) uint64 {
	if i < len(parts) {
		return parts[i]
	}
	return 0
}

// extractIssues walks the ValidationError tree and returns leaf-level issues.
func extractIssues(ve *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	collectValidationIssues(ve, &issues)

	if len(issues) == 0 {
		return []ValidationIssue{{
			Message: ve.Error(),
		}}
	}
	return deduplicateIssues(issues)
}

// collectValidationIssues recursively walks the error tree to find leaf errors
// with specific property information.
func collectValidationIssues(ve *jsonschema.ValidationError, issues *[]ValidationIssue) {
	if len(ve.Causes) == 0 {
		path := "/" + strings.Join(ve.InstanceLocation, "/")
		if len(ve.InstanceLocation) == 0 {
			path = ""
		}

		keyword := ""
		if ve.ErrorKind != nil {
			kwPath := ve.ErrorKind.KeywordPath()
			if len(kwPath) > 0 {
				keyword = kwPath[len(kwPath)-1]
			}
		}

		msg := ""
		if ve.ErrorKind != nil {
			msg = ve.ErrorKind.LocalizedString(printer)
		}

		// Skip generic container errors that aren't informative.
		if keyword == "allOf" || keyword == "$ref" || keyword == "" {
			return
		}

		*issues = append(*issues, ValidationIssue{
			Path:    path,
			Message: msg,
			Keyword: keyword,
		})
		return
	}

	for _, cause := range ve.Causes {
		collectValidationIssues(cause, issues)
	}
}

// deduplicateIssues removes duplicate issues (same path + keyword + message).
func deduplicateIssues(issues []ValidationIssue) []ValidationIssue {
	seen := make(map[string]bool)
	var result []ValidationIssue
	for _, issue := range issues {
		key := issue.Path + "|" + issue.Keyword + "|" + issue.Message
		if !seen[key] {
			seen[key] = true
			result = append(result, issue)
		}
	}
	return result
}
