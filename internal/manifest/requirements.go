package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/prizmlabs/slipway/internal/fault"
)

// A single entry from a requirements manifest.
type Requirement struct {
	Name      string   // Distribution name as written in the manifest.
	Canonical string   // Normalized name used for comparison and ordering.
	Extras    []string // Optional extras, e.g. "standard" in "uvicorn[standard]".
	Specifier string   // Version constraint, e.g. "==1.2.3". Empty means any version.
	Marker    string   // Environment marker after ';', passed through verbatim.
}

// Matches a distribution name: alphanumeric with interior dots, dashes,
// and underscores.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?`)

// Version comparison operators, longest first so that "==" is not consumed
// as "=" and "~=" is recognized before bare comparisons.
var specifierOps = []string{"===", "==", "!=", "~=", ">=", "<=", ">", "<"}

// Reads a requirements manifest from a file.
//
// The result is in resolution order: deduplicated and sorted by canonical
// name. See [ParseRequirements] for the accepted format.
func LoadRequirements(path string) ([]Requirement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fault.Wrap(ErrRequirements, err)
	}
	defer f.Close()

	return ParseRequirements(f)
}

// Parses a requirements manifest.
//
// Each non-empty line declares one requirement: a distribution name,
// optional extras in brackets, an optional comma-separated version
// specifier, and an optional environment marker after ';'. Comments start
// with '#'. Pip directives (lines starting with '-') and URL requirements
// are rejected; the manifest must be a plain dependency list so that the
// install step is fully described by its entries.
//
// Entries are deduplicated and returned sorted by canonical name. Two
// entries for the same distribution with different constraints are a
// conflict and fail the parse.
func ParseRequirements(r io.Reader) ([]Requirement, error) {
	var reqs []Requirement

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := stripComment(scanner.Text())
		if line == "" {
			continue
		}

		req, err := parseRequirement(line)
		if err != nil {
			return nil, fault.Wrapf(ErrRequirements, "line %d: %w", lineNo, err)
		}
		reqs = append(reqs, req)
	}
	if err := scanner.Err(); err != nil {
		return nil, fault.Wrap(ErrRequirements, err)
	}

	return resolveOrder(reqs)
}

// Parses a single requirement line.
func parseRequirement(line string) (Requirement, error) {
	var req Requirement

	if strings.HasPrefix(line, "-") {
		return req, fmt.Errorf("directive %q not supported", line)
	}
	if strings.Contains(line, "://") {
		return req, fmt.Errorf("URL requirement %q not supported", line)
	}

	// Detach the environment marker first; everything after ';' is opaque.
	spec := line
	if i := strings.IndexByte(line, ';'); i >= 0 {
		spec = strings.TrimSpace(line[:i])
		req.Marker = strings.TrimSpace(line[i+1:])
	}

	name := namePattern.FindString(spec)
	if name == "" {
		return req, fmt.Errorf("cannot parse %q", line)
	}
	req.Name = name
	req.Canonical = CanonicalName(name)

	rest := strings.TrimSpace(spec[len(name):])

	if strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return req, fmt.Errorf("unterminated extras in %q", line)
		}
		for _, extra := range strings.Split(rest[1:end], ",") {
			extra = strings.TrimSpace(extra)
			if extra != "" {
				req.Extras = append(req.Extras, extra)
			}
		}
		rest = strings.TrimSpace(rest[end+1:])
	}

	if rest != "" {
		if !hasSpecifierPrefix(rest) {
			return req, fmt.Errorf("unexpected %q after name in %q", rest, line)
		}
		req.Specifier = strings.ReplaceAll(rest, " ", "")
	}

	return req, nil
}

// Reports whether s starts with a version comparison operator.
func hasSpecifierPrefix(s string) bool {
	for _, op := range specifierOps {
		if strings.HasPrefix(s, op) {
			return true
		}
	}
	return false
}

// Removes a trailing comment and surrounding whitespace from a line.
func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// Normalizes a distribution name for comparison.
//
// Lowercases the name and collapses runs of dots, dashes, and underscores
// into a single dash, so "Foo__Bar" and "foo-bar" refer to the same
// distribution.
func CanonicalName(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	sep := false
	for _, c := range strings.ToLower(name) {
		if c == '.' || c == '-' || c == '_' {
			sep = true
			continue
		}
		if sep && b.Len() > 0 {
			b.WriteByte('-')
		}
		sep = false
		b.WriteRune(c)
	}
	return b.String()
}

// Produces the deterministic install order for a set of requirements.
//
// Entries are deduplicated by canonical name and sorted, so the same
// manifest always produces the same install invocation regardless of line
// order. Two entries for the same distribution must agree on their
// constraints.
func resolveOrder(reqs []Requirement) ([]Requirement, error) {
	byName := make(map[string]Requirement, len(reqs))

	for _, req := range reqs {
		prev, ok := byName[req.Canonical]
		if !ok {
			byName[req.Canonical] = req
			continue
		}
		if prev.Specifier != req.Specifier || prev.Marker != req.Marker {
			return nil, fault.Wrapf(ErrRequirements, "conflicting entries for %q: %q vs %q",
				req.Canonical, prev.String(), req.String())
		}
	}

	resolved := make([]Requirement, 0, len(byName))
	for _, req := range byName {
		resolved = append(resolved, req)
	}
	sort.Slice(resolved, func(i, j int) bool {
		return resolved[i].Canonical < resolved[j].Canonical
	})

	return resolved, nil
}

// Renders requirements back into manifest syntax, one per line.
//
// Feeding the install step with rendered output rather than the source
// file is what makes builds deterministic: the same set of requirements
// produces byte-identical output regardless of source line order,
// comments, or spacing.
func RenderRequirements(reqs []Requirement) []byte {
	var b strings.Builder
	for _, req := range reqs {
		b.WriteString(req.String())
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// Writes requirements to a file in manifest syntax.
func WriteRequirements(path string, reqs []Requirement) error {
	if err := os.WriteFile(path, RenderRequirements(reqs), 0o644); err != nil {
		return fault.Wrap(ErrRequirements, err)
	}
	return nil
}

// Formats the requirement back into manifest syntax.
func (r Requirement) String() string {
	var b strings.Builder
	b.WriteString(r.Name)
	if len(r.Extras) > 0 {
		b.WriteByte('[')
		b.WriteString(strings.Join(r.Extras, ","))
		b.WriteByte(']')
	}
	b.WriteString(r.Specifier)
	if r.Marker != "" {
		b.WriteString("; ")
		b.WriteString(r.Marker)
	}
	return b.String()
}
