package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseRequirement(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Requirement
		wantErr bool
	}{
		{
			name:  "bare name",
			input: "fastapi",
			want:  Requirement{Name: "fastapi", Canonical: "fastapi"},
		},
		{
			name:  "pinned version",
			input: "pydantic==2.5.0",
			want:  Requirement{Name: "pydantic", Canonical: "pydantic", Specifier: "==2.5.0"},
		},
		{
			name:  "minimum version",
			input: "uvicorn>=0.23",
			want:  Requirement{Name: "uvicorn", Canonical: "uvicorn", Specifier: ">=0.23"},
		},
		{
			name:  "compatible release",
			input: "qdrant-client~=1.7",
			want:  Requirement{Name: "qdrant-client", Canonical: "qdrant-client", Specifier: "~=1.7"},
		},
		{
			name:  "extras",
			input: "uvicorn[standard]==0.24.0",
			want: Requirement{
				Name:      "uvicorn",
				Canonical: "uvicorn",
				Extras:    []string{"standard"},
				Specifier: "==0.24.0",
			},
		},
		{
			name:  "multiple constraints",
			input: "numpy>=1.21,<2.0",
			want:  Requirement{Name: "numpy", Canonical: "numpy", Specifier: ">=1.21,<2.0"},
		},
		{
			name:  "spaces around specifier",
			input: "requests >= 2.28",
			want:  Requirement{Name: "requests", Canonical: "requests", Specifier: ">=2.28"},
		},
		{
			name:  "environment marker",
			input: `pywin32>=300; sys_platform == "win32"`,
			want: Requirement{
				Name:      "pywin32",
				Canonical: "pywin32",
				Specifier: ">=300",
				Marker:    `sys_platform == "win32"`,
			},
		},
		{
			name:  "underscores normalized",
			input: "python_dotenv==1.0.0",
			want:  Requirement{Name: "python_dotenv", Canonical: "python-dotenv", Specifier: "==1.0.0"},
		},
		{
			name:    "pip directive",
			input:   "-r other.txt",
			wantErr: true,
		},
		{
			name:    "editable install",
			input:   "-e .",
			wantErr: true,
		},
		{
			name:    "url requirement",
			input:   "https://example.com/pkg.tar.gz",
			wantErr: true,
		},
		{
			name:    "unterminated extras",
			input:   "uvicorn[standard",
			wantErr: true,
		},
		{
			name:    "garbage after name",
			input:   "fastapi $$$",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRequirement(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertRequirement(t, got, tt.want)
		})
	}
}

func assertRequirement(t *testing.T, got, want Requirement) {
	t.Helper()
	if got.Name != want.Name {
		t.Errorf("Name = %q, want %q", got.Name, want.Name)
	}
	if got.Canonical != want.Canonical {
		t.Errorf("Canonical = %q, want %q", got.Canonical, want.Canonical)
	}
	if got.Specifier != want.Specifier {
		t.Errorf("Specifier = %q, want %q", got.Specifier, want.Specifier)
	}
	if got.Marker != want.Marker {
		t.Errorf("Marker = %q, want %q", got.Marker, want.Marker)
	}
	if len(got.Extras) != len(want.Extras) {
		t.Fatalf("Extras = %v, want %v", got.Extras, want.Extras)
	}
	for i := range got.Extras {
		if got.Extras[i] != want.Extras[i] {
			t.Errorf("Extras[%d] = %q, want %q", i, got.Extras[i], want.Extras[i])
		}
	}
}

func TestParseRequirementsOrdering(t *testing.T) {
	// Line order must not affect the result.
	a := "uvicorn==0.24.0\nfastapi==0.104.0\npydantic==2.5.0\n"
	b := "pydantic==2.5.0\nuvicorn==0.24.0\nfastapi==0.104.0\n"

	ra, err := ParseRequirements(strings.NewReader(a))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rb, err := ParseRequirements(strings.NewReader(b))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ra) != len(rb) {
		t.Fatalf("len mismatch: %d vs %d", len(ra), len(rb))
	}
	for i := range ra {
		if ra[i].String() != rb[i].String() {
			t.Errorf("entry %d differs: %q vs %q", i, ra[i].String(), rb[i].String())
		}
	}

	want := []string{"fastapi", "pydantic", "uvicorn"}
	for i, req := range ra {
		if req.Canonical != want[i] {
			t.Errorf("entry %d = %q, want %q", i, req.Canonical, want[i])
		}
	}
}

// The rendered manifest is what the builder stage installs from; two
// line-order permutations of the same dependency set must stage
// byte-identical files.
func TestRenderRequirementsDeterministic(t *testing.T) {
	a := "uvicorn[standard]==0.24.0  # server\nfastapi==0.104.0\npydantic>=2.5\n"
	b := "pydantic >= 2.5\nfastapi==0.104.0\nuvicorn[standard]==0.24.0\n"

	ra, err := ParseRequirements(strings.NewReader(a))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rb, err := ParseRequirements(strings.NewReader(b))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rendered := RenderRequirements(ra)
	if string(rendered) != string(RenderRequirements(rb)) {
		t.Fatalf("renders differ:\n%s\nvs\n%s", rendered, RenderRequirements(rb))
	}

	want := "fastapi==0.104.0\npydantic>=2.5\nuvicorn[standard]==0.24.0\n"
	if string(rendered) != want {
		t.Fatalf("rendered = %q, want %q", rendered, want)
	}
}

func TestWriteRequirements(t *testing.T) {
	reqs, err := ParseRequirements(strings.NewReader("fastapi==0.104.0\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "requirements.txt")
	if err := WriteRequirements(path, reqs); err != nil {
		t.Fatalf("WriteRequirements() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "fastapi==0.104.0\n" {
		t.Fatalf("staged manifest = %q", data)
	}
}

func TestParseRequirementsCommentsAndBlanks(t *testing.T) {
	input := `
# web framework
fastapi==0.104.0

uvicorn==0.24.0  # server
`
	reqs, err := ParseRequirements(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reqs) != 2 {
		t.Fatalf("len = %d, want 2", len(reqs))
	}
}

func TestParseRequirementsDuplicates(t *testing.T) {
	// Identical duplicates collapse.
	reqs, err := ParseRequirements(strings.NewReader("fastapi==1.0\nFastAPI==1.0\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reqs) != 1 {
		t.Fatalf("len = %d, want 1", len(reqs))
	}

	// Conflicting duplicates fail.
	_, err = ParseRequirements(strings.NewReader("fastapi==1.0\nfastapi==2.0\n"))
	if err == nil {
		t.Fatal("expected conflict error, got nil")
	}
	if !errors.Is(err, ErrRequirements) {
		t.Fatalf("error = %v, want ErrRequirements", err)
	}
}

func TestParseRequirementsEmpty(t *testing.T) {
	reqs, err := ParseRequirements(strings.NewReader("# nothing here\n\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reqs) != 0 {
		t.Fatalf("len = %d, want 0", len(reqs))
	}
}

func TestParseRequirementsFailFast(t *testing.T) {
	// One bad line rejects the whole manifest.
	_, err := ParseRequirements(strings.NewReader("fastapi==1.0\n-r extra.txt\nuvicorn\n"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("error %q missing line number", err.Error())
	}
}

// Line errors carry the sentinel once, not once per wrapping layer.
func TestParseRequirementsErrorSingleWrap(t *testing.T) {
	_, err := ParseRequirements(strings.NewReader("-r other.txt\n"))
	if !errors.Is(err, ErrRequirements) {
		t.Fatalf("error = %v, want ErrRequirements", err)
	}
	if strings.Count(err.Error(), ErrRequirements.Error()) != 1 {
		t.Fatalf("sentinel repeated in %q", err.Error())
	}
}

func TestCanonicalName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"fastapi", "fastapi"},
		{"FastAPI", "fastapi"},
		{"python_dotenv", "python-dotenv"},
		{"zope.interface", "zope-interface"},
		{"foo--bar", "foo-bar"},
		{"Foo._-Bar", "foo-bar"},
	}

	for _, tt := range tests {
		if got := CanonicalName(tt.input); got != tt.want {
			t.Errorf("CanonicalName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRequirementString(t *testing.T) {
	req := Requirement{
		Name:      "uvicorn",
		Extras:    []string{"standard"},
		Specifier: "==0.24.0",
	}
	if got := req.String(); got != "uvicorn[standard]==0.24.0" {
		t.Fatalf("String() = %q", got)
	}

	req = Requirement{Name: "pywin32", Specifier: ">=300", Marker: `sys_platform == "win32"`}
	if got := req.String(); got != `pywin32>=300; sys_platform == "win32"` {
		t.Fatalf("String() = %q", got)
	}
}
