package build

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestParseCopy(t *testing.T) {
	tests := []struct {
		name     string
		copyStr  string
		workdir  string
		wantSrc  string
		wantDest string
		wantErr  bool
	}{
		{
			name:     "absolute dest",
			copyStr:  "requirements.txt /build/requirements.txt",
			wantSrc:  "requirements.txt",
			wantDest: "/build/requirements.txt",
		},
		{
			name:     "relative dest with workdir",
			copyStr:  "config.yml config.yml",
			workdir:  "/app",
			wantSrc:  "config.yml",
			wantDest: "/app/config.yml",
		},
		{
			name:    "relative dest without workdir",
			copyStr: "a.txt b.txt",
			wantErr: true,
		},
		{
			name:    "missing dest",
			copyStr: "only-source",
			wantErr: true,
		},
		{
			name:    "too many tokens",
			copyStr: "a b c",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, dest, err := parseCopy(tt.copyStr, tt.workdir)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseCopy(%q) error = nil, want error", tt.copyStr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseCopy(%q) error = %v", tt.copyStr, err)
			}
			if src != tt.wantSrc || dest != tt.wantDest {
				t.Errorf("parseCopy(%q) = (%q, %q), want (%q, %q)", tt.copyStr, src, dest, tt.wantSrc, tt.wantDest)
			}
		})
	}
}

func TestParseStageCopy(t *testing.T) {
	tests := []struct {
		src       string
		wantStage string
		wantPath  string
		wantOK    bool
	}{
		{"builder:/root/.local", "builder", "/root/.local", true},
		{"cache:/var/cache", "cache", "/var/cache", true},
		{"requirements.txt", "", "", false},
		{"/abs/path", "", "", false},
		{"/foo:bar", "", "", false},
		{":leading-colon", "", "", false},
	}

	for _, tt := range tests {
		stage, path, ok := parseStageCopy(tt.src)
		if stage != tt.wantStage || path != tt.wantPath || ok != tt.wantOK {
			t.Errorf("parseStageCopy(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.src, stage, path, ok, tt.wantStage, tt.wantPath, tt.wantOK)
		}
	}
}

func TestWriteFileToTar(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "requirements.txt")
	if err := os.WriteFile(path, []byte("fastapi==0.104.1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := writeFileToTar(tw, path, "requirements.txt"); err != nil {
		t.Fatalf("writeFileToTar() error = %v", err)
	}
	tw.Close()

	tr := tar.NewReader(&buf)
	header, err := tr.Next()
	if err != nil {
		t.Fatal(err)
	}
	if header.Name != "requirements.txt" {
		t.Errorf("archive name = %q, want %q", header.Name, "requirements.txt")
	}

	data, err := io.ReadAll(tr)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "fastapi==0.104.1\n" {
		t.Errorf("archive content = %q", data)
	}
}

func TestWriteDirToTar(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "routers"), 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"main.py":         "app = FastAPI()\n",
		"routers/chat.py": "router = APIRouter()\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := writeDirToTar(tw, dir, "app"); err != nil {
		t.Fatalf("writeDirToTar() error = %v", err)
	}
	tw.Close()

	got := make(map[string]string)
	tr := tar.NewReader(&buf)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			t.Fatal(err)
		}
		got[header.Name] = string(data)
	}

	for name, content := range files {
		archivePath := filepath.ToSlash(filepath.Join("app", name))
		if got[archivePath] != content {
			t.Errorf("archive entry %q = %q, want %q", archivePath, got[archivePath], content)
		}
	}
}
