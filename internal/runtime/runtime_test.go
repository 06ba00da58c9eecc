package runtime

import (
	"strings"
	"testing"
)

func TestArchiveTag(t *testing.T) {
	tag := archiveTag("/some/archive.tar")

	if !strings.HasPrefix(tag, "import/") {
		t.Fatalf("tag %q missing import/ prefix", tag)
	}
	if !strings.HasSuffix(tag, ":latest") {
		t.Fatalf("tag %q missing :latest suffix", tag)
	}

	if archiveTag("/some/archive.tar") != tag {
		t.Fatal("archiveTag is not deterministic")
	}

	if archiveTag("/other/archive.tar") == tag {
		t.Fatal("different paths produced the same tag")
	}
}

func TestHostPlatform(t *testing.T) {
	p := hostPlatform()
	if !strings.HasPrefix(p, "linux/") {
		t.Fatalf("hostPlatform = %q, want linux/<arch>", p)
	}
	parts := strings.Split(p, "/")
	if len(parts) != 2 || parts[1] == "" {
		t.Fatalf("hostPlatform = %q, want linux/<arch>", p)
	}
}
