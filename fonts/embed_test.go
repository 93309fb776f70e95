package fonts

import "testing"

func TestLoadBuiltin(t *testing.T) {
	for _, name := range append(Names(), "", "builtin:lmmono10", "built-in:LMMono10") {
		data, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("Load(%q) returned no data", name)
		}
	}
	if _, err := Load("comic-sans"); err == nil {
		t.Fatalf("unknown font should fail")
	}
}
