package catalog

import "testing"

func TestSlugifyBasic(t *testing.T) {
	if got := Slugify("FlexPro PU!!"); got != "flexpro-pu" {
		t.Fatalf("expected flexpro-pu, got %q", got)
	}
	if got := Slugify("AquaShield 2K  Membrane"); got != "aquashield-2k-membrane" {
		t.Fatalf("expected aquashield-2k-membrane, got %q", got)
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{
		"FlexPro PU!!",
		"  Tile --- Fix  ",
		"çimento esaslı yapıştırıcı",
		"already-valid-slug",
		"",
	}
	for _, in := range inputs {
		once := Slugify(in)
		twice := Slugify(once)
		if once != twice {
			t.Fatalf("Slugify not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestSlugifyStripsAndCollapses(t *testing.T) {
	if got := Slugify("--A&B   C--"); got != "ab-c" {
		t.Fatalf("expected ab-c, got %q", got)
	}
	if got := Slugify("!!!"); got != "" {
		t.Fatalf("expected empty slug, got %q", got)
	}
}
