package command

import "testing"

func TestMatchPrefixShortTypedMatchesLongerName(t *testing.T) {
	var r Registry
	r.Add(Command{Name: "help"})
	r.Add(Command{Name: "top"})

	c, ok := r.MatchPrefix("h")
	if !ok || c.Name != "help" {
		t.Fatalf("MatchPrefix(%q) = %q, %v; want %q, true", "h", c.Name, ok, "help")
	}
}

func TestMatchPrefixFirstRegistrationWinsOnAmbiguity(t *testing.T) {
	var r Registry
	r.Add(Command{Name: "clear"})
	r.Add(Command{Name: "clearall"})

	c, ok := r.MatchPrefix("clea")
	if !ok || c.Name != "clear" {
		t.Fatalf("MatchPrefix(%q) = %q, %v; want %q, true", "clea", c.Name, ok, "clear")
	}
}

func TestMatchPrefixNoMatch(t *testing.T) {
	var r Registry
	r.Add(Command{Name: "help"})

	if _, ok := r.MatchPrefix("no_such"); ok {
		t.Fatal("expected no match for an unregistered prefix")
	}
}

func TestMatchPrefixEmptyTypedNeverMatches(t *testing.T) {
	var r Registry
	r.Add(Command{Name: "help"})

	if _, ok := r.MatchPrefix(""); ok {
		t.Fatal("expected an empty typed prefix never to match")
	}
}

func TestFindExactMatch(t *testing.T) {
	var r Registry
	r.Add(Command{Name: "top", LongHelp: "# top\n"})

	c, ok := r.Find("top")
	if !ok || c.LongHelp != "# top\n" {
		t.Fatalf("Find(%q) = %+v, %v", "top", c, ok)
	}
}

func TestFindDoesNotPrefixMatch(t *testing.T) {
	var r Registry
	r.Add(Command{Name: "help"})

	if _, ok := r.Find("he"); ok {
		t.Fatal("Find must require an exact name match, unlike MatchPrefix")
	}
}

func TestAllPreservesRegistrationOrder(t *testing.T) {
	var r Registry
	r.Add(Command{Name: "clear"})
	r.Add(Command{Name: "help"})
	r.Add(Command{Name: "pkill"})

	names := make([]string, 0, 3)
	for _, c := range r.All() {
		names = append(names, c.Name)
	}
	want := []string{"clear", "help", "pkill"}
	for i, n := range want {
		if names[i] != n {
			t.Fatalf("All()[%d] = %q, want %q", i, names[i], n)
		}
	}
}

func TestRetCodeString(t *testing.T) {
	cases := map[RetCode]string{Ok: "ok", Error: "error", Alive: "alive", Killed: "killed"}
	for rc, want := range cases {
		if got := rc.String(); got != want {
			t.Fatalf("RetCode(%d).String() = %q, want %q", rc, got, want)
		}
	}
}
