package auth

import "testing"

func TestParseRole(t *testing.T) {
	for _, name := range []string{"Admin", "User1", "User2"} {
		r, err := ParseRole(name)
		if err != nil {
			t.Errorf("ParseRole(%q): %v", name, err)
		}
		if r.String() != name {
			t.Errorf("expected %s, got %s", name, r)
		}
	}
	for _, name := range []string{"", "admin", "ADMIN", "User3", "Root"} {
		if _, err := ParseRole(name); err == nil {
			t.Errorf("expected ParseRole(%q) to fail", name)
		}
	}
}

func TestRoles(t *testing.T) {
	roles := Roles()
	if len(roles) != 3 {
		t.Fatalf("expected 3 roles, got %d", len(roles))
	}
	roles[0] = "mutated"
	if Roles()[0] != RoleAdmin {
		t.Error("Roles must return a copy")
	}
}
