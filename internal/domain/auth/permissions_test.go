package auth

import "testing"

func TestRoleCapabilitiesSubset(t *testing.T) {
	allowed := map[Action]struct{}{}
	for _, action := range Actions {
		allowed[action] = struct{}{}
	}

	for role, actions := range RoleCapabilities {
		if len(actions) == 0 {
			t.Fatalf("role %s has no capabilities", role)
		}
		for _, action := range actions {
			if _, ok := allowed[action]; !ok {
				t.Fatalf("role %s has unknown action %s", role, action)
			}
		}
	}
}

func TestActionsUnique(t *testing.T) {
	seen := map[Action]struct{}{}
	for _, action := range Actions {
		if _, ok := seen[action]; ok {
			t.Fatalf("duplicate action %s", action)
		}
		seen[action] = struct{}{}
	}
}

func TestCanPerform(t *testing.T) {
	cases := []struct {
		role   Role
		action Action
		want   bool
	}{
		{RoleAdmin, ActionTariffWrite, true},
		{RoleReceptionist, ActionAppointmentBook, true},
		{RoleReceptionist, ActionTariffWrite, false},
		{RoleReceptionist, ActionPayrollRead, false},
		{RoleEmployee, ActionPayrollReadOwn, true},
		{RoleEmployee, ActionPayrollRead, false},
		{RoleEmployee, ActionAppointmentBook, false},
		{Role("guest"), ActionAppointmentRead, false},
	}
	for _, tc := range cases {
		if got := CanPerform(tc.role, tc.action); got != tc.want {
			t.Fatalf("CanPerform(%s, %s) = %v, want %v", tc.role, tc.action, got, tc.want)
		}
	}
}

func TestParseRoleAliases(t *testing.T) {
	for raw, want := range map[string]Role{
		"ADMINISTRADOR":   RoleAdmin,
		" recepcionista ": RoleReceptionist,
		"employee":        RoleEmployee,
	} {
		got, ok := ParseRole(raw)
		if !ok || got != want {
			t.Fatalf("ParseRole(%q) = %s, %v", raw, got, ok)
		}
	}
	if _, ok := ParseRole("owner"); ok {
		t.Fatal("expected unknown role to be rejected")
	}
}
