package domain

import "testing"

func TestProfileLinks_EffectiveRole(t *testing.T) {
	tests := []struct {
		name  string
		links ProfileLinks
		want  Role
	}{
		{"no links", ProfileLinks{}, RoleUser},
		{"admin", ProfileLinks{Admin: true}, RoleAdmin},
		{"founder", ProfileLinks{Founder: true}, RoleFounder},
		{"employee", ProfileLinks{Employee: true}, RoleEmployee},
		// Malformed data: most-privileged wins, deterministically.
		{"admin and employee", ProfileLinks{Admin: true, Employee: true}, RoleAdmin},
		{"founder and employee", ProfileLinks{Founder: true, Employee: true}, RoleFounder},
		{"all three", ProfileLinks{Admin: true, Founder: true, Employee: true}, RoleAdmin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.links.EffectiveRole(); got != tt.want {
				t.Errorf("EffectiveRole() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProfile_Role(t *testing.T) {
	if (AdminProfile{}).Role() != RoleAdmin {
		t.Error("AdminProfile should map to RoleAdmin")
	}
	if (FounderProfile{}).Role() != RoleFounder {
		t.Error("FounderProfile should map to RoleFounder")
	}
	if (EmployeeProfile{}).Role() != RoleEmployee {
		t.Error("EmployeeProfile should map to RoleEmployee")
	}
}

func TestAccount_Validate(t *testing.T) {
	a := &Account{Email: "a@b.com", PasswordHash: []byte{1}, PasswordSalt: []byte{2}}
	if err := a.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if a.Role != RoleUser {
		t.Errorf("empty role should default to User, got %v", a.Role)
	}
	if err := (&Account{PasswordHash: []byte{1}, PasswordSalt: []byte{2}}).Validate(); err == nil {
		t.Error("missing email should fail validation")
	}
	if err := (&Account{Email: "a@b.com"}).Validate(); err == nil {
		t.Error("missing credentials should fail validation")
	}
}
