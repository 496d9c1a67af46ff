package model

import "testing"

func TestNewLocalUser_WhitelistsFields(t *testing.T) {
	u := NewLocalUser("  A@X.com ", "hash", "Ada", "")

	if u.Email != "a@x.com" {
		t.Errorf("Email = %q, want a@x.com", u.Email)
	}
	if u.Role != RoleUser {
		t.Errorf("Role = %q, want %q", u.Role, RoleUser)
	}
	if u.Provider != ProviderLocal {
		t.Errorf("Provider = %q", u.Provider)
	}
	if u.ID == "" {
		t.Error("ID should be assigned")
	}
	if u.GoogleSub != nil {
		t.Error("local user must not carry a google subject")
	}
	if u.LastName != nil {
		t.Errorf("LastName = %v, want nil", *u.LastName)
	}
	if u.HashedPassword == nil || *u.HashedPassword != "hash" {
		t.Error("HashedPassword not set")
	}
}

func TestNewGoogleUser(t *testing.T) {
	u := NewGoogleUser("sub-1", "G@Mail.com", "Grace", "Hopper", "https://pic")

	if u.Provider != ProviderGoogle {
		t.Errorf("Provider = %q", u.Provider)
	}
	if u.GoogleSub == nil || *u.GoogleSub != "sub-1" {
		t.Error("GoogleSub not set")
	}
	if u.HashedPassword != nil {
		t.Error("google user must not have a password hash")
	}
	if u.Email != "g@mail.com" || u.Role != RoleUser {
		t.Errorf("got email=%q role=%q", u.Email, u.Role)
	}
}

func TestValidRole(t *testing.T) {
	for _, r := range []string{RoleUser, RoleStaff, RoleAdmin} {
		if !ValidRole(r) {
			t.Errorf("ValidRole(%q) = false", r)
		}
	}
	for _, r := range []string{"", "root", "Admin"} {
		if ValidRole(r) {
			t.Errorf("ValidRole(%q) = true", r)
		}
	}
}
