package models

import "testing"

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleCreator, RoleBrand, RoleAdmin} {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%q) = false, want true", role)
		}
	}
	for _, role := range []string{"", "moderator", "Admin"} {
		if ValidRole(role) {
			t.Errorf("ValidRole(%q) = true, want false", role)
		}
	}
}

func TestCredentialValidate(t *testing.T) {
	local := Credential{Kind: CredentialLocal, PasswordHash: "$2a$10$abcdef"}
	if msgs := local.Validate(); len(msgs) != 0 {
		t.Errorf("valid local credential rejected: %v", msgs)
	}

	federated := Credential{Kind: CredentialGoogle, Provider: "google", ExternalID: "108234"}
	if msgs := federated.Validate(); len(msgs) != 0 {
		t.Errorf("valid federated credential rejected: %v", msgs)
	}

	// a local account must not carry a federated identity
	mixed := Credential{Kind: CredentialLocal, PasswordHash: "$2a$10$abcdef", Provider: "google", ExternalID: "108234"}
	if msgs := mixed.Validate(); len(msgs) == 0 {
		t.Error("local credential with federated identity should be rejected")
	}

	// a federated account must not carry a password
	mixed = Credential{Kind: CredentialGoogle, Provider: "google", ExternalID: "108234", PasswordHash: "$2a$10$abcdef"}
	if msgs := mixed.Validate(); len(msgs) == 0 {
		t.Error("federated credential with password should be rejected")
	}

	empty := Credential{}
	if msgs := empty.Validate(); len(msgs) == 0 {
		t.Error("empty credential should be rejected")
	}

	noHash := Credential{Kind: CredentialLocal}
	if msgs := noHash.Validate(); len(msgs) == 0 {
		t.Error("local credential without a hash should be rejected")
	}
}
