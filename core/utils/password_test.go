package utils

import "testing"

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatalf("hash must not equal the plaintext")
	}

	if !ComparePassword(hash, "correct horse battery staple") {
		t.Fatalf("valid password rejected")
	}
	if ComparePassword(hash, "wrong password") {
		t.Fatalf("wrong password accepted")
	}
}

func TestGenerateID_LengthAndAlphabet(t *testing.T) {
	id := GenerateID(8)
	if len(id) != 8 {
		t.Fatalf("len = %d, want 8", len(id))
	}
	for _, r := range id {
		ok := (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
		if !ok {
			t.Fatalf("unexpected character %q in id %q", r, id)
		}
	}
}
