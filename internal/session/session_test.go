package session

import "testing"

// TestAuthenticate_Success verifies successful authentication.
func TestAuthenticate_Success(t *testing.T) {
	s := New("secret")
	if !s.Authenticate("secret") {
		t.Fatalf("expected authentication to succeed")
	}
	if !s.IsAuthenticated() {
		t.Fatalf("expected authenticated state")
	}
}

// TestAuthenticate_Fail verifies a wrong password clears authentication.
func TestAuthenticate_Fail(t *testing.T) {
	s := New("secret")
	s.Authenticate("secret")
	if s.Authenticate("nope") {
		t.Fatalf("expected authentication to fail")
	}
	if s.IsAuthenticated() {
		t.Fatalf("expected unauthenticated state")
	}
}

// TestAuthenticate_EmptyPasswordNeverMatches verifies an unset password cannot be matched.
func TestAuthenticate_EmptyPasswordNeverMatches(t *testing.T) {
	s := New("")
	if s.Authenticate("") {
		t.Fatalf("expected empty password to be rejected")
	}
}

// TestLogout verifies logout clears auth state.
func TestLogout(t *testing.T) {
	s := New("secret")
	s.Authenticate("secret")
	s.Logout()
	if s.IsAuthenticated() {
		t.Fatalf("expected unauthenticated state")
	}
}

// TestNewOpen_AlwaysAuthenticated verifies dev-mode sessions skip the password.
func TestNewOpen_AlwaysAuthenticated(t *testing.T) {
	s := NewOpen()
	if !s.IsAuthenticated() {
		t.Fatalf("expected open session to start authenticated")
	}
	s.Logout()
	if !s.IsAuthenticated() || !s.Authenticate("") {
		t.Fatalf("expected open session to stay authenticated")
	}
}

// TestInputEnabled_Toggle verifies input enabled toggle.
func TestInputEnabled_Toggle(t *testing.T) {
	s := New("secret")
	s.SetInputEnabled(false)
	if s.InputEnabled() {
		t.Fatalf("expected input disabled")
	}
	s.SetInputEnabled(true)
	if !s.InputEnabled() {
		t.Fatalf("expected input enabled")
	}
}

// TestSnapshot verifies snapshot content.
func TestSnapshot(t *testing.T) {
	s := New("secret")
	s.Authenticate("secret")
	s.SetInputEnabled(false)
	snap := s.Snapshot()
	if !snap.Authenticated || snap.InputEnabled || !snap.PasswordMode {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}
