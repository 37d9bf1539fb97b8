package ps

import (
	"testing"

	"github.com/nickyhof/TemporalDB/core"
)

func TestAddAndListRemotes(t *testing.T) {
	persistence, err := NewMemoryPersistence()
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}

	err = persistence.AddRemote("origin", "https://example.com/replica.git")
	if err != nil {
		t.Fatalf("Failed to add remote: %v", err)
	}

	err = persistence.AddRemote("backup", "https://example.com/backup.git")
	if err != nil {
		t.Fatalf("Failed to add second remote: %v", err)
	}

	remotes, err := persistence.ListRemotes()
	if err != nil {
		t.Fatalf("Failed to list remotes: %v", err)
	}
	if len(remotes) != 2 {
		t.Fatalf("Expected 2 remotes, got %d", len(remotes))
	}

	found := make(map[string]string)
	for _, remote := range remotes {
		if len(remote.URLs) != 1 {
			t.Errorf("Expected 1 URL for remote %s, got %d", remote.Name, len(remote.URLs))
			continue
		}
		found[remote.Name] = remote.URLs[0]
	}
	if found["origin"] != "https://example.com/replica.git" {
		t.Errorf("Unexpected origin URL: %q", found["origin"])
	}
	if found["backup"] != "https://example.com/backup.git" {
		t.Errorf("Unexpected backup URL: %q", found["backup"])
	}
}

func TestAddDuplicateRemote(t *testing.T) {
	persistence, err := NewMemoryPersistence()
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}

	if err := persistence.AddRemote("origin", "https://example.com/a.git"); err != nil {
		t.Fatalf("Failed to add remote: %v", err)
	}
	if err := persistence.AddRemote("origin", "https://example.com/b.git"); err == nil {
		t.Error("Expected error adding a remote name twice")
	}
}

func TestRemoveRemote(t *testing.T) {
	persistence, err := NewMemoryPersistence()
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}

	if err := persistence.AddRemote("origin", "https://example.com/replica.git"); err != nil {
		t.Fatalf("Failed to add remote: %v", err)
	}

	if err := persistence.RemoveRemote("origin"); err != nil {
		t.Fatalf("Failed to remove remote: %v", err)
	}

	remotes, err := persistence.ListRemotes()
	if err != nil {
		t.Fatalf("Failed to list remotes: %v", err)
	}
	if len(remotes) != 0 {
		t.Errorf("Expected no remotes after removal, got %d", len(remotes))
	}

	if err := persistence.RemoveRemote("origin"); err == nil {
		t.Error("Expected error removing a remote that does not exist")
	}
}

func TestPushWithoutRemote(t *testing.T) {
	persistence, err := NewMemoryPersistence()
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}

	identity := core.Identity{Name: "test", Email: "test@test.com"}
	_, err = persistence.CreateTable(core.Table{Name: "people", Columns: []core.Column{{Name: "id", Type: core.IntType}}}, identity)
	if err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	if err := persistence.Push("", "", nil); err == nil {
		t.Error("Expected error pushing with no remote configured")
	}
}

func TestPushWithoutCommits(t *testing.T) {
	persistence, err := NewMemoryPersistence()
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}

	if err := persistence.AddRemote("origin", "https://example.com/replica.git"); err != nil {
		t.Fatalf("Failed to add remote: %v", err)
	}

	// No commits yet, so the current branch cannot be resolved
	if err := persistence.Push("origin", "", nil); err == nil {
		t.Error("Expected error pushing an empty log")
	}
}

func TestFetchWithoutRemote(t *testing.T) {
	persistence, err := NewMemoryPersistence()
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}

	if err := persistence.Fetch("", nil); err == nil {
		t.Error("Expected error fetching with no remote configured")
	}
}

func TestAuthMethodConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		auth    *RemoteAuth
		wantNil bool
		wantErr bool
	}{
		{name: "nil auth", auth: nil, wantNil: true},
		{name: "none", auth: &RemoteAuth{Type: AuthTypeNone}, wantNil: true},
		{name: "token", auth: &RemoteAuth{Type: AuthTypeToken, Token: "secret"}},
		{name: "basic", auth: &RemoteAuth{Type: AuthTypeBasic, Username: "user", Password: "pass"}},
		{name: "unknown", auth: &RemoteAuth{Type: AuthType("kerberos")}, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			method, err := test.auth.getAuthMethod()
			if test.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if test.wantNil && method != nil {
				t.Errorf("Expected nil auth method, got %v", method)
			}
			if !test.wantNil && method == nil {
				t.Error("Expected non-nil auth method")
			}
		})
	}
}
