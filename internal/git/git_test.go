package git

import "testing"

func TestParseRemoteURL(t *testing.T) {
	tests := []struct {
		url           string
		wantHost      string
		wantNamespace string
		wantName      string
		wantErr       bool
	}{
		{"git@gitlab.com:group/project.git", "gitlab.com", "group", "project", false},
		{"git@gitlab.example.com:group/project", "gitlab.example.com", "group", "project", false},
		{"https://gitlab.com/group/project.git", "gitlab.com", "group", "project", false},
		{"http://gitlab.local/group/project", "gitlab.local", "group", "project", false},
		{"git@gitlab.com:group/subgroup/project.git", "gitlab.com", "group/subgroup", "project", false},
		{"https://gitlab.com/group/sub/deeper/project", "gitlab.com", "group/sub/deeper", "project", false},
		{"git@gitlab.com:justproject.git", "", "", "", true},
		{"https://gitlab.com/", "", "", "", true},
		{"ftp://gitlab.com/group/project", "", "", "", true},
		{"", "", "", "", true},
	}
	for _, tt := range tests {
		remote, err := ParseRemoteURL(tt.url)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseRemoteURL(%q) expected error, got %+v", tt.url, remote)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRemoteURL(%q) unexpected error: %v", tt.url, err)
			continue
		}
		if remote.Host != tt.wantHost || remote.Namespace != tt.wantNamespace || remote.Name != tt.wantName {
			t.Errorf("ParseRemoteURL(%q) = %+v, want %s:%s/%s", tt.url, remote, tt.wantHost, tt.wantNamespace, tt.wantName)
		}
	}
}

func TestRemotePath(t *testing.T) {
	r := Remote{Host: "gitlab.com", Namespace: "group/sub", Name: "project"}
	if got := r.Path(); got != "group/sub/project" {
		t.Errorf("Path() = %q, want %q", got, "group/sub/project")
	}
}
