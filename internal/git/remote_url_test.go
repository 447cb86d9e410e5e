package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRemoteURL(t *testing.T) {
	tests := []struct {
		name       string
		gitConfig  map[string]string
		remoteName string
		want       string
		wantErr    bool
	}{
		{
			name:       "plain remote",
			gitConfig:  map[string]string{"remote.origin.url": "git@github.com:octo/hello.git"},
			remoteName: "origin",
			want:       "git@github.com:octo/hello.git",
		},
		{
			name:       "remote name keeps its case",
			gitConfig:  map[string]string{"remote.Upstream.url": "https://github.com/octo/hello"},
			remoteName: "Upstream",
			want:       "https://github.com/octo/hello",
		},
		{
			name: "insteadOf base keeps its case",
			gitConfig: map[string]string{
				"remote.origin.url":                "work:hello",
				"url.git@GHE.corp:Octo/.insteadof": "work:",
			},
			remoteName: "origin",
			want:       "git@GHE.corp:Octo/hello",
		},
		{
			name: "insteadOf rewrite",
			gitConfig: map[string]string{
				"remote.origin.url":                 "gh:octo/hello",
				"url.https://github.com/.insteadof": "gh:",
			},
			remoteName: "origin",
			want:       "https://github.com/octo/hello",
		},
		{
			name: "longest insteadOf prefix wins",
			gitConfig: map[string]string{
				"remote.origin.url":                        "gh:octo/hello",
				"url.https://github.com/.insteadof":        "gh:",
				"url.git@github.com:octo/.insteadof":       "gh:octo/",
				"url.https://example.com/unused.insteadof": "other:",
			},
			remoteName: "origin",
			want:       "git@github.com:octo/hello",
		},
		{
			name:       "missing remote",
			gitConfig:  map[string]string{"remote.origin.url": "git@github.com:octo/hello.git"},
			remoteName: "upstream",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveRemoteURL(tt.gitConfig, tt.remoteName)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrNoRemote)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRepository(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		host    string
		want    Repository
		wantErr bool
	}{
		{name: "scp style", url: "git@github.com:octo/hello.git", host: "github.com", want: Repository{Owner: "octo", Name: "hello"}},
		{name: "ssh url", url: "ssh://git@github.com/octo/hello.git", host: "github.com", want: Repository{Owner: "octo", Name: "hello"}},
		{name: "https", url: "https://github.com/octo/hello", host: "github.com", want: Repository{Owner: "octo", Name: "hello"}},
		{name: "https with .git and slash", url: "https://github.com/octo/hello.git/", host: "github.com", want: Repository{Owner: "octo", Name: "hello"}},
		{name: "git protocol", url: "git://github.com/octo/hello.git", host: "github.com", want: Repository{Owner: "octo", Name: "hello"}},
		{name: "enterprise host", url: "git@ghe.example.com:team/tool.git", host: "ghe.example.com", want: Repository{Owner: "team", Name: "tool"}},
		{name: "host case insensitive", url: "https://GitHub.com/octo/hello", host: "github.com", want: Repository{Owner: "octo", Name: "hello"}},
		{name: "other host", url: "git@gitlab.com:octo/hello.git", host: "github.com", wantErr: true},
		{name: "missing repo name", url: "https://github.com/octo", host: "github.com", wantErr: true},
		{name: "too many segments", url: "https://github.com/octo/hello/extra", host: "github.com", wantErr: true},
		{name: "empty host", url: "https://github.com/octo/hello", host: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRepository(tt.url, tt.host)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Owner+"/"+tt.want.Name, got.String())
		})
	}
}
