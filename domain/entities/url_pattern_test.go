package entities

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathPattern(t *testing.T) {
	login := PathPattern("/login")

	tests := []struct {
		url  string
		want bool
	}{
		{"https://h/notes/app/login", true},
		{"https://h/notes/app/login/", true},
		{"https://h/notes/app/login?redirect=1", true},
		{"https://h/notes/app/login#top", true},
		{"https://h/notes/app/login-help", false},
		{"https://h/notes/app/dashboard", false},
		{"https://h/notes/app/dashboard?next=/login", false},
		{"https://h/notes/app/profile#/login", false},
		{"://not a url", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, login.Match(tt.url))
		})
	}
	assert.Equal(t, "/login", login.String())
}

func TestGlobPattern(t *testing.T) {
	dashboard := GlobPattern("**/dashboard")
	oneLevel := GlobPattern("https://h/*/dashboard")

	tests := []struct {
		name    string
		pattern URLPattern
		url     string
		want    bool
	}{
		{"double star spans segments", dashboard, "https://h/notes/app/dashboard", true},
		{"query is ignored", dashboard, "https://h/notes/app/dashboard?category=Work", true},
		{"fragment is ignored", dashboard, "https://h/notes/app/dashboard#list", true},
		{"path must end in the glob", dashboard, "https://h/notes/app/dashboard/extra", false},
		{"query does not count as path", dashboard, "https://h/notes/app/login?next=/dashboard", false},
		{"single star stays in one segment", oneLevel, "https://h/app/dashboard", true},
		{"single star rejects a slash", oneLevel, "https://h/notes/app/dashboard", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pattern.Match(tt.url))
		})
	}
}

func TestRegexpPattern_SeesWholeURL(t *testing.T) {
	next := RegexpPattern(regexp.MustCompile(`[?&]next=/login`))

	assert.True(t, next.Match("https://h/notes/app/dashboard?next=/login"))
	assert.False(t, next.Match("https://h/notes/app/login"))
	assert.Equal(t, `[?&]next=/login`, next.String())
}

func TestURLPattern_ZeroValueNeverMatches(t *testing.T) {
	assert.False(t, URLPattern{}.Match("https://h/notes/app/login"))
}
