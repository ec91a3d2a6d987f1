package entities

import (
	"net/url"
	"regexp"
	"strings"
)

// URLPattern matches page locations
type URLPattern struct {
	re      *regexp.Regexp
	desc    string
	subject func(*url.URL) string
}

// PathPattern matches URLs whose path ends in fragment, optionally followed by
// a slash. Query and fragment are ignored: PathPattern("/login") matches
// ".../notes/app/login?x" but neither ".../login-help" nor ".../dashboard?next=/login".
func PathPattern(fragment string) URLPattern {
	return URLPattern{
		re:      regexp.MustCompile(regexp.QuoteMeta(fragment) + `/?$`),
		desc:    fragment,
		subject: func(u *url.URL) string { return u.Path },
	}
}

// GlobPattern converts a Playwright-style glob ("**/dashboard") into a pattern.
// "**" matches any characters, "*" any characters except '/'. The glob is
// matched against the URL without its query and fragment.
func GlobPattern(glob string) URLPattern {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(glob); i++ {
		switch ch := glob[i]; ch {
		case '*':
			if i+1 < len(glob) && glob[i+1] == '*' {
				b.WriteString(".*")
				i++
			} else {
				b.WriteString("[^/]*")
			}
		default:
			b.WriteString(regexp.QuoteMeta(string(ch)))
		}
	}
	b.WriteString("$")
	return URLPattern{re: regexp.MustCompile(b.String()), desc: glob, subject: withoutQuery}
}

// RegexpPattern matches re against the whole URL, query and fragment included
func RegexpPattern(re *regexp.Regexp) URLPattern {
	return URLPattern{re: re, desc: re.String(), subject: (*url.URL).String}
}

func withoutQuery(u *url.URL) string {
	stripped := *u
	stripped.RawQuery = ""
	stripped.ForceQuery = false
	stripped.Fragment = ""
	stripped.RawFragment = ""
	return stripped.String()
}

// Match reports whether raw satisfies the pattern. Unparseable URLs never match.
func (p URLPattern) Match(raw string) bool {
	if p.re == nil {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return p.re.MatchString(p.subject(u))
}

func (p URLPattern) String() string {
	return p.desc
}
