package metadata

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/genricoloni/lyra/internal/domain"
)

// URLFromUserInput turns what a user typed (a URL, an absolute path or a
// bare host/file name) into a well-formed absolute URL. Bare names are
// assumed to be web addresses.
func URLFromUserInput(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}

	if isLocalPath(s) {
		return localFileURL(s)
	}

	if u, err := url.Parse(s); err == nil && len(u.Scheme) > 1 && strings.Contains(s, ":/") {
		return u.String()
	}

	if u, err := url.Parse("http://" + s); err == nil && u.Host != "" {
		return u.String()
	}
	return s
}

// isAbsoluteURL reports whether v holds text that parses as an absolute URL
func isAbsoluteURL(v domain.FieldValue) bool {
	switch v.Kind() {
	case domain.ValueText, domain.ValueURL:
	default:
		return false
	}

	u, err := url.Parse(v.String())
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.IsAbs()
}

// hasImageScheme reports whether an image locator already names its scheme
func hasImageScheme(s string) bool {
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "file://")
}

func isLocalPath(s string) bool {
	if strings.HasPrefix(s, "/") || strings.HasPrefix(s, "~") {
		return true
	}
	// C:\ or C:/
	return len(s) >= 3 && s[1] == ':' && (s[2] == '\\' || s[2] == '/') &&
		((s[0] >= 'a' && s[0] <= 'z') || (s[0] >= 'A' && s[0] <= 'Z'))
}

func localFileURL(p string) string {
	if strings.HasPrefix(p, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	p = strings.ReplaceAll(filepath.ToSlash(p), `\`, "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}
