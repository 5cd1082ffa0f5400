package session

import "strings"

const wildcard = "*"

// RequiresAuthentication reports whether path is protected. Paths are
// compared without their leading and trailing slashes, a pattern ending in
// "*" matches every path that starts with the rest of the pattern.
//
// An empty path or an empty list of exclusions always requires
// authentication.
func RequiresAuthentication(path string, excluded []string) bool {
	if path == "" || len(excluded) == 0 {
		return true
	}
	path = strings.Trim(path, "/")
	for _, pattern := range excluded {
		if strings.HasSuffix(pattern, wildcard) {
			prefix := strings.TrimLeft(strings.TrimSuffix(pattern, wildcard), "/")
			// "users/*" also covers "users"
			if strings.HasPrefix(path+"/", prefix) {
				return false
			}
			continue
		}
		if path == strings.Trim(pattern, "/") {
			return false
		}
	}
	return true
}
