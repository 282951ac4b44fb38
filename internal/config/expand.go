package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandTilde replaces a leading ~ or ~/ with the user's home directory.
// ~username is not supported. The path is returned unchanged when the home
// directory is unknown.
func ExpandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}

// ExpandPath expands ${USER}, ${HOME}, ${CONFIG} (the global config
// directory) and a leading ~ in a local file path such as votes.state_file
// or log.file.
func ExpandPath(s string) string {
	if s == "" || !strings.ContainsAny(s, "$~") {
		return s
	}
	home := getHome()
	r := strings.NewReplacer(
		"${USER}", getUser(),
		"${HOME}", home,
		"${CONFIG}", filepath.Join(home, GlobalConfigDir),
	)
	return ExpandTilde(r.Replace(s))
}

// getUser returns the login name from USER, LOGNAME or USERNAME.
func getUser() string {
	for _, key := range []string{"USER", "LOGNAME", "USERNAME"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return "user"
}

func getHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	return "~"
}
