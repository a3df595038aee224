package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/user"
	"regexp"
	"slices"
	"strings"

	"github.com/earthboundkid/versioninfo/v2"
)

var sensitiveRegex = regexp.MustCompile(`(?i)(PASSWORD|API_KEY|ACCESS_KEY|SECRET|TOKEN)`)

func ShowVersion() {
	log.Printf("Version: %s\n", versioninfo.Short())
}

// EnvironmentVars logs the FASTBLUR_* settings, masking anything that looks
// like a credential.
func EnvironmentVars() {
	log.Println("Environment variables")
	for _, line := range maskedEnv(os.Environ(), "FASTBLUR_") {
		log.Printf("  %s\n", line)
	}
}

func maskedEnv(environ []string, prefix string) []string {
	lines := make([]string, 0, len(environ))
	for _, entry := range environ {
		key, value, _ := strings.Cut(entry, "=")
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if sensitiveRegex.MatchString(key) {
			value = "********"
		}
		lines = append(lines, key+": "+value)
	}
	slices.Sort(lines)
	return lines
}

// UserInfo logs who the process runs as and whether it can write to each of
// dirs.
func UserInfo(dirs ...string) {
	log.Printf("PID: %d", os.Getpid())
	if currentUser, err := user.Current(); err != nil {
		log.Printf("Error getting current user: %v", err)
	} else {
		log.Printf("User: uid=%s(%s) gid=%s", currentUser.Uid, currentUser.Username, currentUser.Gid)
	}

	for _, dir := range dirs {
		log.Printf("Directory %s: %s", dir, dirAccess(dir))
	}
}

func dirAccess(dir string) string {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return "missing, will be created"
	}
	if err != nil {
		return fmt.Sprintf("cannot stat: %v", err)
	}
	if !info.IsDir() {
		return "not a directory"
	}

	f, err := os.CreateTemp(dir, ".fastblur-*")
	if err != nil {
		return info.Mode().String() + " not writable"
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	return info.Mode().String() + " writable"
}
