package registry

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

var dotenvOnce sync.Once

// ResolveCredentials reads USER and PASS env vars using the configured
// prefix:
//
//	prefix: "RELEASE" → RELEASE_USER / RELEASE_PASS
//
// A .env file in the working directory is loaded first (once per
// process), so local runs pick up the same variables CI injects.
func ResolveCredentials(prefix string) (user, pass string, err error) {
	if prefix == "" {
		return "", "", fmt.Errorf("no credentials prefix configured")
	}

	dotenvOnce.Do(func() {
		// Missing .env is fine; real env vars win either way.
		_ = godotenv.Load()
	})

	p := strings.ToUpper(prefix)
	user = os.Getenv(p + "_USER")
	pass = os.Getenv(p + "_PASS")
	if user == "" || pass == "" {
		return "", "", fmt.Errorf("credentials %s_USER/%s_PASS not set", p, p)
	}
	return user, pass, nil
}
