package id

import (
	mathrand "math/rand"
	"path"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)

	reUnsafe = regexp.MustCompile(`[^a-z0-9._-]+`)
)

// New returns a random (v4) UUID in canonical lowercase form.
func New() string { return uuid.NewString() }

// Valid reports whether s parses as a UUID.
func Valid(s string) bool {
	_, err := uuid.Parse(strings.TrimSpace(s))
	return err == nil
}

// StorageKey returns "<prefix>/<ulid>-<name>", sortable by upload time.
// The file name is lowercased and stripped to a safe charset.
func StorageKey(prefix, filename string) string {
	entropyMu.Lock()
	u := ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
	entropyMu.Unlock()

	name := reUnsafe.ReplaceAllString(strings.ToLower(path.Base(strings.ReplaceAll(filename, "\\", "/"))), "-")
	name = strings.Trim(name, "-.")
	if name == "" {
		name = "document"
	}
	return strings.Trim(prefix, "/") + "/" + strings.ToLower(u) + "-" + name
}
