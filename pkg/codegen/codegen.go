package codegen

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Business code prefixes used across the workflow entities.
const (
	PrefixMaintenance = "MNT"
	PrefixLaundry     = "LAU"
	PrefixPenalty     = "PEN"
)

const suffixLen = 6

// Generator produces human-legible business codes of the form
// {PREFIX}-{YEAR}-{6-hex-upper}, e.g. LAU-2025-AB12C3. Codes double as QR
// payloads and database keys; uniqueness is enforced by the persistence layer,
// callers regenerate on constraint violation.
type Generator struct {
	now func() time.Time
}

// New builds a Generator. A nil clock defaults to time.Now.
func New(now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{now: now}
}

// Generate returns a fresh code for the given prefix.
func (g *Generator) Generate(prefix string) string {
	buf := make([]byte, suffixLen/2)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failure is effectively unrecoverable; fall back to a
		// timestamp suffix so the caller still gets a usable code.
		return fmt.Sprintf("%s-%d-%06X", prefix, g.now().Year(), g.now().UnixNano()%0xFFFFFF)
	}
	suffix := strings.ToUpper(hex.EncodeToString(buf))
	return fmt.Sprintf("%s-%d-%s", prefix, g.now().Year(), suffix)
}
