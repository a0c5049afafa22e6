// Package appid assigns the human-readable application ids (YYMMDDNNNN).
package appid

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"
)

// Store answers "what is the largest application id starting with prefix".
// Returns "" with nil error when no id matches.
type Store interface {
	MaxIDForPrefix(ctx context.Context, prefix string) (string, error)
}

type Generator struct {
	store Store
	now   func() time.Time
}

func NewGenerator(store Store) *Generator {
	return &Generator{store: store, now: time.Now}
}

// Next computes the next application id for the current day: YYMMDD prefix,
// trailing 4 digits of the largest existing id for that day plus one. The id
// is assigned once at creation and never recomputed.
//
// Two concurrent creations on the same day can compute the same number; the
// window is accepted, not mitigated.
//
// Next never fails: if the store query or the digit parse goes wrong it falls
// back to prefix + last 4 digits of the current unix millis.
func (g *Generator) Next(ctx context.Context) string {
	now := g.now()
	prefix := now.Format("060102")

	maxID, err := g.store.MaxIDForPrefix(ctx, prefix)
	if err != nil {
		log.Printf("appid: max lookup failed, using millis fallback: %v", err)
		return g.fallback(prefix)
	}

	next := 1
	if maxID != "" {
		if len(maxID) != len(prefix)+4 {
			log.Printf("appid: unexpected id %q, using millis fallback", maxID)
			return g.fallback(prefix)
		}
		n, err := strconv.Atoi(maxID[len(prefix):])
		if err != nil {
			log.Printf("appid: cannot parse sequence of %q, using millis fallback", maxID)
			return g.fallback(prefix)
		}
		next = n + 1
	}

	return fmt.Sprintf("%s%04d", prefix, next)
}

func (g *Generator) fallback(prefix string) string {
	millis := g.now().UnixMilli()
	return fmt.Sprintf("%s%04d", prefix, millis%10000)
}
