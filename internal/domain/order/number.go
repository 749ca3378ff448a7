package order

import (
	"fmt"
	"math/rand"
	"time"
)

// NewNumber generates the human-facing order code: "TG", the six-digit date
// (YYMMDD) and a zero-padded random three-digit suffix. The suffix is not
// checked against the store, so two submissions the same day can collide;
// the store-assigned id is the real identity.
func NewNumber(now time.Time) string {
	return fmt.Sprintf("TG%s%03d", now.Format("060102"), rand.Intn(1000))
}
