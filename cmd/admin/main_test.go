package main

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	domain "tg_pizzeria/internal/domain/order"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Anna", truncate("Anna", 20))
	assert.Equal(t, "Åsa Öberg", truncate("Åsa Öberg", 9))

	got := truncate("Åsa Öberg-Söderström", 10)
	assert.Equal(t, "Åsa Öberg…", got)
	assert.True(t, utf8.ValidString(got))

	// A cut right after a multi-byte rune must not split it.
	got = truncate("ÖÖÖÖÖ", 3)
	assert.Equal(t, "ÖÖ…", got)
	assert.True(t, utf8.ValidString(got))
}

func TestNextInCycle(t *testing.T) {
	assert.Equal(t, domain.StatusPreparing, nextInCycle(orderStatusCycle, domain.StatusPending))
	assert.Equal(t, domain.StatusPending, nextInCycle(orderStatusCycle, domain.StatusCancelled), "cycle wraps")
	assert.Equal(t, domain.StatusPending, nextInCycle(orderStatusCycle, "unknown"), "unknown values restart the cycle")
}
