package jwtx

import (
	"time"

	"github.com/aussiebroadwan/gallery/pkg/idx"
)

// NewJTI returns a sortable unique identifier for the "jti" claim. Nothing
// looks tokens up by jti today, but it keeps log lines about a token
// correlatable.
func NewJTI(now time.Time) string {
	return idx.NewAt(now).String()
}
