package api

import (
	"context"
	"math/rand"
)

// Ambiguous glyphs (0/O, 1/I) are excluded so codes survive being read
// aloud or written on a whiteboard.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	codeLength   = 5
	codeAttempts = 10

	classroomCodePrefix = "CLS-"
	schoolCodePrefix    = "SCH-"
)

func randomCode(prefix string) string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return prefix + string(b)
}

// generateUniqueCode draws random codes until one is unused. Collisions are
// rare at this keyspace, so a bounded retry loop beats reserving codes
// up front.
func generateUniqueCode(ctx context.Context, prefix string, exists func(context.Context, string) (bool, error)) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code := randomCode(prefix)
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", Errf(CodeInternal, "failed to generate unique code")
}
