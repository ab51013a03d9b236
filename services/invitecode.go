package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"meeteasy-backend/store"
)

const (
	inviteCodeChars    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	inviteCodeLength   = 6
	inviteCodeAttempts = 10
)

// generateInviteCode draws a 6-character code uniformly from [A-Z0-9].
func generateInviteCode() string {
	code := make([]byte, inviteCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(inviteCodeChars))))
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			panic(fmt.Sprintf("invite code generation: %v", err))
		}
		code[i] = inviteCodeChars[n.Int64()]
	}
	return string(code)
}

// generateUniqueInviteCode issues a code no non-deleted meeting currently
// uses. The check-then-act window between this query and the meeting write is
// an accepted race at a 36^6 code space and this attempt volume.
func (s *MeetingService) generateUniqueInviteCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < inviteCodeAttempts; attempt++ {
		code := generateInviteCode()

		docs, err := s.store.Find(ctx, meetingsCollection, store.Query{
			Filters: []store.Filter{{Path: "inviteCode", Op: "==", Value: code}},
			Limit:   1,
		})
		if err != nil {
			return "", err
		}
		if len(docs) == 0 {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w: no unique code in %d attempts", ErrCodeGenerationExhausted, inviteCodeAttempts)
}
