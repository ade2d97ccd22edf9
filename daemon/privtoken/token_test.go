package privtoken

import (
	"os"
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(t.TempDir())
	return s
}

func TestGrantRequiresRootCaller(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Grant(1000, 5, nil)
	assert.Check(t, err != nil)
}

func TestDurationBoundaries(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Grant(0, 0, nil)
	assert.Check(t, err != nil)

	_, err = s.Grant(0, 1441, nil)
	assert.Check(t, err != nil)

	_, err = s.Grant(0, 1440, nil)
	assert.NilError(t, err)
}

func TestVerifyValidToken(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Grant(0, 5, nil)
	assert.NilError(t, err)

	ok, err := s.Verify(1000)
	assert.NilError(t, err)
	assert.Check(t, ok)
}

func TestVerifyRejectsExpired(t *testing.T) {
	s := newTestStore(t)
	base := time.Now()
	s.now = func() time.Time { return base }
	_, err := s.Grant(0, 1, nil)
	assert.NilError(t, err)

	s.now = func() time.Time { return base.Add(2 * time.Minute) }
	ok, err := s.Verify(1000)
	assert.NilError(t, err)
	assert.Check(t, !ok)
}

func TestVerifyRejectsWrongAllowedUID(t *testing.T) {
	s := newTestStore(t)
	allowed := uint32(42)
	_, err := s.Grant(0, 5, &allowed)
	assert.NilError(t, err)

	ok, err := s.Verify(43)
	assert.NilError(t, err)
	assert.Check(t, !ok)

	ok, err = s.Verify(42)
	assert.NilError(t, err)
	assert.Check(t, ok)
}

func TestGrantRotatesKeyAndInvalidatesPriorToken(t *testing.T) {
	s := newTestStore(t)
	t1, err := s.Grant(0, 5, nil)
	assert.NilError(t, err)

	t2, err := s.Grant(0, 5, nil)
	assert.NilError(t, err)

	// Re-write t1 to disk and verify it against the now-rotated key.
	assert.NilError(t, os.WriteFile(s.tokenPath(), Marshal(t1), 0o600))
	ok, err := s.Verify(1000)
	assert.NilError(t, err)
	assert.Check(t, !ok, "stale token must fail verification after rotation")

	assert.NilError(t, os.WriteFile(s.tokenPath(), Marshal(t2), 0o600))
	ok, err = s.Verify(1000)
	assert.NilError(t, err)
	assert.Check(t, ok)
}

func TestRevokeThenVerifyFails(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Grant(0, 5, nil)
	assert.NilError(t, err)

	assert.NilError(t, s.Revoke(0))
	ok, err := s.Verify(1000)
	assert.NilError(t, err)
	assert.Check(t, !ok)
}

func TestRevokeOfNonexistentIsSuccess(t *testing.T) {
	s := newTestStore(t)
	assert.NilError(t, s.Revoke(0))
}

func TestRevokeRequiresRootCaller(t *testing.T) {
	s := newTestStore(t)
	assert.Check(t, s.Revoke(1000) != nil)
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	allowed := uint32(7)
	tok := Token{
		GrantedByUID:    0,
		CreatedAt:       1000,
		DurationMinutes: 5,
		ExpiresAt:       1300,
		AllowedUID:      &allowed,
	}
	copy(tok.Nonce[:], []byte("0123456789abcdef"))
	copy(tok.Signature[:], []byte("00112233445566778899aabbccddeeff"))

	raw := Marshal(tok)
	got, err := Unmarshal(raw)
	assert.NilError(t, err)
	assert.Equal(t, got.CreatedAt, tok.CreatedAt)
	assert.Equal(t, got.ExpiresAt, tok.ExpiresAt)
	assert.Equal(t, got.DurationMinutes, tok.DurationMinutes)
	assert.Check(t, got.AllowedUID != nil && *got.AllowedUID == 7)
	assert.DeepEqual(t, got.Nonce, tok.Nonce)
	assert.DeepEqual(t, got.Signature, tok.Signature)
}

func TestVerifyNonRootFallback(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission fallback only observable when the test process cannot read root-owned files")
	}
	s := newTestStore(t)
	_, err := s.Grant(0, 5, nil)
	assert.NilError(t, err)
	assert.NilError(t, os.Chmod(s.keyPath(), 0o000))

	ok, err := s.Verify(1000)
	assert.NilError(t, err)
	assert.Check(t, ok, "expiry+UID alone should accept when key is unreadable")
}
