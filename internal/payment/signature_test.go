package payment

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestVerifySignature_Valid(t *testing.T) {
    now := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)
    payload := []byte(`{"type":"payment_intent.succeeded"}`)
    header := Sign(payload, "whsec_test", now)

    require.NoError(t, VerifySignature(payload, header, "whsec_test", DefaultTolerance, now))
}

func TestVerifySignature_WrongSecret(t *testing.T) {
    now := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)
    payload := []byte(`{}`)
    header := Sign(payload, "whsec_test", now)

    err := VerifySignature(payload, header, "whsec_other", DefaultTolerance, now)
    assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifySignature_TamperedBody(t *testing.T) {
    now := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)
    header := Sign([]byte(`{"amount":100}`), "whsec_test", now)

    err := VerifySignature([]byte(`{"amount":999}`), header, "whsec_test", DefaultTolerance, now)
    assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifySignature_Expired(t *testing.T) {
    signed := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)
    payload := []byte(`{}`)
    header := Sign(payload, "whsec_test", signed)

    err := VerifySignature(payload, header, "whsec_test", DefaultTolerance, signed.Add(6*time.Minute))
    assert.ErrorIs(t, err, ErrBadSignature)

    // Within tolerance still passes, in both directions.
    require.NoError(t, VerifySignature(payload, header, "whsec_test", DefaultTolerance, signed.Add(4*time.Minute)))
    require.NoError(t, VerifySignature(payload, header, "whsec_test", DefaultTolerance, signed.Add(-4*time.Minute)))
}

func TestVerifySignature_Malformed(t *testing.T) {
    now := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)
    for _, header := range []string{
        "",
        "t=abc,v1=00",
        "t=1740837600",
        "v1=deadbeef",
        "t=1740837600,v1=zz",
    } {
        err := VerifySignature([]byte(`{}`), header, "whsec_test", DefaultTolerance, now)
        assert.ErrorIs(t, err, ErrBadSignature, "header %q", header)
    }
}
