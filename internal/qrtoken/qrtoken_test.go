package qrtoken

import (
    "strings"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func testKey() []byte {
    key := make([]byte, 32)
    for i := range key {
        key[i] = byte(i)
    }
    return key
}

func TestSealOpen_RoundTrip(t *testing.T) {
    s, err := NewSealer(testKey())
    require.NoError(t, err)

    claims := Claims{
        ReservationID:   42,
        UserID:          7,
        ReservationTime: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
    }
    token, err := s.Seal(claims)
    require.NoError(t, err)

    got, err := s.Open(token)
    require.NoError(t, err)
    assert.Equal(t, claims, got)
}

func TestSeal_NonDeterministic(t *testing.T) {
    s, err := NewSealer(testKey())
    require.NoError(t, err)
    c := Claims{ReservationID: 1, UserID: 1}
    a, err := s.Seal(c)
    require.NoError(t, err)
    b, err := s.Seal(c)
    require.NoError(t, err)
    assert.NotEqual(t, a, b, "fresh nonce per token")
}

func TestOpen_RejectsTampering(t *testing.T) {
    s, err := NewSealer(testKey())
    require.NoError(t, err)
    token, err := s.Seal(Claims{ReservationID: 42, UserID: 7})
    require.NoError(t, err)

    // flip a character near the end (inside the ciphertext/tag)
    flipped := []byte(token)
    last := len(flipped) - 1
    if flipped[last] == 'A' {
        flipped[last] = 'B'
    } else {
        flipped[last] = 'A'
    }
    _, err = s.Open(string(flipped))
    assert.Error(t, err)
}

func TestOpen_WrongKey(t *testing.T) {
    s1, err := NewSealer(testKey())
    require.NoError(t, err)
    other := testKey()
    other[0] ^= 0xFF
    s2, err := NewSealer(other)
    require.NoError(t, err)

    token, err := s1.Seal(Claims{ReservationID: 1})
    require.NoError(t, err)
    _, err = s2.Open(token)
    assert.Error(t, err)
}

func TestNewSealer_RejectsShortKey(t *testing.T) {
    _, err := NewSealer([]byte("too short"))
    assert.Error(t, err)
}

func TestDataURL_Format(t *testing.T) {
    s, err := NewSealer(testKey())
    require.NoError(t, err)
    url, err := s.DataURL(Claims{ReservationID: 42, UserID: 7})
    require.NoError(t, err)
    assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
    assert.Greater(t, len(url), len("data:image/png;base64,"))
}
