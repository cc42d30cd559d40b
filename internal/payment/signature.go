package payment

// signature.go verifies the provider's webhook signatures. The scheme
// is the common timestamped HMAC format: the Signature header carries
// "t=<unix>,v1=<hex>", where v1 is HMAC-SHA256 over "<t>.<raw body>"
// keyed by the shared endpoint secret. The timestamp bounds replay of
// captured payloads.

import (
    "crypto/hmac"
    "crypto/sha256"
    "encoding/hex"
    "errors"
    "fmt"
    "strconv"
    "strings"
    "time"
)

// ErrBadSignature is returned for any malformed, mismatched or expired
// signature. Handlers translate it into a 400 with no state change.
var ErrBadSignature = errors.New("bad webhook signature")

// DefaultTolerance is the maximum accepted age of a signed payload.
const DefaultTolerance = 5 * time.Minute

// VerifySignature checks the signature header against the raw payload.
// The caller supplies now so the check is deterministic in tests.
func VerifySignature(payload []byte, header, secret string, tolerance time.Duration, now time.Time) error {
    var ts int64
    var sig []byte
    for _, part := range strings.Split(header, ",") {
        k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
        if !ok {
            continue
        }
        switch k {
        case "t":
            n, err := strconv.ParseInt(v, 10, 64)
            if err != nil {
                return fmt.Errorf("%w: bad timestamp", ErrBadSignature)
            }
            ts = n
        case "v1":
            raw, err := hex.DecodeString(v)
            if err != nil {
                return fmt.Errorf("%w: bad hex", ErrBadSignature)
            }
            sig = raw
        }
    }
    if ts == 0 || sig == nil {
        return fmt.Errorf("%w: missing components", ErrBadSignature)
    }
    age := now.Sub(time.Unix(ts, 0))
    if age > tolerance || age < -tolerance {
        return fmt.Errorf("%w: timestamp outside tolerance", ErrBadSignature)
    }
    if !hmac.Equal(sig, computeSignature(payload, ts, secret)) {
        return ErrBadSignature
    }
    return nil
}

// Sign produces a valid signature header for a payload. The provider
// does this on their side; tests and local tooling use it here.
func Sign(payload []byte, secret string, at time.Time) string {
    ts := at.Unix()
    return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(computeSignature(payload, ts, secret)))
}

func computeSignature(payload []byte, ts int64, secret string) []byte {
    mac := hmac.New(sha256.New, []byte(secret))
    fmt.Fprintf(mac, "%d.", ts)
    mac.Write(payload)
    return mac.Sum(nil)
}
