package tokens

import "errors"

// ErrInvalidToken covers bad signature, wrong issuer/audience, expiry and
// wrong token type. Deliberately opaque.
var ErrInvalidToken = errors.New("invalid or expired token")
