// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// Session lifetimes. A signed-in client refreshes its access token with the
// refresh token until the refresh token itself expires.
const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 30 * 24 * time.Hour
	ResetTokenTTL   = time.Hour
)

// Random bytes behind the opaque refresh and reset tokens.
const (
	RefreshTokenLength = 32
	ResetTokenLength   = 32
)

const DisplayNameMaxLength = 120
