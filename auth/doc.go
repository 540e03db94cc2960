// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing, bearer credentials and id generation.

# Passwords

Passwords are stored as salted bcrypt hashes:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, password) // ErrInvalidCredentials on mismatch

# Bearer Credentials

TokenIssuer signs HS256 JWTs carrying the account id and role, an issuer and
a fixed expiry:

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenIssuer, cfg.TokenTTL)
	token, err := tokens.NewToken(account.ID, account.Role)
	claims, err := tokens.ParseToken(token)

ParseToken rejects other signing methods, foreign issuers and expired tokens
with ErrInvalidToken. The role in the claims is informational; the access
gate reloads the account on every request.

BearerToken extracts the token from an Authorization header value.

# ID Generation

Record ids are random UUIDs:

	id := auth.GenerateID()
*/
package auth
