// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

main loads an optional .env file (godotenv) before calling ParseFlags, so
values from the file behave exactly like exported environment variables.

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type (sqlite or postgres)
	-redis        Redis address for the results cache
	-jwt-secret   Token signing secret

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p (default 5001)
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t (default sqlite)
	REDIS_ADDR     → -redis
	JWT_SECRET     → -jwt-secret

Environment only:

	TOKEN_ISSUER          issuer claim (default "ballotbox")
	TOKEN_TTL             credential lifetime (default 720h)
	REDIS_PASSWORD        Redis AUTH password
	STATUS_SYNC_INTERVAL  status snapshot job interval (default 1m, 0 disables)
	APP_ENV               "production" switches to JSON logs

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing
  - JWT_SECRET is missing
  - DATABASE_TYPE is neither sqlite nor postgres
  - a duration variable does not parse
*/
package cliparse
