package config

import (
	"flag"
	"os"
	"time"

	"github.com/dkazakov/studentapi/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-i string   JWT issuer
//	-u string   JWT audience
//	-t int      access token validity, minutes
//	-r int      refresh token validity, days
//	-k string   API key (empty disables the X-Api-Key scheme)
//	-o string   role granted to API-key callers
//	-w int      rate limit window, seconds
//	-p int      rate limit permits per window
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integers and converted to time.Duration values.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-i", "-u", "-t", "-r", "-k", "-o", "-w", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.JWTIssuer, "i", config.JWTIssuer, "jwt issuer")
	fs.StringVar(&config.JWTAudience, "u", config.JWTAudience, "jwt audience")

	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refreshTokenValidity := fs.Int("r", int(config.RefreshTokenValidityDuration.Hours()/24), "refresh token validity (in days)")

	fs.StringVar(&config.APIKey, "k", config.APIKey, "API key")
	fs.StringVar(&config.APIKeyRole, "o", config.APIKeyRole, "API key role")

	rateLimitWindow := fs.Int("w", int(config.RateLimitWindow.Seconds()), "rate limit window (in seconds)")
	fs.IntVar(&config.RateLimitPermits, "p", config.RateLimitPermits, "rate limit permits per window")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidity) * 24 * time.Hour
	config.RateLimitWindow = time.Duration(*rateLimitWindow) * time.Second
}
