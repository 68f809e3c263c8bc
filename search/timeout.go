package search

import "time"

// Deadlines for the scraper and LLM race, by hosting platform.
const (
	NetlifyTimeout          = 4 * time.Second
	VercelTimeout           = 4 * time.Second
	VercelProductionTimeout = 8 * time.Second
	LocalTimeout            = 5 * time.Second
)

// PlatformTimeout picks the race deadline from the environment and returns
// it with the detected platform name. Serverless platforms with tighter
// execution limits get shorter deadlines.
func PlatformTimeout(getenv func(string) string) (time.Duration, string) {
	switch {
	case getenv("NETLIFY") != "":
		return NetlifyTimeout, "netlify"
	case getenv("VERCEL") != "":
		if getenv("VERCEL_ENV") == "production" {
			return VercelProductionTimeout, "vercel"
		}
		return VercelTimeout, "vercel"
	default:
		return LocalTimeout, "local"
	}
}
