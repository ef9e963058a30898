package ratelimit

import "time"

// Per-source budgets. Free tiers are small; windows are one minute so a
// denied caller gets a short retry hint.
var defaultLimits = map[string]Config{
	"handelsregister":     {MaxRequests: 30, Window: time.Minute},
	"insolventieregister": {MaxRequests: 20, Window: time.Minute},
	"bekendmakingen":      {MaxRequests: 20, Window: time.Minute},
	"bestuurders":         {MaxRequests: 20, Window: time.Minute},
	"relaties":            {MaxRequests: 15, Window: time.Minute},
	"website":             {MaxRequests: 30, Window: time.Minute},
	"techstack":           {MaxRequests: 15, Window: time.Minute},
	"socials":             {MaxRequests: 15, Window: time.Minute},
	"nieuws":              {MaxRequests: 10, Window: time.Minute},
	"reviews":             {MaxRequests: 10, Window: time.Minute},
}

// LimitFor returns the budget for a source, with a conservative default
// for sources without an explicit entry.
func LimitFor(source string) Config {
	if cfg, ok := defaultLimits[source]; ok {
		return cfg
	}
	return Config{MaxRequests: 10, Window: time.Minute}
}
