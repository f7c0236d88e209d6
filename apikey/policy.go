package apikey

import "github.com/sirupsen/logrus"

// Policy is the two-tier key resolution used by server-side code: a session's custom key when it
// resolves, else the server-held default. Only server code constructs a Policy, so the default
// key never reaches a browser-facing response.
type Policy struct {
	defaultKey string
}

func NewPolicy(defaultKey string) Policy {
	return Policy{defaultKey: defaultKey}
}

// Resolve picks the key for an outgoing compliance request. r may be nil for requests that are
// not tied to a session (webhook registration at startup, for instance).
func (p Policy) Resolve(r *Resolver) string {
	if r != nil {
		if key, ok := r.APIKey(); ok {
			return key
		}
	}
	if p.defaultKey == "" {
		logrus.Warn("no custom API key resolved and no server default configured")
	}
	return p.defaultKey
}

// Source reports which tier Resolve would use, for diagnostics: "custom", "default" or "none".
func (p Policy) Source(r *Resolver) string {
	if r != nil {
		if _, ok := r.APIKey(); ok {
			return "custom"
		}
	}
	if p.defaultKey != "" {
		return "default"
	}
	return "none"
}

// HasDefault reports whether a server-side fallback key is configured.
func (p Policy) HasDefault() bool {
	return p.defaultKey != ""
}
