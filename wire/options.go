package wire

// Keys and values for message option dicts.
const (
	OptAcknowledge = "acknowledge"
	OptError       = "error"
	OptMatch       = "match"
	OptMode        = "mode"
	OptProgress    = "progress"
	OptTimeout     = "timeout"

	// URI matching modes.
	MatchExact    = "exact"
	MatchPrefix   = "prefix"
	MatchWildcard = "wildcard"

	// Call cancel modes.
	CancelModeKill       = "kill"
	CancelModeKillNoWait = "killnowait"
	CancelModeSkip       = "skip"
)

// OptionString returns the named option as a string, or empty string if
// absent or not string-valued.
func OptionString(opts Dict, key string) string {
	s, _ := AsString(opts[key])
	return s
}

// OptionInt64 returns the named option as an int64, or 0 if absent or not
// numeric.
func OptionInt64(opts Dict, key string) int64 {
	n, _ := AsInt64(opts[key])
	return n
}

// OptionFlag returns the named option as a bool.  Absent or non-bool
// options are false.
func OptionFlag(opts Dict, key string) bool {
	b, ok := opts[key].(bool)
	return ok && b
}

// SetOption sets the named option, allocating the dict if nil, and
// returns the dict.
func SetOption(opts Dict, key string, value interface{}) Dict {
	if opts == nil {
		opts = Dict{}
	}
	opts[key] = value
	return opts
}
