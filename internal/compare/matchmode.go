package compare

// MatchMode controls how strictly a hold and a committed transaction must
// agree to count as the same payment.
type MatchMode string

const (
	// ModeNormal compares card, merchant code and described amount.
	ModeNormal MatchMode = "normal"
	// ModeHard is ModeNormal plus an exact hold-date check; used to split ambiguous matches.
	ModeHard MatchMode = "hard"
	// ModeSoft ignores merchant codes and tolerates conversion rounding.
	ModeSoft MatchMode = "soft"
	// ModeExtraSoft needs only card and direction to agree.
	ModeExtraSoft MatchMode = "extra_soft"
)

func (m MatchMode) String() string { return string(m) }
