// Package gesture classifies hand poses into sign symbols and recognizes
// phrases from the recent symbol history of a session.
package gesture

// Symbol is the single-frame classification result: a registered sign name
// or one of the two sentinels.
type Symbol string

// Sentinel symbols. Their values are the display text sent to clients.
const (
	NoHand       Symbol = "Pas de main détectée"
	Unrecognized Symbol = "Signe non reconnu"
)

// IsSentinel reports whether s is NoHand or Unrecognized.
func (s Symbol) IsSentinel() bool {
	return s == NoHand || s == Unrecognized
}

func (s Symbol) String() string {
	return string(s)
}
