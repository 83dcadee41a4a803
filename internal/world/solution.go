package world

// Solution is the answer to the case the world poses: who did it, and what
// the player must have gathered before an accusation can stick.
type Solution struct {
	// Culprit is the id of the guilty character.
	Culprit string

	// Weapon is the id of the murder weapon, if the case has one.
	Weapon string

	// Motive is a topic word describing the motive, if the case has one.
	Motive string

	// Evidence lists the ids of the evidence entities that must be in the
	// player's possession (or already examined) for an accusation to
	// succeed. Evidence entities flagged Required elsewhere are implied.
	Evidence []string
}
