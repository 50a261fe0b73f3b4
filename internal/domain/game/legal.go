package game

// LegalVerbs returns the commands the ship can currently execute, in a
// fixed deterministic order. Every strategy must restrict itself to this
// set; the player treats a verb outside it as a defect in the strategy, not
// a runtime condition.
//
// Legality here is syntactic ("the game will accept this command"), not
// tactical. Firing a torpedo with an empty tube rack or raising shields
// with a burnt-out shield control are the kinds of commands the predicate
// excludes.
func LegalVerbs(s *GameState) []Verb {
	verbs := make([]Verb, 0, 10)

	// Navigation works even with damaged warp engines; the game just
	// caps the warp factor.
	verbs = append(verbs, VerbMove)

	if !s.SystemDamaged(SystemShortRangeSensors) {
		verbs = append(verbs, VerbScanShort)
	}
	if !s.SystemDamaged(SystemLongRangeSensors) {
		verbs = append(verbs, VerbScanLong)
	}
	if !s.SystemDamaged(SystemPhasers) && s.Resource(ResourceEnergy) > 0 {
		verbs = append(verbs, VerbFirePhasers)
	}
	if !s.SystemDamaged(SystemTorpedoTubes) && s.Resource(ResourceTorpedoes) > 0 {
		verbs = append(verbs, VerbFireTorpedo)
	}
	if !s.SystemDamaged(SystemShieldControl) && s.Resource(ResourceEnergy)+s.Resource(ResourceShields) > 0 {
		verbs = append(verbs, VerbShieldControl)
	}
	verbs = append(verbs, VerbDamageReport)
	if !s.SystemDamaged(SystemComputer) {
		verbs = append(verbs, VerbComputer)
	}
	if s.StarbaseInQuadrant {
		verbs = append(verbs, VerbDock)
	}
	verbs = append(verbs, VerbQuit)
	return verbs
}

// IsLegal reports whether the verb is in the state's legal-command set.
// VerbAcknowledge is always legal: an empty acknowledgement cannot be
// rejected by the interpreter.
func IsLegal(s *GameState, v Verb) bool {
	if v == VerbAcknowledge {
		return true
	}
	for _, legal := range LegalVerbs(s) {
		if legal == v {
			return true
		}
	}
	return false
}
