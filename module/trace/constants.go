package trace

// SpanName is the name of a span.
type SpanName string

func (s SpanName) Child(subOp string) SpanName {
	return SpanName(string(s) + "." + subOp)
}

const (
	DropsAction SpanName = "drops.action"

	DropsAddOracle        SpanName = "drops.addOracle"
	DropsRemoveOracle     SpanName = "drops.removeOracle"
	DropsInitialize       SpanName = "drops.initialize"
	DropsSetEnabled       SpanName = "drops.setEnabled"
	DropsSetDuration      SpanName = "drops.setDuration"
	DropsAdvanceEpoch     SpanName = "drops.advanceEpoch"
	DropsWipe             SpanName = "drops.wipe"
	DropsSubmitCommit     SpanName = "drops.submitCommit"
	DropsSubmitReveal     SpanName = "drops.submitReveal"
	DropsCheckCompletion  SpanName = "drops.checkCompletion"
	DropsReadCurrentEpoch SpanName = "drops.readCurrentEpoch"
)
