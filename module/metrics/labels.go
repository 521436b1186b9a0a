package metrics

const (
	LabelResource = "resource"
	LabelAction   = "action"
	LabelReason   = "reason"
	LabelRoute    = "route"
	LabelMethod   = "method"
	LabelCode     = "code"
)

const (
	ResourceUndefined = "undefined"
	ResourceEpoch     = "epoch"
)

// action labels, one per state-changing or reading operation of the service
const (
	ActionAddOracle    = "add_oracle"
	ActionRemoveOracle = "remove_oracle"
	ActionInit         = "init"
	ActionSetEnabled   = "set_enabled"
	ActionSetDuration  = "set_duration"
	ActionAdvanceEpoch = "advance_epoch"
	ActionCommit       = "commit"
	ActionReveal       = "reveal"
	ActionWipe         = "wipe"
	ActionRead         = "read"
)
