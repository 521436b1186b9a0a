package metrics

// Prometheus metric namespaces
const (
	namespaceDrops = "drops"
)

// Prometheus metric subsystems
const (
	subsystemCache    = "cache"
	subsystemProtocol = "protocol"
	subsystemRest     = "rest"
)
