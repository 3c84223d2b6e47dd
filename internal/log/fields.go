package log

// Standard component names, attached to every record a component logger
// emits so log aggregation can slice by tier.
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentPlatform = "platform"
	ComponentBackend  = "backend"
)
