package service

// ServiceError is a custom error type for misconfigured services
type ServiceError string

// Error implements the error interface
func (e ServiceError) Error() string {
	return string(e)
}

const (
	ErrNilConfig       ServiceError = "config cannot be nil"
	ErrNilDirectory    ServiceError = "directory cannot be nil"
	ErrNilRegistry     ServiceError = "registry cannot be nil"
	ErrNilClock        ServiceError = "clock cannot be nil"
	ErrNilScheduler    ServiceError = "scheduler cannot be nil"
	ErrNilLogger       ServiceError = "logger cannot be nil"
	ErrNilOrchestrator ServiceError = "orchestrator cannot be nil"
	ErrNilRunner       ServiceError = "runner cannot be nil"
	ErrInvalidTimeout  ServiceError = "timeouts must be positive"
)
