package apm

type emptyTraceProvider struct{}

// NewEmptyTraceProvider leaves the global no-op provider in place.
func NewEmptyTraceProvider() TraceProvider {
	return emptyTraceProvider{}
}

func (emptyTraceProvider) Stop() error {
	return nil
}
