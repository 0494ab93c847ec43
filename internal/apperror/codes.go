package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	CodeNotFound Code = "NOT_FOUND"

	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	CodeRateLimitExceeded Code = "RATE_LIMIT_EXCEEDED"

	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Explorer error codes
const (
	// Request parsing
	CodeInvalidSelector Code = "INVALID_SELECTOR"
	CodeInvalidIndex    Code = "INVALID_INDEX"

	// Node RPC: transport and auth failures
	CodeNodeUnavailable      Code = "NODE_UNAVAILABLE"
	CodeNodeConnectionFailed Code = "NODE_CONNECTION_FAILED"
	CodeNodeAuthFailed       Code = "NODE_AUTH_FAILED"
	CodeNodeUnauthorized     Code = "NODE_UNAUTHORIZED"
	CodeCircuitOpen          Code = "CIRCUIT_OPEN"

	// Node RPC: the call reached the node and the node refused it
	CodeNodeMethodFailed Code = "NODE_METHOD_FAILED"

	// Lookups
	CodeBlockNotFound        Code = "BLOCK_NOT_FOUND"
	CodeUtxoNotFound         Code = "UTXO_NOT_FOUND"
	CodeAnnouncementNotFound Code = "ANNOUNCEMENT_NOT_FOUND"

	// Supply
	CodeSupplyCalculationFailed Code = "SUPPLY_CALCULATION_FAILED"

	// Alerting
	CodeAlertDeliveryFailed Code = "ALERT_DELIVERY_FAILED"
)
