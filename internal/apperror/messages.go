package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	CodeNotFound: "Resource not found",

	CodeConfigurationError: "Configuration error",

	CodeRateLimitExceeded: "Rate limit exceeded",

	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	CodeInvalidSelector: "Invalid selector",
	CodeInvalidIndex:    "Invalid index",

	CodeNodeUnavailable:      "Node RPC is unavailable",
	CodeNodeConnectionFailed: "Failed to connect to node",
	CodeNodeAuthFailed:       "Failed to authenticate with node",
	CodeNodeUnauthorized:     "Node rejected credentials",
	CodeCircuitOpen:          "Circuit breaker is open",

	CodeNodeMethodFailed: "Node RPC method failed",

	CodeBlockNotFound:        "Block not found",
	CodeUtxoNotFound:         "UTXO not found",
	CodeAnnouncementNotFound: "Announcement not found",

	CodeSupplyCalculationFailed: "Supply calculation failed",

	CodeAlertDeliveryFailed: "Failed to deliver alert",
}
