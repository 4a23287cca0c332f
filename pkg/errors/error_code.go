package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter   ErrorCode = 100
	ErrCodeMissingParameter   ErrorCode = 101
	ErrCodeInvalidSide        ErrorCode = 102
	ErrCodeInvalidLeverage    ErrorCode = 103
	ErrCodePositionTooSmall   ErrorCode = 104
	ErrCodePositionTooLarge   ErrorCode = 105
	ErrCodeInvalidConfidence  ErrorCode = 106
	ErrCodeInvalidSignal      ErrorCode = 107
	ErrCodeInvalidVaultAmount ErrorCode = 108

	// Configuration errors (200-299)
	ErrCodeInvalidConfiguration ErrorCode = 200
	ErrCodeMissingEndpoint      ErrorCode = 201
	ErrCodeConfigParseFailed    ErrorCode = 202

	// Transport errors (300-399)
	ErrCodeDialFailed    ErrorCode = 300
	ErrCodeSocketClosed  ErrorCode = 301
	ErrCodeWriteFailed   ErrorCode = 302
	ErrCodeReadFailed    ErrorCode = 303
	ErrCodeNotConnected  ErrorCode = 304

	// Decode errors (400-499)
	ErrCodeMalformedFrame  ErrorCode = 400
	ErrCodeUnknownFrame    ErrorCode = 401
	ErrCodeSnapshotDecode  ErrorCode = 402

	// Feed errors (500-599)
	ErrCodeConnectionLost  ErrorCode = 500
	ErrCodeAlreadyStarted  ErrorCode = 501
	ErrCodeClientClosed    ErrorCode = 502
	ErrCodeRetriesExceeded ErrorCode = 503

	// API errors (600-699)
	ErrCodeAPIRequestFailed    ErrorCode = 600
	ErrCodeAPIDecodeFailed     ErrorCode = 601
	ErrCodeAPIRejected         ErrorCode = 602
	ErrCodeVenueUnhealthy      ErrorCode = 603
	ErrCodeVersionIncompatible ErrorCode = 604
)
