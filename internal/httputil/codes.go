package httputil

// Machine-readable error codes returned alongside error messages so that
// clients do not have to parse human-readable text.
const (
	CodeInvalidRequestBody = "invalid_request_body"
	CodeValidationFailed   = "validation_failed"
	CodeEmailAlreadyExists = "email_already_exists"
	CodeInvalidCredentials = "invalid_credentials"

	CodeMissingAuth       = "missing_authentication"
	CodeInvalidAuthHeader = "invalid_authorization_header"
	CodeTokenExpired      = "token_expired"
	CodeInvalidToken      = "token_invalid"

	CodeUserNotFound  = "user_not_found"
	CodeFileRequired  = "file_required"
	CodeInternalError = "internal_error"
)
