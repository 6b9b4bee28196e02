package vaultsdk

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/imroc/req/v3"
)

var (
	// sdk common
	ErrNoServerURL = errors.New("sdk: server url missing")
	ErrNoVaultKey  = errors.New("sdk: vault key missing")
	ErrNoToken     = errors.New("sdk: access token missing")

	// auth
	ErrTokenExpired = errors.New("sdk: access token expired")

	// vault
	ErrVaultNotFound = errors.New("sdk: vault not found")
)

const (
	// Generic request/server errors
	CodeInvalidRequest = "E_INVALID_REQUEST" // bad or invalid request
	CodeRateLimited    = "E_RATE_LIMITED"    // rate limit exceeded
	CodeInternalError  = "E_INTERNAL_ERROR"  // internal server error
	CodeAccessDenied   = "E_ACCESS_DENIED"   // access denied
	CodeUnknownError   = "E_UNKNOWN_ERR"     // unknown error

	// Vault errors
	CodeVaultNotFound     = "E_VAULT_NOT_FOUND"            // the requested vault does not exist
	CodeVaultGetFailed    = "E_VAULT_GET_OPERATION_FAILED" // a failure while fetching the vault
	CodeVaultPutFailed    = "E_VAULT_PUT_OPERATION_FAILED" // a failure while storing the vault
	CodeVaultRevisionGone = "E_VAULT_REVISION_GONE"        // the referenced revision no longer exists
)

// APIError represents vault server errors
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %s - %s", e.Code, e.Message)
}

// handleAPIError is a helper function that handles the common error pattern
func handleAPIError(resp *req.Response, requestErr error, operation string) error {
	if requestErr != nil {
		return fmt.Errorf("http request error: %s %w", operation, requestErr)
	}

	// got a response, but api returned an error
	if resp.IsErrorState() {
		if err, ok := resp.ErrorResult().(*APIError); ok {
			if err.Code == CodeVaultNotFound || resp.StatusCode == http.StatusNotFound {
				return fmt.Errorf("%s: %w", operation, ErrVaultNotFound)
			}
			return fmt.Errorf("%s %w", operation, err)
		}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%s: %w", operation, ErrVaultNotFound)
		}

		return fmt.Errorf("api error: %s %s", operation, resp.String())
	}

	return nil
}
