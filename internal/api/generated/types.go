// Пакет generated — типы и chi-роутинг по контракту openapi.yaml
// (структура oapi-codegen: types + chi-server).
package generated

import "time"

const (
	BasicAuthScopes  = "basicAuth.Scopes"
	BearerAuthScopes = "bearerAuth.Scopes"
)

// Defines values for ErrorDetailCode.
const (
	FILETOOLARGE      ErrorDetailCode = "FILE_TOO_LARGE"
	INCONSISTENTSTATE ErrorDetailCode = "INCONSISTENT_STATE"
	INTERNALERROR     ErrorDetailCode = "INTERNAL_ERROR"
	NOTFOUND          ErrorDetailCode = "NOT_FOUND"
	UNAUTHORIZED      ErrorDetailCode = "UNAUTHORIZED"
	VALIDATIONERROR   ErrorDetailCode = "VALIDATION_ERROR"
)

// Defines values for HealthCheckStatus.
const (
	HealthCheckStatusFail HealthCheckStatus = "fail"
	HealthCheckStatusOk   HealthCheckStatus = "ok"
)

// Defines values for HealthResponseStatus.
const (
	HealthResponseStatusFail HealthResponseStatus = "fail"
	HealthResponseStatusOk   HealthResponseStatus = "ok"
)

// ErrorDetail defines model for ErrorDetail.
type ErrorDetail struct {
	Code    ErrorDetailCode `json:"code"`
	Message string          `json:"message"`
}

// ErrorDetailCode defines model for ErrorDetail.Code.
type ErrorDetailCode string

// ErrorResponse defines model for ErrorResponse.
type ErrorResponse struct {
	Data   *map[string]interface{} `json:"data"`
	Errors []ErrorDetail           `json:"errors"`
	Status int                     `json:"status"`
}

// FileMeta defines model for FileMeta.
type FileMeta struct {
	ContentType string    `json:"contentType"`
	CreateTime  time.Time `json:"createTime"`
	FileName    string    `json:"fileName"`
	Meta        *string   `json:"meta"`
	Size        int64     `json:"size"`
	Token       string    `json:"token"`
}

// FilesMetasRequest defines model for FilesMetasRequest.
type FilesMetasRequest struct {
	Tokens []string `json:"tokens"`
}

// FilesMetasResponse defines model for FilesMetasResponse.
type FilesMetasResponse struct {
	Files map[string]FileMeta `json:"files"`
}

// HealthCheck defines model for HealthCheck.
type HealthCheck struct {
	Message *string           `json:"message,omitempty"`
	Status  HealthCheckStatus `json:"status"`
}

// HealthCheckStatus defines model for HealthCheck.Status.
type HealthCheckStatus string

// HealthResponse defines model for HealthResponse.
type HealthResponse struct {
	Checks    *map[string]HealthCheck `json:"checks,omitempty"`
	Service   string                  `json:"service"`
	Status    HealthResponseStatus    `json:"status"`
	Timestamp time.Time               `json:"timestamp"`
	Version   string                  `json:"version"`
}

// HealthResponseStatus defines model for HealthResponse.Status.
type HealthResponseStatus string

// StatusResponse defines model for StatusResponse.
type StatusResponse struct {
	Ok bool `json:"ok"`
}

// UploadResponse defines model for UploadResponse.
type UploadResponse struct {
	Token string `json:"token"`
}

// Token defines model for Token.
type Token = string

// GetFilesMetasJSONRequestBody defines body for GetFilesMetas for application/json ContentType.
type GetFilesMetasJSONRequestBody = FilesMetasRequest
