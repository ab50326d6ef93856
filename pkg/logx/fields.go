package logx

const (
	FieldAppName         = "app-name"
	FieldAppVersion      = "app-version"
	FieldDealID          = "deal-id"
	FieldDealsCount      = "deals-count"
	FieldDurationMs      = "duration-ms"
	FieldError           = "error"
	FieldEventType       = "event-type"
	FieldHTTPMethod      = "http-method"
	FieldHTTPRequest     = "http-request"
	FieldHTTPResponse    = "http-response"
	FieldIP              = "ip"
	FieldRequestBody     = "request-body"
	FieldRequestID       = "request-id"
	FieldResponseBody    = "response-body"
	FieldResponseHeaders = "response-headers"
	FieldResponseStatus  = "response-status"
	FieldRevision        = "revision"
	FieldStack           = "stack"
	FieldStorage         = "storage"
	FieldTraceID         = "trace-id"
	FieldURL             = "url"
)
