package response

// Response represents a standard API response format
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	ErrorCode  string      `json:"error_code,omitempty"` // machine-readable code, see pkg/apperr
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// PaginatedData wraps list payloads with paging metadata
type PaginatedData struct {
	Items interface{} `json:"items"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
	Total int64       `json:"total"`
}

// SuccessWithPagination returns a success response with paging metadata
func SuccessWithPagination(statusCode int, items interface{}, page, limit int, total int64) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data: PaginatedData{
			Items: items,
			Page:  page,
			Limit: limit,
			Total: total,
		},
	}
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}

// ErrorWithCode returns an error response carrying a machine-readable code
func ErrorWithCode(statusCode int, err string, code string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
		ErrorCode:  code,
	}
}
