package response

import "github.com/gin-gonic/gin"

// Meta carries list pagination when a handler pages its results; handlers
// that return the full set pass nil.
type Meta struct {
	Total      int64 `json:"total,omitempty"`
	TotalPages int   `json:"totalPages,omitempty"`
	Page       int   `json:"page,omitempty"`
	PageSize   int   `json:"pageSize,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type envelope struct {
	Ok    bool       `json:"ok"`
	Data  any        `json:"data,omitempty"`
	Meta  *Meta      `json:"meta,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

func Success(c *gin.Context, status int, data any, meta *Meta) {
	c.JSON(status, envelope{Ok: true, Data: data, Meta: meta})
}

func Error(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, envelope{
		Ok:    false,
		Error: &errorBody{Code: code, Message: message, Details: details},
	})
}
