package util

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HTTPError is the one error type core operations return. The status code
// doubles as the error taxonomy: 400 invalid argument, 403 forbidden,
// 404 not found, 500 internal.
type HTTPError struct {
	Status  int
	Message string
}

func (he *HTTPError) Error() string {
	return fmt.Sprintf("%v (statusCode=%v)", he.Message, he.Status)
}

var DbHTTPErr = &HTTPError{
	Message: "storage error",
	Status:  http.StatusInternalServerError,
}

func InvalidArgumentHTTPErr(message string) *HTTPError {
	return &HTTPError{Status: http.StatusBadRequest, Message: message}
}

func NotFoundHTTPErr(message string) *HTTPError {
	return &HTTPError{Status: http.StatusNotFound, Message: message}
}

func ForbiddenHTTPErr(message string) *HTTPError {
	return &HTTPError{Status: http.StatusForbidden, Message: message}
}

// BuildDbHTTPErr hides storage details from the response; the underlying
// error is for the caller to log.
func BuildDbHTTPErr(err error) *HTTPError {
	return DbHTTPErr
}

func BuildJSONBindHTTPErr(err error) *HTTPError {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Message: err.Error(),
	}
}

type Handler func(c *gin.Context) (interface{}, *HTTPError)

type HandlerOpts struct {
}

// HandlerWrapper adapts a Handler into a gin.HandlerFunc with the standard
// response envelope.
func HandlerWrapper(handler Handler, opts *HandlerOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, httpErr := handler(c)
		if httpErr != nil {
			HandleHTTPErrorRes(c, httpErr)
			c.Abort()
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    data,
		})
	}
}

/*
	HandleHTTPErrorRes handles creating the appropriate response for the HTTP error.
	break the route after calling this function
*/
func HandleHTTPErrorRes(c *gin.Context, err *HTTPError) {
	c.JSON(err.Status, gin.H{
		"success": false,
		"message": err.Message,
	})
}
