package response

import "github.com/gin-gonic/gin"

type Resp struct {
	Code int         `json:"code"`
	Kind string      `json:"kind,omitempty"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// New never leaves data null.
func New(code int, kind, msg string, data interface{}) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Kind: kind, Msg: msg, Data: data}
}

func OK(data interface{}) Resp {
	return New(CodeOK, "", CodeMsgMap[CodeOK], data)
}

// Error builds a failure envelope; an empty msg falls back to the code's text.
func Error(code int, kind, msg string) Resp {
	if msg == "" {
		msg = CodeMsgMap[code]
	}
	return New(code, kind, msg, nil)
}

// Abort writes a failure with the HTTP status equal to code.
func Abort(c *gin.Context, code int, kind, msg string) {
	c.AbortWithStatusJSON(code, Error(code, kind, msg))
}
