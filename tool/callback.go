package tool

import (
	"maps"

	"github.com/gin-gonic/gin"
)

func FastReturnError(msg string) gin.H {
	return gin.H{
		"success": false,
		"error":   msg,
	}
}

func FastReturnSuccess() gin.H {
	return gin.H{
		"success": true,
	}
}

func FastReturnSuccessWithData(data any) gin.H {
	return gin.H{
		"success": true,
		"data":    data,
	}
}

func FastReturnErrorWithData(msg string, data map[string]any) gin.H {
	resp := gin.H{
		"success": false,
		"error":   msg,
	}
	maps.Copy(resp, data)
	return resp
}
