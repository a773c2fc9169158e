// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package server

import "github.com/gin-gonic/gin"

// Response is the envelope of every JSON response.
type Response struct {
	Message         string `json:"message"`
	Data            any    `json:"data,omitempty"`
	Error           bool   `json:"error,omitempty"`
	RequestID       string `json:"request_id,omitempty"`
	RequestedEntity string `json:"requested_entity,omitempty"`
}

func successResponse(c *gin.Context, message string, data any) Response {
	return Response{
		Message:         message,
		Data:            data,
		RequestID:       c.GetString(requestIDKey),
		RequestedEntity: c.Request.Method + " " + c.FullPath(),
	}
}

func errorResponse(c *gin.Context, message string) Response {
	return Response{
		Message:         message,
		Error:           true,
		RequestID:       c.GetString(requestIDKey),
		RequestedEntity: c.Request.Method + " " + c.FullPath(),
	}
}
