// Package handlers provides HTTP handlers for the Portify API.
//
// Handlers never write error bodies themselves. They attach an
// apperror.HTTPError to the context and the error middleware renders it.
package handlers

import (
	"github.com/gin-gonic/gin"
)

// respondError hands err to the error middleware and stops the handler chain.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
