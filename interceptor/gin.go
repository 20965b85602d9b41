// Copyright © 2025-2026 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package interceptor

import (
	"github.com/gin-gonic/gin"

	"github.com/go-core-stack/admission/admission"
)

// Gin admits requests through svc as gin middleware. The call site
// defaults to "http" and "<METHOD> <route>" using the matched route
// template, and rejected requests are aborted with a JSON body.
func Gin(svc *admission.Service, opts ...Option) gin.HandlerFunc {
	cfg := newConfig(opts)
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		if cfg.skip[route] {
			c.Next()
			return
		}
		if err := svc.Admit(httpInvocation(cfg, c.Request, route)); err != nil {
			code, reason := httpStatus(err)
			c.AbortWithStatusJSON(code, gin.H{
				"code":    reason,
				"message": err.Error(),
			})
			return
		}
		c.Next()
	}
}
