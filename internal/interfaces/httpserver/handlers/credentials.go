package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/janhq/jan-agent-gateway/internal/domain/tool"
	"github.com/janhq/jan-agent-gateway/internal/infrastructure/functions/github"
	"github.com/janhq/jan-agent-gateway/internal/infrastructure/functions/linear"
)

// Request headers that override the server-wide function credentials for one
// call.
const (
	HeaderGitHubToken  = "X-GitHub-Token"
	HeaderLinearAPIKey = "X-Linear-Api-Key"
)

var credentialHeaders = map[string]string{
	HeaderGitHubToken:  github.ServiceName,
	HeaderLinearAPIKey: linear.ServiceName,
}

func credentialOverrides(c *gin.Context) tool.Credentials {
	var creds tool.Credentials
	for header, service := range credentialHeaders {
		value := strings.TrimSpace(c.GetHeader(header))
		if value == "" {
			continue
		}
		if creds == nil {
			creds = tool.Credentials{}
		}
		creds[service] = value
	}
	return creds
}
