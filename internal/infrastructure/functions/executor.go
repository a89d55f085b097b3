// Package functions hosts the HTTP backed executors that expose external
// services to agents as callable functions.
package functions

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"

	"github.com/janhq/jan-agent-gateway/internal/domain/tool"
)

// Authorizer attaches the caller's credential to an outbound request.
type Authorizer func(req *resty.Request, credential string)

// BearerAuth sends the credential as an OAuth style bearer token.
func BearerAuth(req *resty.Request, credential string) {
	req.SetAuthToken(credential)
}

// RawAuth sends the credential verbatim in the Authorization header.
func RawAuth(req *resty.Request, credential string) {
	req.SetHeader("Authorization", credential)
}

// Session is the per-call handle a function uses to reach its service.
type Session struct {
	client     *resty.Client
	authorize  Authorizer
	credential string
}

// R returns a request bound to ctx and carrying the caller's credential.
func (s *Session) R(ctx context.Context) *resty.Request {
	req := s.client.R().SetContext(ctx)
	s.authorize(req, s.credential)
	return req
}

// Executor serves an ordered table of functions against one external service.
type Executor struct {
	service   string
	client    *resty.Client
	authorize Authorizer
	functions []Function
	index     map[string]int
	validate  *validator.Validate
}

var _ tool.Executor = (*Executor)(nil)

// NewExecutor builds an executor. Function names must be unique.
func NewExecutor(service string, client *resty.Client, authorize Authorizer, fns ...Function) (*Executor, error) {
	if service == "" {
		return nil, fmt.Errorf("service name is required")
	}
	if authorize == nil {
		authorize = BearerAuth
	}

	index := make(map[string]int, len(fns))
	for i, fn := range fns {
		if _, dup := index[fn.descriptor.Name]; dup {
			return nil, fmt.Errorf("%s: function %q defined twice", service, fn.descriptor.Name)
		}
		index[fn.descriptor.Name] = i
	}

	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Executor{
		service:   service,
		client:    client,
		authorize: authorize,
		functions: fns,
		index:     index,
		validate:  validate,
	}, nil
}

func (e *Executor) Service() string {
	return e.service
}

func (e *Executor) Descriptors() []tool.Descriptor {
	out := make([]tool.Descriptor, len(e.functions))
	for i, fn := range e.functions {
		out[i] = fn.descriptor
	}
	return out
}

// Execute decodes and validates args, then performs the function's outbound
// call. Every failure is reported as a failed result.
func (e *Executor) Execute(ctx context.Context, name string, args map[string]any, credential string) tool.Result {
	i, ok := e.index[name]
	if !ok {
		return tool.Failed("unknown function %q", name)
	}
	if strings.TrimSpace(credential) == "" {
		return tool.Failed("no %s credential configured", e.service)
	}

	session := &Session{client: e.client, authorize: e.authorize, credential: credential}
	value, err := e.functions[i].invoke(ctx, e.validate, session, args)
	if err != nil {
		return tool.Failed("%s", err)
	}
	return tool.Succeeded(value)
}
