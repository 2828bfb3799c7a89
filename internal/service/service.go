package service

import (
	"context"

	"gemini-proxy-go/internal/apperrors"
	"gemini-proxy-go/internal/upstream"
	log "github.com/sirupsen/logrus"
)

// Invoker issues a single upstream generation call.
type Invoker interface {
	GenerateText(ctx context.Context, model, credential, prompt string) (string, *upstream.Failure)
}

// Service orchestrates one proxy request: validation, credential resolution,
// upstream invocation, failure classification. It is stateless per request;
// nothing is retried and no state leaks across calls.
type Service struct {
	resolver Resolver
	invoker  Invoker
}

func New(resolver Resolver, invoker Invoker) *Service {
	return &Service{resolver: resolver, invoker: invoker}
}

// Process runs the full pipeline and returns a uniform result. Validation and
// resolution failures short-circuit without reaching the upstream.
func (s *Service) Process(ctx context.Context, req Request) Result {
	if perr := ValidatePrompt(req.Prompt); perr != nil {
		return failure(perr)
	}

	inv, perr := s.resolver.Resolve(ctx, req)
	if perr != nil {
		return failure(perr)
	}

	text, fail := s.invoker.GenerateText(ctx, inv.Model, inv.Credential, req.Prompt)
	if fail != nil {
		classified := apperrors.ClassifyFailure(fail, s.resolver.ServiceIdentity())
		s.logFailure(inv.Model, fail, classified)
		result := failure(classified)
		result.Model = inv.Model
		return result
	}

	return success(text, inv.Model)
}

// logFailure records full upstream detail server-side; callers only ever see
// the normalized code and message.
func (s *Service) logFailure(model string, fail *upstream.Failure, classified *apperrors.ProxyError) {
	entry := log.WithFields(log.Fields{
		"model":           model,
		"code":            classified.Code,
		"upstream_status": fail.StatusCode,
	})
	if classified.Code.HTTPStatus() >= 500 {
		entry.WithField("detail", classified.Detail).Error("upstream call failed")
		return
	}
	entry.Warn("upstream call failed")
}
