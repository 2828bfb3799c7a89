package service

import "gemini-proxy-go/internal/apperrors"

// Request is the transient per-call input. Model and APIKey are optional;
// empty strings mean "not supplied".
type Request struct {
	Prompt string
	Model  string
	APIKey string
}

// Invocation is the concrete (model, credential) pair used for one upstream
// call. Both fields are non-empty once resolution succeeds.
type Invocation struct {
	Model      string
	Credential string
}

// Result is the uniform outcome of processing one request. Exactly one of
// Text or Err is populated; Model records the model actually used when known.
type Result struct {
	Text  string
	Model string
	Err   *apperrors.ProxyError
}

// OK reports whether the request succeeded.
func (r Result) OK() bool { return r.Err == nil }

func success(text, model string) Result {
	return Result{Text: text, Model: model}
}

func failure(err *apperrors.ProxyError) Result {
	return Result{Err: err}
}
