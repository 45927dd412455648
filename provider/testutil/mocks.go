package testutil

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go/v3"
	openaioption "github.com/openai/openai-go/v3/option"
)

// FakeMessages is a scripted Anthropic Messages transport.
//
// Each call to New consumes the next scripted step. Requests are recorded so
// tests can inspect exactly what would have been sent.
type FakeMessages struct {
	mu        sync.Mutex
	responses []*anthropic.Message
	errs      []error
	requests  []anthropic.MessageNewParams
}

// NewFakeMessages scripts successful responses in order.
func NewFakeMessages(responses ...*anthropic.Message) *FakeMessages {
	return &FakeMessages{
		responses: responses,
		errs:      make([]error, len(responses)),
	}
}

// FailAt makes call i (0-based) return err instead of a response.
func (f *FakeMessages) FailAt(i int, err error) *FakeMessages {
	f.mu.Lock()
	defer f.mu.Unlock()
	for len(f.errs) <= i {
		f.errs = append(f.errs, nil)
		f.responses = append(f.responses, nil)
	}
	f.errs[i] = err
	return f
}

// New implements provider.MessagesAPI.
func (f *FakeMessages) New(ctx context.Context, body anthropic.MessageNewParams, opts ...anthropicoption.RequestOption) (*anthropic.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := len(f.requests)
	f.requests = append(f.requests, body)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if i >= len(f.responses) {
		return nil, fmt.Errorf("fake messages: unexpected call %d", i+1)
	}
	if f.errs[i] != nil {
		return nil, f.errs[i]
	}
	return f.responses[i], nil
}

// Requests returns the recorded request params.
func (f *FakeMessages) Requests() []anthropic.MessageNewParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]anthropic.MessageNewParams(nil), f.requests...)
}

// FakeChatCompletions is a scripted chat-completions transport.
type FakeChatCompletions struct {
	mu        sync.Mutex
	responses []*openai.ChatCompletion
	errs      []error
	requests  []openai.ChatCompletionNewParams
}

// NewFakeChatCompletions scripts successful responses in order.
func NewFakeChatCompletions(responses ...*openai.ChatCompletion) *FakeChatCompletions {
	return &FakeChatCompletions{
		responses: responses,
		errs:      make([]error, len(responses)),
	}
}

// FailAt makes call i (0-based) return err instead of a response.
func (f *FakeChatCompletions) FailAt(i int, err error) *FakeChatCompletions {
	f.mu.Lock()
	defer f.mu.Unlock()
	for len(f.errs) <= i {
		f.errs = append(f.errs, nil)
		f.responses = append(f.responses, nil)
	}
	f.errs[i] = err
	return f
}

// New implements provider.ChatCompletionsAPI.
func (f *FakeChatCompletions) New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...openaioption.RequestOption) (*openai.ChatCompletion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := len(f.requests)
	f.requests = append(f.requests, body)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if i >= len(f.responses) {
		return nil, fmt.Errorf("fake chat completions: unexpected call %d", i+1)
	}
	if f.errs[i] != nil {
		return nil, f.errs[i]
	}
	return f.responses[i], nil
}

// Requests returns the recorded request params.
func (f *FakeChatCompletions) Requests() []openai.ChatCompletionNewParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]openai.ChatCompletionNewParams(nil), f.requests...)
}

// AnthropicStatusError builds the error the Anthropic SDK returns for an HTTP
// error status. body is the raw JSON error payload.
func AnthropicStatusError(status int, body string) *anthropic.Error {
	e := &anthropic.Error{}
	_ = e.UnmarshalJSON([]byte(body))
	e.StatusCode = status
	e.Request, e.Response = fakeExchange(status)
	return e
}

// OpenAIStatusError builds the error the OpenAI SDK returns for an HTTP error
// status. body is the raw JSON error payload.
func OpenAIStatusError(status int, body string) *openai.Error {
	e := &openai.Error{}
	_ = e.UnmarshalJSON([]byte(body))
	e.StatusCode = status
	e.Request, e.Response = fakeExchange(status)
	return e
}

func fakeExchange(status int) (*http.Request, *http.Response) {
	req := &http.Request{
		Method: http.MethodPost,
		URL:    &url.URL{Scheme: "https", Host: "api.example.test", Path: "/v1/messages"},
	}
	return req, &http.Response{StatusCode: status, Request: req}
}
