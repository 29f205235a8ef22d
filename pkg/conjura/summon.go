package conjura

import "context"

// summon unwraps the data of a successful envelope or raises its error.
func summon[T any](ctx context.Context, c *Client, path string, method Method, callSite string, opts *CallOptions) (T, error) {
	var zero T
	env, err := invoke[T](ctx, c, path, method, callSite, opts)
	if err != nil {
		return zero, err
	}
	if env == nil {
		return zero, newError(CodeNoResponse, "No response from backend", callSite)
	}
	if env.Error != nil {
		return zero, HandleEnvelopeError(env.Error, callSite)
	}
	return env.Data, nil
}
