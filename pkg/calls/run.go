package calls

import (
	"context"
	"fmt"

	"github.com/samvad-hq/conjura/pkg/conjura"
)

// Run executes def through the facade it names and returns a value ready to
// be encoded as JSON: the envelope, the data, a Result or a static document.
func Run(ctx context.Context, c *conjura.Client, def Definition) (any, error) {
	method := conjura.Method(def.Method)
	switch def.Facade {
	case FacadeInvoke:
		env, err := c.Invoke(ctx, def.Path, method, def.ErrorCode, def.Options())
		if err != nil {
			return nil, err
		}
		return env, nil
	case FacadeSummon:
		var out any
		if err := c.Summon(ctx, def.Path, method, def.ErrorCode, def.Options(), &out); err != nil {
			return nil, err
		}
		return out, nil
	case FacadeWhisper:
		return c.Whisper(ctx, def.Path, method, def.Options()), nil
	case FacadeStatic:
		return conjura.SummonJSON[any](ctx, def.Path, def.ErrorCode)
	default:
		return nil, fmt.Errorf("unsupported facade %q", def.Facade)
	}
}
