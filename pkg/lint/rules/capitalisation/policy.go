package capitalisation

import (
	"fmt"

	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/lint/rules/internal/casing"
)

// policy reads a capitalisation policy option.
func policy(ctx *lint.Context, key string) (casing.Style, error) {
	raw := lint.GetStringOption(ctx.Options, key, string(casing.Consistent))
	st, ok := casing.Parse(raw)
	if !ok {
		return "", fmt.Errorf("invalid %s %q", key, raw)
	}
	return st, nil
}
