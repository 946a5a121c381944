package bind

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/mesh-intelligence/argbind/pkg/types"
)

// Decode maps a Binding's named values onto a caller struct. Fields are
// matched by the "arg" tag, falling back to the field name. Structured
// parameter values decode onto nested structs.
func Decode(b *types.Binding, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "arg",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}
	if err := dec.Decode(b.Arguments()); err != nil {
		return fmt.Errorf("decode binding for %q: %w", b.Command.Name(), err)
	}
	return nil
}
