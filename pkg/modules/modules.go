package modules

import (
	"context"
	"fmt"

	"github.com/wastevensv/flipper/pkg/catalog"
	"github.com/wastevensv/flipper/pkg/device"
	"github.com/wastevensv/flipper/pkg/module"
)

// Binder binds the generated bindings. Replace it to route bind events to a
// protocol logger.
var Binder = &module.Binder{}

func bindEntry(ctx context.Context, entry catalog.Entry, ref device.Ref) (*module.Identity, error) {
	id, err := Binder.Bind(ctx, module.Standard(entry), ref)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", entry.Name, err)
	}
	return id, nil
}

// Entries returns the catalog entries the bindings were generated from.
func Entries() []catalog.Entry {
	return []catalog.Entry{ledEntry, uart0Entry, gpioEntry}
}
