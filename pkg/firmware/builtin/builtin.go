// Package builtin provides simulated versions of the standard board modules.
package builtin

import (
	"fmt"

	"github.com/wastevensv/flipper/pkg/catalog"
	"github.com/wastevensv/flipper/pkg/firmware"
)

// Board holds the state of every simulated module.
type Board struct {
	LED   *LED
	UART0 *UART
	GPIO  *GPIO
}

// NewBoard creates a board with every module in its reset state.
func NewBoard() *Board {
	return &Board{
		LED:   &LED{},
		UART0: NewUART(DefaultUARTBuffer),
		GPIO:  &GPIO{},
	}
}

// Install registers the board's modules in table, in catalog order, using
// the definitions from cat.
func (b *Board) Install(table *firmware.Table, cat *catalog.Catalog) error {
	handlers := map[string]map[string]firmware.Handler{
		"led":   b.LED.handlers(),
		"uart0": b.UART0.handlers(),
		"gpio":  b.GPIO.handlers(),
	}

	for _, e := range cat.Modules {
		h, ok := handlers[e.Name]
		if !ok {
			continue
		}
		m, err := firmware.FromCatalog(e, h)
		if err != nil {
			return err
		}
		if _, err := table.Register(m); err != nil {
			return fmt.Errorf("register %s: %w", e.Name, err)
		}
	}
	return nil
}

// Install registers a fresh board's modules from the default catalog.
func Install(table *firmware.Table) (*Board, error) {
	b := NewBoard()
	if err := b.Install(table, catalog.Default()); err != nil {
		return nil, err
	}
	return b, nil
}
