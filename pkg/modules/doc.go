// Package modules holds typed bindings for the standard board modules.
//
// The *_gen.go files are produced by flipper-gen from the built-in catalog:
//
//	go generate ./pkg/modules
//
// Each binding wraps a bound module.Identity and a dispatch.Dispatcher and
// exposes one method per module function:
//
//	led, err := modules.BindLED(ctx, d, ref)
//	if err != nil {
//	    return err
//	}
//	err = led.SetRGB(ctx, 0xFF, 0x00, 0x40)
package modules

//go:generate go run ../../cmd/flipper-gen -package modules -output .
