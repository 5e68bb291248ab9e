package main

import (
	"context"
	"fmt"

	"github.com/temoto/keypad/config"
	"github.com/temoto/keypad/log2"
)

func checkMain(ctx context.Context, log *log2.Log, c *config.Config) error {
	fmt.Printf("keys=%d brightness=%v tone=%.2fHz\n", c.Device.KeyCount, c.Device.Brightness, c.ToneFrequency())
	for i, s := range c.Screens() {
		fmt.Printf("screen %d %q\n", i, s.Name)
		for k, a := range s.Keys {
			if !a.IsZero() {
				fmt.Printf("  key %2d: %s (%s)\n", k, a, a.Chord)
			}
		}
	}
	log.Infof("config ok")
	return nil
}
