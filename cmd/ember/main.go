// Package main provides the Ember ML Framework CLI.
package main

import (
	"fmt"
	"os"

	"github.com/ember-ml/ember/internal/cuda"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("Ember ML Framework %s\n", version)
			return
		case "devices":
			if err := listDevices(); err != nil {
				fmt.Fprintf(os.Stderr, "ember: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	fmt.Println("Ember ML Framework - Tensors with a CUDA backend for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  devices    List CUDA devices")
}

func listDevices() error {
	count, err := cuda.DeviceCount()
	if err != nil {
		return err
	}
	if count == 0 {
		fmt.Println("No CUDA devices found")
		return nil
	}
	for i := 0; i < count; i++ {
		info, err := cuda.QueryDevice(i)
		if err != nil {
			return fmt.Errorf("device %d: %w", i, err)
		}
		fmt.Printf("  [%d] %s\n", i, info)
	}
	return nil
}
