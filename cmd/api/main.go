// Command api runs the assistant HTTP API.
package main

import (
	"go.uber.org/fx"

	"github.com/caribbeanrecipe/assistant/internal/infrastructure/container"
)

func main() {
	fx.New(container.Module).Run()
}
