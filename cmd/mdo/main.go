// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/z5labs/mdo/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err := cli.Execute(ctx, os.Args[1:]...)
	if err != nil {
		cancel()
		os.Exit(1)
	}
}
