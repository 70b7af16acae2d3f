// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command meshselect selects UTxOs for a required value using the built-in
// selection strategies.
package main

import (
	"errors"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
)

// run parses args, sets up logging and executes the chosen command. Command
// output is written to out.
func run(args []string, out io.Writer) error {
	cfg := defaultConfig()

	parser, err := newParser(cfg, out)
	if err != nil {
		return err
	}

	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if cmd == nil {
			return nil
		}

		if _, err := loadConfig(cfg); err != nil {
			return err
		}

		if err := initLogging(cfg); err != nil {
			return err
		}
		defer closeLogRotator()

		return cmd.Execute(args)
	}

	_, err = parser.ParseArgs(args)

	return err
}

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	var flagsErr *flags.Error
	if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
		return
	}

	os.Exit(1)
}
