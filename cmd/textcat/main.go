// Copyright 2025 The textcat Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the textcat classification server and CLI.

textcat guesses the category of a text, usually its language, by comparing
the character n-gram frequency ranking of the text against the rankings of
known samples. The closest category by out-of-place distance wins.

# Usage

Start the msgpack IPC server over the built-in language profiles:

	textcat

Classify text given as arguments or typed line by line:

	textcat classify "das ist ein kleiner Test"
	textcat classify

Learn profiles from a directory of samples and use them:

	textcat learn ./samples langs.tcp
	textcat --profiles langs.tcp classify "hola a todos"

Every sample file is named after its category: en.sample, en.news.txt and
de.html all feed their label. HTML samples contribute their text only.

Inspect what a category has learned, optionally limited to n-grams starting
with a prefix:

	textcat inspect fr qu

# Configuration

Runtime configuration lives in a TOML file, created with defaults on first
run under ~/.config/textcat/config.toml:

	[profile]
	lengths = [1, 2, 3, 4, 5]
	cap = 400
	separator = "_"

	[classify]
	ambiguity_margin = 0.0
	candidate_ratio = 0.03

	[server]
	max_text_bytes = 1048576

The [profile] section only affects profiles built at startup. Profile files
carry the options they were learned with.

Print the config file in use, or overwrite it with the defaults:

	textcat config
	textcat config --rebuild

# IPC Protocol

See the server package. Responses are written to stdout, logs to stderr.
*/
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
)

const (
	Version = "0.4.0"
	AppName = "textcat"
	gh      = "https://github.com/bastiangx/textcat"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error(err)
		stop()
		os.Exit(1)
	}
}
