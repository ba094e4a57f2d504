package main

import (
	"flag"
	"io"
	"log"
	"os"

	"github.com/fumin/sac"
	"github.com/fumin/sac/internal/logger"
	"github.com/pkg/errors"
)

var output = flag.String("o", "", "output file, stdout if empty")
var verbose = flag.Bool("verbose", false, "verbosity")

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	if err := run(flag.Arg(0)); err != nil {
		log.Fatalf("%+v", err)
	}
}

// run decompresses the file name, or stdin if name is empty.
func run(name string) error {
	var cfg sac.Config
	if *verbose {
		cfg.Logger = logger.New()
	}

	var r io.Reader = os.Stdin
	if name != "" {
		f, err := os.Open(name)
		if err != nil {
			return errors.Wrap(err, "")
		}
		defer f.Close()
		r = f
	}

	var w io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return errors.Wrap(err, "")
		}
		defer f.Close()
		w = f
	}

	if err := sac.Decompress(w, r, cfg); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}
