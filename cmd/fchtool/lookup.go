// lookup.go -- 'lookup' command implementation
//
// (c) Sudhi Herle 2018
//
// License GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/opencoff/go-fch/fchdb"
	flag "github.com/opencoff/pflag"
)

type lookupCommand struct{}

func init() {
	m := lookupCommand{}
	registerCommand("lookup", &m)
}

func (m *lookupCommand) run(args []string, opt *Option) (err error) {
	fs := flag.NewFlagSet("lookup", flag.ExitOnError)
	fs.SetOutput(os.Stdout)
	fs.Usage = func() {
		fmt.Printf(`Usage: lookup DB KEY...

where 'DB' is the name of the fchdb and KEY is one or more 64-bit keys
(decimal or 0x-prefixed hex).
`)
		fs.PrintDefaults()
		os.Exit(0)
	}

	err = fs.Parse(args[1:])
	if err != nil {
		return fmt.Errorf("lookup: %w", err)
	}

	args = fs.Args()
	if len(args) < 2 {
		return fmt.Errorf("lookup: insufficient args")
	}

	db, err := fchdb.Open(args[0], 1000)
	if err != nil {
		return fmt.Errorf("lookup: %w", err)
	}
	defer db.Close()

	for _, a := range args[1:] {
		key, err := strconv.ParseUint(a, 0, 64)
		if err != nil {
			return fmt.Errorf("lookup: bad key %q: %w", a, err)
		}

		val, ok := db.Lookup(key)
		if !ok {
			fmt.Printf("%#x: <not found>\n", key)
			continue
		}
		fmt.Printf("%#x: %x\n", key, val)
	}

	return nil
}
