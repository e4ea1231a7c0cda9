// main.go -- build/inspect/dump CDB files from the command line
//
// (c) Sudhi Herle 2018 -- adapted from example/mphdb.go and
// example/text.go: those built a CHD MPH DB from text/CSV input; this
// drives the actual cdb package instead, over a newline-delimited
// key\tvalue text stream.
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/opencoff/go-cdb"
	flag "github.com/opencoff/pflag"
)

func main() {
	var use64 bool
	var cache int
	var delim string

	usage := fmt.Sprintf("%s [options] make|dump|get|stat DB [args...]", os.Args[0])

	flag.BoolVarP(&use64, "64", "6", false, "Build/read a 64-bit CDB")
	flag.IntVarP(&cache, "cache", "c", 0, "Cache `N` most-recently-used records when reading")
	flag.StringVarP(&delim, "delim", "d", "\t", "Field `delimiter` between key and value in 'make' input")
	flag.Usage = func() {
		fmt.Printf("cdb - build and query Constant Databases\nUsage: %s\n", usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		die("Usage: %s", usage)
	}

	cmd, db, rest := args[0], args[1], args[2:]

	var err error
	switch cmd {
	case "make":
		err = runMake(db, delim, use64, rest)
	case "dump":
		err = runDump(db, use64, cache)
	case "get":
		err = runGet(db, use64, cache, rest)
	case "stat":
		err = runStat(db, use64, cache)
	default:
		die("unknown command %q\nUsage: %s", cmd, usage)
	}

	if err != nil {
		die("%s: %s", cmd, err)
	}
}

// runMake reads key<delim>value lines from stdin (or from the files in
// args, if given) and builds db.
func runMake(db, delim string, use64 bool, args []string) error {
	if use64 {
		w, err := cdb.CreateWriter64(db, nil)
		if err != nil {
			return err
		}
		if err := addLines(w.Put, delim, args); err != nil {
			w.Abort()
			return err
		}
		return w.Finalize()
	}

	w, err := cdb.CreateWriter32(db, nil)
	if err != nil {
		return err
	}
	if err := addLines(w.Put, delim, args); err != nil {
		w.Abort()
		return err
	}
	return w.Finalize()
}

func addLines(add func(key, value []byte) error, delim string, args []string) error {
	if len(args) == 0 {
		return addStream(add, os.Stdin, delim)
	}
	for _, fn := range args {
		fd, err := os.Open(fn)
		if err != nil {
			return err
		}
		err = addStream(add, fd, delim)
		fd.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func addStream(add func(key, value []byte) error, fd *os.File, delim string) error {
	sc := bufio.NewScanner(fd)
	for sc.Scan() {
		line := sc.Text()
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}
		i := strings.Index(line, delim)
		if i < 0 {
			continue
		}
		if err := add([]byte(line[:i]), []byte(line[i+len(delim):])); err != nil {
			return err
		}
	}
	return sc.Err()
}

func runDump(db string, use64 bool, cache int) error {
	if use64 {
		r, err := cdb.Open64(db, nil, cache)
		if err != nil {
			return err
		}
		defer r.Close()
		return dump(r.IterItems())
	}

	r, err := cdb.Open32(db, nil, cache)
	if err != nil {
		return err
	}
	defer r.Close()
	return dump(r.IterItems())
}

func dump[T cdb.Offset](it *cdb.ItemIter[T]) error {
	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	for {
		k, v, ok := it.Next()
		if !ok {
			return nil
		}
		fmt.Fprintf(w, "%s\t%s\n", k, v)
	}
}

func runGet(db string, use64 bool, cache int, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("need a key")
	}
	key := []byte(args[0])

	if use64 {
		r, err := cdb.Open64(db, nil, cache)
		if err != nil {
			return err
		}
		defer r.Close()
		return printValues(r.Gets(key))
	}

	r, err := cdb.Open32(db, nil, cache)
	if err != nil {
		return err
	}
	defer r.Close()
	return printValues(r.Gets(key))
}

func printValues[T cdb.Offset](it *cdb.ValueIter[T]) error {
	found := false
	for {
		v, ok := it.Next()
		if !ok {
			break
		}
		found = true
		fmt.Println(string(v))
	}
	if !found {
		return cdb.ErrNotFound
	}
	return nil
}

func runStat(db string, use64 bool, cache int) error {
	if use64 {
		r, err := cdb.Open64(db, nil, cache)
		if err != nil {
			return err
		}
		defer r.Close()
		fmt.Printf("%s: %d records (64-bit)\n", db, r.Len())
		return nil
	}

	r, err := cdb.Open32(db, nil, cache)
	if err != nil {
		return err
	}
	defer r.Close()
	fmt.Printf("%s: %d records (32-bit)\n", db, r.Len())
	return nil
}

func die(f string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, f+"\n", v...)
	os.Exit(1)
}
