// Command tabula extracts text from a PDF file and writes it to standard
// output, or to a file when given an output path.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tsawler/tabula"
)

func main() {
	debug := flag.Bool("d", false, "enable diagnostic logging to stderr")
	divider := flag.String("divider", "\n", "text inserted between soft line breaks")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-d] [-divider sep] input.pdf [output.txt]\n", os.Args[0])
		os.Exit(1)
	}

	input := flag.Arg(0)

	text, err := tabula.ExtractTextFromFile(input, *divider, *debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if flag.NArg() < 2 {
		fmt.Print(text)
		return
	}

	if err := writeWithBOM(flag.Arg(1), text); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}
}

// writeWithBOM writes text to path prefixed with a UTF-8 byte order mark,
// so downstream editors that sniff encoding by BOM open the file correctly.
func writeWithBOM(path, text string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}
	_, err = f.WriteString(text)
	return err
}
