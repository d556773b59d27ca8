// Command scaninvoice runs the invoice OCR pipeline against a local file and
// prints what the panel's scan endpoint would suggest. Handy when tuning the
// amount heuristics on real invoices.
package main

import (
	"fmt"
	"log"
	"os"

	"panelkeu/pkg/invoicescan"
	"panelkeu/pkg/rupiah"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <invoice-image> [more images...]\n", os.Args[0])
		os.Exit(2)
	}
	for _, path := range os.Args[1:] {
		best, found, err := invoicescan.Scan(path)
		if err != nil {
			log.Printf("%s: %v", path, err)
			continue
		}
		if !found {
			fmt.Printf("%s: no plausible amount\n", path)
			continue
		}
		fmt.Printf("%s: %s (raw %q, score %.1f)\n", path, rupiah.Format(best.Amount), best.Raw, best.Score)
	}
}
