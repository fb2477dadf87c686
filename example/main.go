package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/l-donovan/bnf"
)

func main() {
	contents, err := os.ReadFile("example/arithmetic.bnf")

	if err != nil {
		log.Fatalln(err)
	}

	grammar, err := bnf.Build(string(contents))

	if err != nil {
		var grammarErr *bnf.GrammarError

		if errors.As(err, &grammarErr) {
			_ = grammarErr.PrintContext(os.Stderr, 2)
		}

		log.Fatalln(err)
	}

	fmt.Printf("Grammar:\n%s\n", grammar)

	normalized, err := bnf.ChomskyNormalForm(grammar)

	if err != nil {
		log.Fatalln(err)
	}

	fmt.Printf("Chomsky normal form:\n%s", bnf.RenderCompact(normalized))
}
