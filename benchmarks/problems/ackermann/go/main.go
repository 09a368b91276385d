package main

import (
	"fmt"

	"github.com/pbiggar/benchmarks/benchmarks/problems/ackermann"
)

func main() {
	fmt.Println(ackermann.Ackermann(ackermann.DefaultM, ackermann.DefaultN))
}
