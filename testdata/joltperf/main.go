package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/xdg-go/jolt"
)

const iterations = 10

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: joltperf <json file>")
	}
	inputFile := os.Args[1]
	jsonData, err := os.ReadFile(inputFile)
	if err != nil {
		log.Fatal(err)
	}
	benchJolt(jsonData)
	benchNaive(jsonData)
}

func benchJolt(input []byte) {
	start := time.Now()
	for i := 0; i < iterations; i++ {
		if _, err := jolt.Unmarshal(input); err != nil {
			log.Fatal(err)
		}
	}
	elapsed := time.Since(start)
	reportResult("jolt", iterations*len(input), elapsed)
}

func benchNaive(input []byte) {
	start := time.Now()
	for i := 0; i < iterations; i++ {
		var v any
		if err := json.Unmarshal(input, &v); err != nil {
			log.Fatal(err)
		}
	}
	elapsed := time.Since(start)
	reportResult("encoding/json", iterations*len(input), elapsed)
}

func reportResult(label string, bytes int, elapsed time.Duration) {
	mbPerSec := float64(bytes) / elapsed.Seconds() / (1024 * 1024)
	fmt.Printf("%-14s %8.2f MB/sec\n", label, mbPerSec)
}
