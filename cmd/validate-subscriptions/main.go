package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/marcelsud/webhook-dispatch/subscriptions"
)

/* validate-subscriptions - Standalone CLI tool to validate subscriptions.yaml
 * Usage: go run cmd/validate-subscriptions/main.go [subscriptions.yaml]
 * Exit codes: 0 = valid, 1 = invalid
 */

func main() {
	file := "subscriptions.yaml"
	if len(os.Args) > 1 {
		file = os.Args[1]
	}

	fmt.Printf("Validating subscriptions file: %s\n", file)
	fmt.Println(strings.Repeat("-", 50))

	loader := subscriptions.NewLoader()
	if err := loader.Load(file); err != nil {
		fmt.Fprintf(os.Stderr, "❌ VALIDATION FAILED\n\n")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	seeds := loader.List()
	fmt.Printf("✓ VALIDATION PASSED\n\n")
	fmt.Printf("Loaded %d subscription(s):\n", len(seeds))

	for i, seed := range seeds {
		fmt.Printf("\n%d. Subscription: %s\n", i+1, seed.Spec.Name)
		fmt.Printf("   URL:     %s\n", seed.Spec.URL)
		fmt.Printf("   Events:  %s\n", strings.Join(seed.Spec.Events, ", "))
		fmt.Printf("   Status:  %s\n", seed.Status)
		if len(seed.Spec.Headers) > 0 {
			fmt.Printf("   Headers: %d\n", len(seed.Spec.Headers))
		}
		if seed.Spec.Secret != "" {
			fmt.Printf("   Signed:  yes\n")
		}
	}

	fmt.Printf("\n✓ All subscriptions are valid!\n")
	os.Exit(0)
}
