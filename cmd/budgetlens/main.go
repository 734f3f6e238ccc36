package main

import "github.com/budgetlens/budgetlens/internal/cli"

func main() {
	cli.Execute()
}
